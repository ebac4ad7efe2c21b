package stayfinder

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vedant5125/stayfinder-go/internal/transport"
)

// wishlistService implements the WishlistService interface
type wishlistService struct {
	client *Client
}

// Add puts a listing on the wishlist
func (s *wishlistService) Add(ctx context.Context, listingID string) error {
	if listingID == "" {
		return &ValidationError{Field: "listingID", Message: "must not be empty"}
	}

	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/addToWishlist",
		Body:   map[string]string{"listingId": listingID},
	}

	if err := s.client.execute(ctx, call, nil); err != nil {
		return errors.Wrapf(err, "failed to add %s to wishlist", listingID)
	}

	return nil
}

// Remove takes a listing off the wishlist
func (s *wishlistService) Remove(ctx context.Context, listingID string) error {
	if listingID == "" {
		return &ValidationError{Field: "listingID", Message: "must not be empty"}
	}

	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/removeFromWishList",
		Body:   map[string]string{"listingId": listingID},
	}

	if err := s.client.execute(ctx, call, nil); err != nil {
		return errors.Wrapf(err, "failed to remove %s from wishlist", listingID)
	}

	return nil
}

// List retrieves the wishlisted listings
func (s *wishlistService) List(ctx context.Context) ([]*Listing, error) {
	var listings []*Listing
	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/showWishList",
	}

	if err := s.client.execute(ctx, call, &listings); err != nil {
		return nil, errors.Wrap(err, "failed to get wishlist")
	}

	return listings, nil
}
