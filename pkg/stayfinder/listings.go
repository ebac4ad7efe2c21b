package stayfinder

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vedant5125/stayfinder-go/internal/transport"
)

// listingService implements the ListingService interface
type listingService struct {
	client *Client
}

// List retrieves all listings
func (s *listingService) List(ctx context.Context) ([]*Listing, error) {
	var listings []*Listing
	call := &transport.Call{
		Method: http.MethodGet,
		Path:   "/listing/getAllListings",
	}

	if err := s.client.execute(ctx, call, &listings); err != nil {
		return nil, errors.Wrap(err, "failed to get listings")
	}

	return listings, nil
}

// Get retrieves a single listing by ID
func (s *listingService) Get(ctx context.Context, listingID string) (*Listing, error) {
	if listingID == "" {
		return nil, &ValidationError{Field: "listingID", Message: "must not be empty"}
	}

	var listing Listing
	call := &transport.Call{
		Method: http.MethodGet,
		Path:   "/listing/listingDetails/" + listingID,
	}

	if err := s.client.execute(ctx, call, &listing); err != nil {
		return nil, errors.Wrapf(err, "failed to get listing %s", listingID)
	}

	return &listing, nil
}
