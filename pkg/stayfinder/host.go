package stayfinder

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vedant5125/stayfinder-go/internal/transport"
)

// hostService implements the HostService interface
type hostService struct {
	client *Client
}

// Listings retrieves the host's own listings
func (s *hostService) Listings(ctx context.Context) ([]*Listing, error) {
	var listings []*Listing
	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/host/showHostListings",
	}

	if err := s.client.execute(ctx, call, &listings); err != nil {
		return nil, errors.Wrap(err, "failed to get host listings")
	}

	return listings, nil
}

// Upload creates a new listing with its images
func (s *hostService) Upload(ctx context.Context, params *CreateListingParams) (*Listing, error) {
	if params == nil {
		return nil, &ValidationError{Field: "params", Message: "must not be nil"}
	}
	if len(params.Thumbnail.Content) == 0 {
		return nil, &ValidationError{Field: "thumbnail", Message: "thumbnail image is required"}
	}

	form := &transport.Form{
		Fields: listingFields(params.Title, params.Description, params.Price, params.Location, params.Type, params.Guests),
		Files: []transport.FormFile{
			{Field: "thumbnail", Name: params.Thumbnail.Filename, Content: params.Thumbnail.Content},
		},
	}
	for _, img := range params.SupportImages {
		form.Files = append(form.Files, transport.FormFile{
			Field: "supportImg", Name: img.Filename, Content: img.Content,
		})
	}

	var listing Listing
	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/host/uploadStay",
		Form:   form,
	}

	if err := s.client.execute(ctx, call, &listing); err != nil {
		return nil, errors.Wrap(err, "failed to upload listing")
	}

	return &listing, nil
}

// Update rewrites a listing's text fields
func (s *hostService) Update(ctx context.Context, listingID string, params *UpdateListingParams) (*Listing, error) {
	if listingID == "" {
		return nil, &ValidationError{Field: "listingID", Message: "must not be empty"}
	}
	if params == nil {
		return nil, &ValidationError{Field: "params", Message: "must not be nil"}
	}

	var listing Listing
	call := &transport.Call{
		Method: http.MethodPut,
		Path:   "/host/updateHostList/" + listingID,
		Form: &transport.Form{
			Fields: listingFields(params.Title, params.Description, params.Price, params.Location, params.Type, params.Guests),
		},
	}

	if err := s.client.execute(ctx, call, &listing); err != nil {
		return nil, errors.Wrapf(err, "failed to update listing %s", listingID)
	}

	return &listing, nil
}

// UpdateThumbnail replaces the listing thumbnail
func (s *hostService) UpdateThumbnail(ctx context.Context, listingID string, thumbnail Upload) (*Listing, error) {
	if listingID == "" {
		return nil, &ValidationError{Field: "listingID", Message: "must not be empty"}
	}
	if len(thumbnail.Content) == 0 {
		return nil, &ValidationError{Field: "thumbnail", Message: "thumbnail image is required"}
	}

	var listing Listing
	call := &transport.Call{
		Method: http.MethodPut,
		Path:   "/host/updateThumbnail/" + listingID,
		Form: &transport.Form{
			Files: []transport.FormFile{
				{Field: "thumbnail", Name: thumbnail.Filename, Content: thumbnail.Content},
			},
		},
	}

	if err := s.client.execute(ctx, call, &listing); err != nil {
		return nil, errors.Wrapf(err, "failed to update thumbnail of %s", listingID)
	}

	return &listing, nil
}

// UpdateSupportImages replaces the listing's gallery images
func (s *hostService) UpdateSupportImages(ctx context.Context, listingID string, images []Upload) (*Listing, error) {
	if listingID == "" {
		return nil, &ValidationError{Field: "listingID", Message: "must not be empty"}
	}
	if len(images) == 0 {
		return nil, &ValidationError{Field: "images", Message: "at least one image is required"}
	}

	form := &transport.Form{}
	for _, img := range images {
		form.Files = append(form.Files, transport.FormFile{
			Field: "supportImg", Name: img.Filename, Content: img.Content,
		})
	}

	var listing Listing
	call := &transport.Call{
		Method: http.MethodPut,
		Path:   "/host/updateSupportImages/" + listingID,
		Form:   form,
	}

	if err := s.client.execute(ctx, call, &listing); err != nil {
		return nil, errors.Wrapf(err, "failed to update support images of %s", listingID)
	}

	return &listing, nil
}

// Delete removes a listing
func (s *hostService) Delete(ctx context.Context, listingID string) error {
	if listingID == "" {
		return &ValidationError{Field: "listingID", Message: "must not be empty"}
	}

	call := &transport.Call{
		Method: http.MethodDelete,
		Path:   "/host/deleteStay/" + listingID,
	}

	if err := s.client.execute(ctx, call, nil); err != nil {
		return errors.Wrapf(err, "failed to delete listing %s", listingID)
	}

	return nil
}

// listingFields encodes the shared text fields of upload and update.
// Location uses dotted keys, matching the server's nested-form parser.
func listingFields(title, description string, price float64, location Location, listingType ListingType, guests int) map[string]string {
	return map[string]string{
		"title":            title,
		"description":      description,
		"price":            fmt.Sprintf("%g", price),
		"location.country": location.Country,
		"location.city":    location.City,
		"location.address": location.Address,
		"type":             string(listingType),
		"guest":            strconv.Itoa(guests),
	}
}
