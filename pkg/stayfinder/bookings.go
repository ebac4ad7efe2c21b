package stayfinder

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/vedant5125/stayfinder-go/internal/transport"
)

// bookingService implements the BookingService interface
type bookingService struct {
	client *Client
}

// Book books a stay at the given listing. Availability conflicts are
// the server's call; it answers with a domain error the caller can
// surface.
func (s *bookingService) Book(ctx context.Context, listingID string, params *BookingParams) error {
	if listingID == "" {
		return &ValidationError{Field: "listingID", Message: "must not be empty"}
	}
	if params == nil {
		return &ValidationError{Field: "params", Message: "must not be nil"}
	}
	if !params.CheckIn.Before(params.CheckOut) {
		return &ValidationError{Field: "checkOut", Message: "check-out must be after check-in"}
	}
	if params.Guests < 1 {
		return &ValidationError{Field: "guests", Message: "at least one guest is required"}
	}

	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/bookStay/" + listingID,
		Body: map[string]interface{}{
			"checkIn":  params.CheckIn.Format(time.RFC3339),
			"checkOut": params.CheckOut.Format(time.RFC3339),
			"guests":   params.Guests,
		},
	}

	if err := s.client.execute(ctx, call, nil); err != nil {
		return errors.Wrapf(err, "failed to book listing %s", listingID)
	}

	return nil
}

// List retrieves the current user's bookings
func (s *bookingService) List(ctx context.Context) ([]*Booking, error) {
	var bookings []*Booking
	call := &transport.Call{
		Method: http.MethodGet,
		Path:   "/users/bookings",
	}

	if err := s.client.execute(ctx, call, &bookings); err != nil {
		return nil, errors.Wrap(err, "failed to get bookings")
	}

	return bookings, nil
}

// BookedDates retrieves the occupied date ranges of a listing
func (s *bookingService) BookedDates(ctx context.Context, listingID string) ([]*BookedDate, error) {
	if listingID == "" {
		return nil, &ValidationError{Field: "listingID", Message: "must not be empty"}
	}

	var dates []*BookedDate
	call := &transport.Call{
		Method: http.MethodGet,
		Path:   "/users/getBookedDates/" + listingID,
	}

	if err := s.client.execute(ctx, call, &dates); err != nil {
		return nil, errors.Wrapf(err, "failed to get booked dates for %s", listingID)
	}

	return dates, nil
}
