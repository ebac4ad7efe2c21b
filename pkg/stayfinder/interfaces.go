package stayfinder

import (
	"context"
)

// AuthService handles the raw authentication endpoints. The Session
// state machine is the usual consumer; it is exposed for callers that
// manage state themselves.
type AuthService interface {
	// Login exchanges credentials for a user record and token pair.
	// It does not persist the tokens; Session.Login does.
	Login(ctx context.Context, params *LoginParams) (*AuthResult, error)

	// Register submits a new account as a multipart payload.
	// Registration never authenticates; the user logs in afterwards.
	Register(ctx context.Context, params *RegisterParams) error

	// Logout invalidates the session server-side
	Logout(ctx context.Context) error

	// CurrentUser probes who the stored access token belongs to
	CurrentUser(ctx context.Context) (*User, error)
}

// ListingService handles public listing reads
type ListingService interface {
	// List retrieves all listings
	List(ctx context.Context) ([]*Listing, error)

	// Get retrieves a single listing by ID
	Get(ctx context.Context, listingID string) (*Listing, error)
}

// BookingService handles stays booked by the current user
type BookingService interface {
	// Book books a stay at the given listing
	Book(ctx context.Context, listingID string, params *BookingParams) error

	// List retrieves the current user's bookings
	List(ctx context.Context) ([]*Booking, error)

	// BookedDates retrieves the occupied date ranges of a listing
	BookedDates(ctx context.Context, listingID string) ([]*BookedDate, error)
}

// WishlistService handles the current user's wishlist
type WishlistService interface {
	// Add puts a listing on the wishlist
	Add(ctx context.Context, listingID string) error

	// Remove takes a listing off the wishlist
	Remove(ctx context.Context, listingID string) error

	// List retrieves the wishlisted listings
	List(ctx context.Context) ([]*Listing, error)
}

// HostService handles listings owned by the current host
type HostService interface {
	// Listings retrieves the host's own listings
	Listings(ctx context.Context) ([]*Listing, error)

	// Upload creates a new listing with its images
	Upload(ctx context.Context, params *CreateListingParams) (*Listing, error)

	// Update rewrites a listing's text fields
	Update(ctx context.Context, listingID string, params *UpdateListingParams) (*Listing, error)

	// UpdateThumbnail replaces the listing thumbnail
	UpdateThumbnail(ctx context.Context, listingID string, thumbnail Upload) (*Listing, error)

	// UpdateSupportImages replaces the listing's gallery images
	UpdateSupportImages(ctx context.Context, listingID string, images []Upload) (*Listing, error)

	// Delete removes a listing
	Delete(ctx context.Context, listingID string) error
}

// AccountService handles profile edits for the current user
type AccountService interface {
	// UpdateDetails rewrites the account's contact fields and returns
	// the updated record
	UpdateDetails(ctx context.Context, params *UpdateDetailsParams) (*User, error)

	// UpdatePassword changes the password
	UpdatePassword(ctx context.Context, oldPassword, newPassword string) error

	// UpdateProfileImage replaces the avatar and returns the updated
	// record
	UpdateProfileImage(ctx context.Context, image Upload) (*User, error)
}
