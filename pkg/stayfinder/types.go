package stayfinder

import (
	"time"
)

// Role is the account role declared at login and registration. The
// client never switches roles mid-session.
type Role string

const (
	RoleUser Role = "user"
	RoleHost Role = "host"
)

// Valid reports whether r is one of the two known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleHost:
		return true
	}
	return false
}

// ListingType is the accommodation category of a listing
type ListingType string

const (
	ListingApartment ListingType = "apartment"
	ListingHouse     ListingType = "house"
	ListingVilla     ListingType = "villa"
	ListingCabin     ListingType = "cabin"
	ListingBungalow  ListingType = "bungalow"
	ListingRoom      ListingType = "room"
)

// User represents an account record
type User struct {
	ID        string    `json:"_id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Profile   string    `json:"profile"`
	Role      Role      `json:"role"`
	WishList  []string  `json:"wishList"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Location is a listing's address
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// Listing represents a stay offered by a host
type Listing struct {
	ID           string      `json:"_id"`
	Host         string      `json:"host"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Price        float64     `json:"price"`
	Location     Location    `json:"location"`
	Type         ListingType `json:"type"`
	Thumbnail    string      `json:"thumbnail"`
	SupportImage []string    `json:"supportImage"`
	Guest        int         `json:"guest"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Booking represents a confirmed stay
type Booking struct {
	ID         string    `json:"_id"`
	User       string    `json:"user"`
	Listing    string    `json:"listing"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BookedDate is one occupied date range of a listing
type BookedDate struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// Upload is a file attached to a multipart call
type Upload struct {
	Filename string
	Content  []byte
}

// AuthResult is the payload returned by a successful login
type AuthResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginParams are the credentials for Login. Exactly one of Email or
// Phone must be set.
type LoginParams struct {
	Email    string
	Phone    string
	Password string
	Role     Role
}

// RegisterParams are the inputs for Register
type RegisterParams struct {
	Fullname string
	Email    string
	Password string
	Phone    string
	Role     Role
	Profile  Upload
}

// BookingParams describe a stay to book
type BookingParams struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// CreateListingParams are the inputs for HostService.Upload
type CreateListingParams struct {
	Title         string
	Description   string
	Price         float64
	Location      Location
	Type          ListingType
	Guests        int
	Thumbnail     Upload
	SupportImages []Upload
}

// UpdateListingParams are the editable text fields of a listing.
// Images are updated through UpdateThumbnail and UpdateSupportImages.
type UpdateListingParams struct {
	Title       string
	Description string
	Price       float64
	Location    Location
	Type        ListingType
	Guests      int
}

// UpdateDetailsParams are the editable account fields
type UpdateDetailsParams struct {
	Fullname string
	Email    string
	Phone    string
}
