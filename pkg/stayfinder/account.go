package stayfinder

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vedant5125/stayfinder-go/internal/transport"
)

// accountService implements the AccountService interface
type accountService struct {
	client *Client
}

// UpdateDetails rewrites the account's contact fields and returns the
// updated record. Callers typically pass the result straight to
// Session.UpdateUser.
func (s *accountService) UpdateDetails(ctx context.Context, params *UpdateDetailsParams) (*User, error) {
	if params == nil {
		return nil, &ValidationError{Field: "params", Message: "must not be nil"}
	}

	var user User
	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/updateAccountDetails",
		Body: map[string]string{
			"fullname": params.Fullname,
			"email":    params.Email,
			"phone":    params.Phone,
		},
	}

	if err := s.client.execute(ctx, call, &user); err != nil {
		return nil, errors.Wrap(err, "failed to update account details")
	}

	return &user, nil
}

// UpdatePassword changes the password
func (s *accountService) UpdatePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" {
		return &ValidationError{Field: "oldPassword", Message: "must not be empty"}
	}
	if newPassword == "" {
		return &ValidationError{Field: "newPassword", Message: "must not be empty"}
	}

	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/updatePassword",
		Body: map[string]string{
			"oldPassword": oldPassword,
			"newPassword": newPassword,
		},
	}

	if err := s.client.execute(ctx, call, nil); err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	return nil
}

// UpdateProfileImage replaces the avatar and returns the updated record
func (s *accountService) UpdateProfileImage(ctx context.Context, image Upload) (*User, error) {
	if len(image.Content) == 0 {
		return nil, &ValidationError{Field: "image", Message: "profile image is required"}
	}

	var user User
	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/updateprofileImage",
		Form: &transport.Form{
			Files: []transport.FormFile{
				{Field: "profile", Name: image.Filename, Content: image.Content},
			},
		},
	}

	if err := s.client.execute(ctx, call, &user); err != nil {
		return nil, errors.Wrap(err, "failed to update profile image")
	}

	return &user, nil
}
