package stayfinder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vedant5125/stayfinder-go/internal/transport"
)

// authService implements the AuthService interface
type authService struct {
	client *Client
}

// Login exchanges credentials for a user record and token pair
func (a *authService) Login(ctx context.Context, params *LoginParams) (*AuthResult, error) {
	if err := validateLoginParams(params); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"password": params.Password,
		"role":     params.Role,
	}
	if params.Phone != "" {
		body["phone"] = params.Phone
	} else {
		body["email"] = params.Email
	}

	var result AuthResult
	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/login",
		Body:   body,
	}

	if err := a.client.execute(ctx, call, &result); err != nil {
		return nil, errors.Wrap(err, "login failed")
	}

	if result.User == nil || result.AccessToken == "" || result.RefreshToken == "" {
		return nil, errors.Wrap(ErrLoginFailed, "incomplete login response")
	}

	return &result, nil
}

// Register submits a new account as a multipart payload
func (a *authService) Register(ctx context.Context, params *RegisterParams) error {
	if params == nil {
		return &ValidationError{Field: "params", Message: "must not be nil"}
	}
	if !params.Role.Valid() {
		return &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", params.Role)}
	}
	if len(params.Profile.Content) == 0 {
		return &ValidationError{Field: "profile", Message: "profile image is required"}
	}

	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/register",
		Form: &transport.Form{
			Fields: map[string]string{
				"fullname": params.Fullname,
				"email":    params.Email,
				"password": params.Password,
				"phone":    params.Phone,
				"role":     string(params.Role),
			},
			Files: []transport.FormFile{
				{Field: "profile", Name: params.Profile.Filename, Content: params.Profile.Content},
			},
		},
	}

	if err := a.client.execute(ctx, call, nil); err != nil {
		return errors.Wrap(err, "registration failed")
	}

	return nil
}

// Logout invalidates the session server-side
func (a *authService) Logout(ctx context.Context) error {
	call := &transport.Call{
		Method: http.MethodPost,
		Path:   "/users/logout",
	}

	if err := a.client.execute(ctx, call, nil); err != nil {
		return errors.Wrap(err, "logout failed")
	}

	return nil
}

// CurrentUser probes who the stored access token belongs to. A success
// response with an empty payload returns (nil, nil); the session treats
// that as a dead token.
func (a *authService) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	call := &transport.Call{
		Method: http.MethodGet,
		Path:   "/users/getCurrentUser",
	}

	if err := a.client.execute(ctx, call, &user); err != nil {
		return nil, errors.Wrap(err, "failed to fetch current user")
	}

	if user.ID == "" {
		return nil, nil
	}

	return &user, nil
}

// validateLoginParams enforces the exactly-one-of-email-or-phone rule
func validateLoginParams(params *LoginParams) error {
	if params == nil {
		return &ValidationError{Field: "params", Message: "must not be nil"}
	}
	if params.Email == "" && params.Phone == "" {
		return &ValidationError{Field: "email", Message: "one of email or phone is required"}
	}
	if params.Email != "" && params.Phone != "" {
		return &ValidationError{Field: "email", Message: "email and phone are mutually exclusive"}
	}
	if params.Password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	if !params.Role.Valid() {
		return &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", params.Role)}
	}
	return nil
}
