package stayfinder

import (
	"errors"

	internalTypes "github.com/vedant5125/stayfinder-go/internal/types"
)

// Error is the typed API error surfaced by every service call
type Error = internalTypes.Error

// Sentinel errors. Services wrap these; match with errors.Is.
var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrLoginFailed is returned when login fails
	ErrLoginFailed = internalTypes.ErrLoginFailed

	// ErrSessionExpired is returned when a token refresh fails and the
	// session is forcibly ended
	ErrSessionExpired = internalTypes.ErrSessionExpired

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrTimeout is returned on timeout
	ErrTimeout = internalTypes.ErrTimeout

	// ErrNotFound is returned when resource not found
	ErrNotFound = internalTypes.ErrNotFound

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError
)

// ValidationError reports a bad parameter caught before dispatch
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrLoginFailed) ||
		errors.Is(err, ErrSessionExpired)
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServerError) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	return false
}
