package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ExpiresAt extracts the expiry claim from an access token without
// verifying its signature. Verification belongs to the server; the
// client only uses the claim for diagnostics (CLI status output, debug
// logging). A token without an exp claim returns the zero time.
func ExpiresAt(accessToken string) (time.Time, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, errors.Wrap(err, "failed to parse access token")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, errors.Wrap(err, "failed to read exp claim")
	}
	if exp == nil {
		return time.Time{}, nil
	}

	return exp.Time, nil
}

// IsExpired reports whether the access token's exp claim has passed.
// Tokens that cannot be parsed or carry no exp claim report false; the
// server remains the authority and will answer 401 if it disagrees.
func IsExpired(accessToken string, now time.Time) bool {
	exp, err := ExpiresAt(accessToken)
	if err != nil || exp.IsZero() {
		return false
	}
	return now.After(exp)
}
