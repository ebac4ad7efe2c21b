package stayfinder

import (
	"golang.org/x/time/rate"
)

// NewRateLimiter returns a RateLimiter allowing rps requests per second
// with the given burst. Useful to keep bulk operations (host image
// uploads, wishlist sweeps) under the API's limits.
func NewRateLimiter(rps float64, burst int) RateLimiter {
	return rate.NewLimiter(rate.Limit(rps), burst)
}
