package types

import (
	"context"
	"net/http"
	"time"
)

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RetryConfig configures retry behavior for transient failures. It is
// never applied to 401 responses; those belong to the refresh path.
type RetryConfig struct {
	MaxRetries int           `json:"maxRetries"`
	RetryWait  time.Duration `json:"retryWait"`
	MaxWait    time.Duration `json:"maxWait"`
}

// Hooks provides lifecycle hooks for requests
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)
}

// Notifier receives user-visible notifications. In the browser app this
// was the toast layer; a CLI prints them, a daemon may just log them.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator performs forced navigation, such as the redirect to the
// login entry point after a failed token refresh.
type Navigator interface {
	Navigate(target string)
}

// Well-known navigation targets
const (
	RouteLogin = "/login"
	RouteHome  = "/"
)
