package stayfinder

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"github.com/vedant5125/stayfinder-go/internal/token"
	"github.com/vedant5125/stayfinder-go/internal/transport"
	internalTypes "github.com/vedant5125/stayfinder-go/internal/types"
)

const (
	// DefaultBaseURL is the default StayFinder API base URL
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
)

// Client is the main StayFinder API client
type Client struct {
	// Service interfaces
	Auth     AuthService
	Listings ListingService
	Bookings BookingService
	Wishlist WishlistService
	Host     HostService
	Account  AccountService

	// Session is the tab-wide auth state machine
	Session *Session

	// Internal fields
	baseURL   string
	transport Transport
	tokens    token.Store
	options   *ClientOptions
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Logger for debug logging
	Logger Logger

	// RetryConfig configures retry behavior for transient failures
	RetryConfig *internalTypes.RetryConfig

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// Notifier receives user-visible notifications; nil drops them
	Notifier Notifier

	// Navigator receives forced redirects (failed refresh, guard
	// decisions resolved by the caller); nil drops them
	Navigator Navigator

	// TokenStore overrides where the token pair lives. Defaults to an
	// in-memory store, or a file store when SessionFile is set.
	TokenStore TokenStore

	// SessionFile persists the token pair at this path
	SessionFile string

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger = internalTypes.Logger

// Notifier receives user-visible notifications
type Notifier = internalTypes.Notifier

// Navigator performs forced navigation
type Navigator = internalTypes.Navigator

// TokenStore persists the access/refresh token pair
type TokenStore = token.Store

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport handles REST communication
type Transport interface {
	Execute(ctx context.Context, call *transport.Call, result interface{}) error
}

// NewClient creates a new StayFinder client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	tokens := opts.TokenStore
	if tokens == nil {
		if opts.SessionFile != "" {
			var onError func(err error)
			if opts.Logger != nil {
				logger := opts.Logger
				onError = func(err error) {
					logger.Warn("Failed to persist tokens", "error", err)
				}
			}
			fileStore, err := token.NewFileStore(opts.SessionFile, onError)
			if err != nil {
				return nil, errors.Wrap(err, "failed to open session file")
			}
			tokens = fileStore
		} else {
			tokens = token.NewMemoryStore()
		}
	}

	// Create transport using the internal package
	trans := transport.NewRESTTransport(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
		Tokens:      tokens,
		Notifier:    opts.Notifier,
		Navigator:   opts.Navigator,
	})

	// Create client
	c := &Client{
		baseURL:   opts.BaseURL,
		transport: trans,
		tokens:    tokens,
		options:   opts,
	}

	// Initialize services and session
	c.initServices()

	return c, nil
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Auth = &authService{client: c}
	c.Listings = &listingService{client: c}
	c.Bookings = &bookingService{client: c}
	c.Wishlist = &wishlistService{client: c}
	c.Host = &hostService{client: c}
	c.Account = &accountService{client: c}
	c.Session = newSession(c)
}

// Tokens returns the shared token store
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// execute runs a call through the transport with rate limiting and
// error tracking around it
func (c *Client) execute(ctx context.Context, call *transport.Call, result interface{}) error {
	// Rate limiting
	if c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			c.captureError(ctx, call, err)
			return errors.Wrap(err, "rate limiter")
		}
	}

	err := c.transport.Execute(ctx, call, result)
	if err != nil {
		c.captureError(ctx, call, err)
	}

	return err
}

// captureError reports an error to Sentry when it is configured
func (c *Client) captureError(ctx context.Context, call *transport.Call, err error) {
	if c.options.SentryDSN == "" && c.options.SentryOptions == nil {
		return
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("api.endpoint", call.Path)
			scope.SetContext("api", map[string]interface{}{
				"method": call.Method,
				"path":   call.Path,
			})
			hub.CaptureException(err)
		})
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("api.endpoint", call.Path)
		scope.SetContext("api", map[string]interface{}{
			"method": call.Method,
			"path":   call.Path,
		})
		sentry.CaptureException(err)
	})
}

// notifySuccess emits a success notification when a notifier is set
func (c *Client) notifySuccess(msg string) {
	if c.options.Notifier != nil {
		c.options.Notifier.Success(msg)
	}
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}
