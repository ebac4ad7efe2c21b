// Package transport implements the authenticated REST transport. It
// wraps every outgoing call with the stored bearer token, unwraps the
// API's response envelope, and transparently recovers from an expired
// access token with a single refresh-and-replay per call.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/vedant5125/stayfinder-go/internal/token"
	"github.com/vedant5125/stayfinder-go/internal/types"
)

const (
	refreshEndpoint = "/users/refresh-token"

	authHeaderKey = "Authorization"
	contentType   = "application/json"

	// genericErrorMessage is shown when the server supplies no message
	genericErrorMessage = "Something went wrong"
)

// Call describes a single REST call. The body is declarative (JSON
// value or multipart form) so a replay after token refresh can rebuild
// it from scratch.
type Call struct {
	Method string
	Path   string

	// Body is JSON-encoded when non-nil. Mutually exclusive with Form.
	Body interface{}

	// Form is sent as multipart/form-data when non-nil.
	Form *Form

	// retried is the one-time retry slot: once a call has been replayed
	// after a refresh, a further 401 is terminal.
	retried bool
}

// Form is a multipart payload
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

// FormFile is one file part of a multipart payload. Repeated Field
// names are allowed (e.g. several support images).
type FormFile struct {
	Field   string
	Name    string
	Content []byte
}

// envelope is the fixed response wrapper used by every endpoint
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

// Options for the REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks
	Tokens      token.Store
	Notifier    types.Notifier
	Navigator   types.Navigator
}

// RESTTransport handles REST communication with the StayFinder API
type RESTTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	headers     map[string]string
	tokens      token.Store
	logger      types.Logger
	hooks       *types.Hooks
	notifier    types.Notifier
	navigator   types.Navigator
}

// NewRESTTransport creates a new REST transport
func NewRESTTransport(opts *Options) *RESTTransport {
	if opts == nil {
		opts = &Options{}
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	if opts.Tokens == nil {
		opts.Tokens = token.NewMemoryStore()
	}

	// Create retry client if configured
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		} else {
			retryClient.Logger = nil
		}
	}

	headers := map[string]string{
		"Accept":          contentType,
		"Client-Platform": "sdk",
		"User-Agent":      "stayfinder-go/1.0.0",
		"device-uuid":     uuid.New().String(),
	}

	// Merge custom headers
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &RESTTransport{
		baseURL:     opts.BaseURL,
		httpClient:  opts.HTTPClient,
		retryClient: retryClient,
		headers:     headers,
		tokens:      opts.Tokens,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
		notifier:    opts.Notifier,
		navigator:   opts.Navigator,
	}
}

// Tokens exposes the shared token store
func (t *RESTTransport) Tokens() token.Store {
	return t.tokens
}

// Execute performs the call, decodes the envelope, and unmarshals its
// data into result. A first 401 triggers one refresh-and-replay; the
// caller never sees the intermediate 401 when the recovery succeeds.
func (t *RESTTransport) Execute(ctx context.Context, call *Call, result interface{}) error {
	resp, body, err := t.dispatch(ctx, call)
	if err != nil {
		t.notifyError(genericErrorMessage)
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !call.retried {
		call.retried = true
		return t.refreshAndReplay(ctx, call, result, resp.StatusCode, body)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		env := parseEnvelope(body)
		t.notifyError(messageOrGeneric(env))
		return t.handleHTTPError(resp.StatusCode, env)
	}

	env := parseEnvelope(body)
	if result != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return errors.Wrap(err, "failed to unmarshal result")
		}
	}

	return nil
}

// refreshAndReplay runs the single recovery attempt for a first 401.
func (t *RESTTransport) refreshAndReplay(ctx context.Context, call *Call, result interface{}, originalStatus int, originalBody []byte) error {
	refresh := t.tokens.Refresh()
	if refresh == "" {
		// No recovery possible; surface the original error.
		env := parseEnvelope(originalBody)
		t.notifyError(messageOrGeneric(env))
		return t.handleHTTPError(originalStatus, env)
	}

	if t.logger != nil {
		t.logger.Debug("access token rejected, attempting refresh", "path", call.Path)
	}

	access, err := t.refreshAccessToken(ctx, refresh)
	if err != nil {
		t.tokens.Clear()
		if t.navigator != nil {
			t.navigator.Navigate(types.RouteLogin)
		}
		return errors.Wrap(err, "token refresh failed")
	}

	t.tokens.SetAccess(access)

	// Replay once. call.retried is already set, so a second 401 falls
	// through to the terminal path.
	return t.Execute(ctx, call, result)
}

// refreshAccessToken exchanges the refresh token for a new access
// token. This is a raw call: it bypasses Execute so a 401 here can
// never trigger another refresh.
func (t *RESTTransport) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	reqBody, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal refresh request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+refreshEndpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", errors.Wrap(err, "failed to create refresh request")
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.doRequest(req)
	if err != nil {
		return "", errors.Wrap(err, "refresh request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read refresh response")
	}

	if resp.StatusCode != http.StatusOK {
		env := parseEnvelope(body)
		return "", &types.Error{
			Code:       "REFRESH_FAILED",
			Message:    messageOrGeneric(env),
			StatusCode: resp.StatusCode,
			Err:        types.ErrSessionExpired,
		}
	}

	env := parseEnvelope(body)
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", errors.Wrap(err, "failed to parse refresh response")
	}
	if data.AccessToken == "" {
		return "", errors.New("no access token in refresh response")
	}

	return data.AccessToken, nil
}

// dispatch builds and executes the HTTP request for a call
func (t *RESTTransport) dispatch(ctx context.Context, call *Call) (*http.Response, []byte, error) {
	var (
		reqBody     io.Reader
		reqBodyType string
	)

	switch {
	case call.Form != nil:
		buf, boundary, err := encodeForm(call.Form)
		if err != nil {
			return nil, nil, err
		}
		reqBody = buf
		reqBodyType = "multipart/form-data; boundary=" + boundary
	case call.Body != nil:
		data, err := json.Marshal(call.Body)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to marshal request")
		}
		reqBody = bytes.NewReader(data)
		reqBodyType = contentType
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, t.baseURL+call.Path, reqBody)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create request")
	}

	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	if reqBodyType != "" {
		req.Header.Set("Content-Type", reqBodyType)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	// Attach the bearer credential when a token is stored; protected
	// endpoints reject the request themselves when it is absent.
	if access := t.tokens.Access(); access != "" {
		req.Header.Set(authHeaderKey, fmt.Sprintf("Bearer %s", access))
		if t.logger != nil && token.IsExpired(access, time.Now()) {
			t.logger.Debug("attaching expired access token", "path", call.Path)
		}
	}

	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, req)
	}

	if t.logger != nil {
		t.logger.Debug("REST request", "method", call.Method, "path", call.Path)
	}

	start := time.Now()
	resp, err := t.doRequest(req)
	duration := time.Since(start)

	if err != nil {
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return nil, nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read response")
	}

	if t.logger != nil {
		t.logger.Debug("REST response", "status", resp.StatusCode, "duration", duration, "size", len(body))
	}

	return resp, body, nil
}

// doRequest executes the HTTP request with retry if configured
func (t *RESTTransport) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

// handleHTTPError maps status codes to typed errors
func (t *RESTTransport) handleHTTPError(statusCode int, env *envelope) error {
	msg := env.Message

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &types.Error{
			Code:       "UNAUTHORIZED",
			Message:    msg,
			StatusCode: statusCode,
			Err:        types.ErrNotAuthenticated,
		}
	case http.StatusNotFound:
		return &types.Error{
			Code:       "NOT_FOUND",
			Message:    msg,
			StatusCode: statusCode,
			Err:        types.ErrNotFound,
		}
	case http.StatusTooManyRequests:
		return &types.Error{
			Code:       "RATE_LIMITED",
			Message:    msg,
			StatusCode: statusCode,
			Err:        types.ErrRateLimited,
		}
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return &types.Error{
			Code:       "TIMEOUT",
			Message:    msg,
			StatusCode: statusCode,
			Err:        types.ErrTimeout,
		}
	default:
		if statusCode >= 500 {
			base := fmt.Sprintf("server error: %d", statusCode)
			if msg != "" {
				base = fmt.Sprintf("%s: %s", base, msg)
			}
			return &types.Error{
				Code:       "SERVER_ERROR",
				Message:    base,
				StatusCode: statusCode,
				Err:        types.ErrServerError,
			}
		}
		if msg == "" {
			msg = fmt.Sprintf("HTTP error: %d", statusCode)
		}
		return &types.Error{
			Code:       "REQUEST_FAILED",
			Message:    msg,
			StatusCode: statusCode,
		}
	}
}

func (t *RESTTransport) notifyError(msg string) {
	if t.notifier != nil {
		t.notifier.Error(msg)
	}
}

// parseEnvelope decodes the response wrapper, tolerating bodies that
// are not valid envelopes (proxies, HTML error pages).
func parseEnvelope(body []byte) *envelope {
	env := &envelope{}
	_ = json.Unmarshal(body, env)
	return env
}

func messageOrGeneric(env *envelope) string {
	if env.Message != "" {
		return env.Message
	}
	return genericErrorMessage
}

// encodeForm builds the multipart body for a form call
func encodeForm(form *Form) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for k, v := range form.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", errors.Wrapf(err, "failed to write field %s", k)
		}
	}

	for _, f := range form.Files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", errors.Wrapf(err, "failed to create file part %s", f.Field)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", errors.Wrapf(err, "failed to write file part %s", f.Field)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to finalize form")
	}

	return buf, w.Boundary(), nil
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
