package stayfinder

import (
	"context"
	"sync"
)

// SessionState is the session's position in its lifecycle
type SessionState int

const (
	// StateBootstrapping is the transient startup state, entered
	// exactly once before the stored token has been probed
	StateBootstrapping SessionState = iota

	// StateAuthenticated means a user identity is present
	StateAuthenticated

	// StateAnonymous means no user is signed in
	StateAnonymous
)

// String implements fmt.Stringer
func (s SessionState) String() string {
	switch s {
	case StateBootstrapping:
		return "bootstrapping"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Session holds the current user identity and the operations that may
// change it. It is the single owner of that state: login, register,
// logout, UpdateUser, and the one-time bootstrap probe are the only
// mutators.
type Session struct {
	client *Client

	mu           sync.RWMutex
	state        SessionState
	user         *User
	loading      bool
	bootstrapped bool
}

// newSession creates a session in the Bootstrapping state
func newSession(client *Client) *Session {
	return &Session{
		client:  client,
		state:   StateBootstrapping,
		loading: true,
	}
}

// State returns the current session state
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the current identity, nil when anonymous
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether the startup probe is still in flight. It is
// true only until Bootstrap resolves, then permanently false.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// snapshot returns state, user and loading under one lock
func (s *Session) snapshot() (SessionState, *User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.user, s.loading
}

// Bootstrap resumes a session from whatever token is already stored.
// It runs at most once; later calls are no-ops. With no stored token it
// settles on Anonymous without a network call. A probe failure or an
// empty payload clears storage and also settles on Anonymous; both are
// valid terminal outcomes, not errors.
func (s *Session) Bootstrap(ctx context.Context) {
	s.mu.Lock()
	if s.bootstrapped {
		s.mu.Unlock()
		return
	}
	s.bootstrapped = true
	s.mu.Unlock()

	// The loading flag clears exactly once, whatever the outcome.
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if s.client.tokens.Access() == "" {
		s.transition(StateAnonymous, nil)
		return
	}

	user, err := s.client.Auth.CurrentUser(ctx)
	if err != nil || user == nil {
		if err != nil && s.client.options.Logger != nil {
			s.client.options.Logger.Warn("Session bootstrap probe failed", "error", err)
		}
		s.client.tokens.Clear()
		s.transition(StateAnonymous, nil)
		return
	}

	s.transition(StateAuthenticated, user)
}

// Login authenticates and, on success, persists the token pair and
// transitions to Authenticated. On failure the error propagates and no
// state changes.
func (s *Session) Login(ctx context.Context, params *LoginParams) (*User, error) {
	result, err := s.client.Auth.Login(ctx, params)
	if err != nil {
		return nil, err
	}

	s.client.tokens.SetPair(result.AccessToken, result.RefreshToken)
	s.transition(StateAuthenticated, result.User)
	s.client.notifySuccess("Login successful!")

	return result.User, nil
}

// Register creates an account. Registration never authenticates: on
// success the caller is told to log in and the session state is
// untouched.
func (s *Session) Register(ctx context.Context, params *RegisterParams) error {
	if err := s.client.Auth.Register(ctx, params); err != nil {
		return err
	}

	s.client.notifySuccess("Registration successful! Please login.")
	return nil
}

// Logout ends the session. The server call is best-effort: its failure
// is logged, and the local state clears unconditionally so the client
// can never stay signed in against the user's intent.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.Auth.Logout(ctx); err != nil && s.client.options.Logger != nil {
		s.client.options.Logger.Warn("Server logout failed, clearing local session anyway", "error", err)
	}

	s.client.tokens.Clear()
	s.transition(StateAnonymous, nil)
	s.client.notifySuccess("Logged out successfully")
}

// UpdateUser replaces the current identity with a caller-supplied
// snapshot, typically the record returned by a profile-edit endpoint.
// No network call, no validation.
func (s *Session) UpdateUser(user *User) {
	if user == nil {
		s.transition(StateAnonymous, nil)
		return
	}
	s.transition(StateAuthenticated, user)
}

// transition moves the session to a new state
func (s *Session) transition(state SessionState, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
}
