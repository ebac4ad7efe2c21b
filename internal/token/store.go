// Package token holds the access/refresh token pair shared by every
// request. The store is the single source of truth: the transport reads
// it before each dispatch and rewrites it after a refresh, the session
// writes it on login and clears it on logout.
package token

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Storage key names, fixed for compatibility with the web client's
// localStorage entries.
const (
	AccessKey  = "accessToken"
	RefreshKey = "refreshToken"
)

// Store persists the token pair.
type Store interface {
	// Access returns the current access token, empty when absent.
	Access() string

	// Refresh returns the current refresh token, empty when absent.
	Refresh() string

	// SetPair stores both tokens atomically.
	SetPair(access, refresh string)

	// SetAccess replaces only the access token, keeping the refresh
	// token. Used after a successful refresh call.
	SetAccess(access string)

	// Clear removes both tokens.
	Clear()
}

// MemoryStore is an in-memory Store. Last writer wins, which is fine
// because any freshly minted access token is interchangeable with
// another.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryStore) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryStore) SetPair(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
}

func (s *MemoryStore) SetAccess(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}

// FileStore persists the token pair as a JSON file, surviving process
// restarts the way localStorage survives page reloads. All mutations
// are written through immediately; write failures are reported to the
// logger passed at construction but never block the in-memory state.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	access  string
	refresh string
	onError func(err error)
}

type filePayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// NewFileStore creates a store backed by the given path, loading any
// previously saved pair. onError, when non-nil, receives write
// failures.
func NewFileStore(path string, onError func(err error)) (*FileStore, error) {
	s := &FileStore{path: path, onError: onError}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "failed to read token file")
	}

	var payload filePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal token file")
	}

	s.access = payload.AccessToken
	s.refresh = payload.RefreshToken
	return s, nil
}

func (s *FileStore) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *FileStore) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *FileStore) SetPair(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	s.flush()
}

func (s *FileStore) SetAccess(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.flush()
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.fail(errors.Wrap(err, "failed to remove token file"))
	}
}

// flush writes the current pair to disk. Caller must hold the lock.
func (s *FileStore) flush() {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		s.fail(errors.Wrap(err, "failed to create token directory"))
		return
	}

	data, err := json.MarshalIndent(filePayload{
		AccessToken:  s.access,
		RefreshToken: s.refresh,
	}, "", "  ")
	if err != nil {
		s.fail(errors.Wrap(err, "failed to marshal tokens"))
		return
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		s.fail(errors.Wrap(err, "failed to write token file"))
	}
}

func (s *FileStore) fail(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}
