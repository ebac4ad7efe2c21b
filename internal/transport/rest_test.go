package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedant5125/stayfinder-go/internal/token"
	"github.com/vedant5125/stayfinder-go/internal/types"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

type recordingNavigator struct {
	mu      sync.Mutex
	targets []string
}

func (n *recordingNavigator) Navigate(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

func (n *recordingNavigator) Targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    status >= 200 && status < 300,
	})
}

func TestExecute_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, 200, map[string]string{"ok": "yes"}, "")
	}))
	defer server.Close()

	store := token.NewMemoryStore()
	store.SetPair("A1", "R1")

	transport := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: store})

	var result map[string]string
	err := transport.Execute(context.Background(), &Call{Method: http.MethodGet, Path: "/listing/getAllListings"}, &result)

	require.NoError(t, err)
	assert.Equal(t, "Bearer A1", gotAuth)
	assert.Equal(t, "yes", result["ok"])
}

func TestExecute_NoToken_DispatchesUnauthenticated(t *testing.T) {
	var gotAuth string
	var hadAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadAuth = r.Header["Authorization"]
		writeEnvelope(w, 200, nil, "")
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: token.NewMemoryStore()})

	err := transport.Execute(context.Background(), &Call{Method: http.MethodGet, Path: "/listing/getAllListings"}, nil)

	require.NoError(t, err)
	assert.False(t, hadAuth)
	assert.Empty(t, gotAuth)
}

func TestExecute_RefreshAndReplayOn401(t *testing.T) {
	var (
		mu           sync.Mutex
		refreshCalls int
		authHeaders  []string
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		refreshCalls++
		mu.Unlock()

		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "R1", req["refreshToken"])

		writeEnvelope(w, 200, map[string]string{"accessToken": "A2"}, "")
	})
	mux.HandleFunc("/users/bookings", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		mu.Lock()
		authHeaders = append(authHeaders, auth)
		mu.Unlock()

		if auth != "Bearer A2" {
			writeEnvelope(w, 401, nil, "jwt expired")
			return
		}
		writeEnvelope(w, 200, []map[string]string{{"_id": "b1"}}, "")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := token.NewMemoryStore()
	store.SetPair("A1", "R1")
	notifier := &recordingNotifier{}

	transport := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: store, Notifier: notifier})

	var result []map[string]string
	err := transport.Execute(context.Background(), &Call{Method: http.MethodGet, Path: "/users/bookings"}, &result)

	// The caller never sees the intermediate 401.
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "b1", result[0]["_id"])

	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, []string{"Bearer A1", "Bearer A2"}, authHeaders)
	assert.Equal(t, "A2", store.Access())
	assert.Equal(t, "R1", store.Refresh())
	assert.Empty(t, notifier.Errors())
}

func TestExecute_RefreshFailure_ClearsTokensAndRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 401, nil, "refresh token expired")
	})
	mux.HandleFunc("/users/bookings", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 401, nil, "jwt expired")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := token.NewMemoryStore()
	store.SetPair("A1", "R1")
	navigator := &recordingNavigator{}

	transport := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: store, Navigator: navigator})

	err := transport.Execute(context.Background(), &Call{Method: http.MethodGet, Path: "/users/bookings"}, nil)

	require.Error(t, err)
	// The refresh error propagates, not the original 401.
	assert.Contains(t, err.Error(), "refresh token expired")
	assert.ErrorIs(t, err, types.ErrSessionExpired)

	assert.Empty(t, store.Access())
	assert.Empty(t, store.Refresh())
	assert.Equal(t, []string{types.RouteLogin}, navigator.Targets())
}

func TestExecute_401WithoutRefreshToken_PropagatesOriginalError(t *testing.T) {
	var refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		writeEnvelope(w, 200, map[string]string{"accessToken": "A2"}, "")
	})
	mux.HandleFunc("/users/bookings", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 401, nil, "unauthorized request")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := token.NewMemoryStore()
	store.SetAccess("A1") // access only, no refresh token
	notifier := &recordingNotifier{}

	transport := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: store, Notifier: notifier})

	err := transport.Execute(context.Background(), &Call{Method: http.MethodGet, Path: "/users/bookings"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
	assert.Zero(t, refreshCalls)
	assert.Equal(t, []string{"unauthorized request"}, notifier.Errors())
}

func TestExecute_AlreadyRetried401_NeverRefreshesTwice(t *testing.T) {
	var refreshCalls, dataCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		writeEnvelope(w, 200, map[string]string{"accessToken": "A2"}, "")
	})
	mux.HandleFunc("/users/bookings", func(w http.ResponseWriter, r *http.Request) {
		dataCalls++
		// Reject even the replayed request.
		writeEnvelope(w, 401, nil, "jwt expired")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := token.NewMemoryStore()
	store.SetPair("A1", "R1")
	notifier := &recordingNotifier{}

	transport := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: store, Notifier: notifier})

	err := transport.Execute(context.Background(), &Call{Method: http.MethodGet, Path: "/users/bookings"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
	assert.Equal(t, 1, refreshCalls, "exactly one refresh per request")
	assert.Equal(t, 2, dataCalls, "original dispatch plus one replay")
	assert.Equal(t, []string{"jwt expired"}, notifier.Errors())
}

func TestExecute_DomainError_NotifiesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 400, nil, "Stay already booked for these dates")
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	transport := NewRESTTransport(&Options{BaseURL: server.URL, Notifier: notifier})

	err := transport.Execute(context.Background(), &Call{Method: http.MethodPost, Path: "/users/bookStay/l1"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stay already booked for these dates")
	assert.Equal(t, []string{"Stay already booked for these dates"}, notifier.Errors())
}

func TestExecute_UnparsableErrorBody_NotifiesGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(502)
		_, _ = w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	transport := NewRESTTransport(&Options{BaseURL: server.URL, Notifier: notifier})

	err := transport.Execute(context.Background(), &Call{Method: http.MethodGet, Path: "/listing/getAllListings"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrServerError)
	assert.Equal(t, []string{genericErrorMessage}, notifier.Errors())
}

func TestExecute_MultipartForm(t *testing.T) {
	var (
		gotFields map[string]string
		gotFiles  map[string][]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		gotFiles = map[string][]string{}
		for k, files := range r.MultipartForm.File {
			for _, f := range files {
				gotFiles[k] = append(gotFiles[k], f.Filename)
			}
		}
		writeEnvelope(w, 200, nil, "")
	}))
	defer server.Close()

	transport := NewRESTTransport(&Options{BaseURL: server.URL})

	call := &Call{
		Method: http.MethodPost,
		Path:   "/host/uploadStay",
		Form: &Form{
			Fields: map[string]string{"title": "Sea cabin", "guest": "4"},
			Files: []FormFile{
				{Field: "thumbnail", Name: "thumb.jpg", Content: []byte{0xff, 0xd8}},
				{Field: "supportImg", Name: "a.jpg", Content: []byte{0x01}},
				{Field: "supportImg", Name: "b.jpg", Content: []byte{0x02}},
			},
		},
	}

	require.NoError(t, transport.Execute(context.Background(), call, nil))
	assert.Equal(t, "Sea cabin", gotFields["title"])
	assert.Equal(t, "4", gotFields["guest"])
	assert.Equal(t, []string{"thumb.jpg"}, gotFiles["thumbnail"])
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, gotFiles["supportImg"])
}

func TestExecute_ReplayRebuildsBody(t *testing.T) {
	var bodies []string
	mux := http.NewServeMux()
	mux.HandleFunc("/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, map[string]string{"accessToken": "A2"}, "")
	})
	mux.HandleFunc("/users/addToWishlist", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if r.Header.Get("Authorization") != "Bearer A2" {
			writeEnvelope(w, 401, nil, "jwt expired")
			return
		}
		writeEnvelope(w, 200, nil, "")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	store := token.NewMemoryStore()
	store.SetPair("A1", "R1")

	transport := NewRESTTransport(&Options{BaseURL: server.URL, Tokens: store})

	call := &Call{
		Method: http.MethodPost,
		Path:   "/users/addToWishlist",
		Body:   map[string]string{"listingId": "l1"},
	}

	require.NoError(t, transport.Execute(context.Background(), call, nil))
	require.Len(t, bodies, 2)
	assert.JSONEq(t, bodies[0], bodies[1], "replayed body must match the original")
}
