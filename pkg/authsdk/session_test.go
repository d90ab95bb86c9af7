package authsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeServer hands out numbered tokens and accepts each refresh token once.
type fakeServer struct {
	mu        sync.Mutex
	issued    int
	live      map[string]bool
	refreshes atomic.Int32
}

func (f *fakeServer) issue(w http.ResponseWriter, status, expiresIn int) {
	f.mu.Lock()
	f.issued++
	n := f.issued
	refresh := "refresh-" + strconv.Itoa(n)
	f.live[refresh] = true
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(AuthResponse{
		User:         User{ID: "u1", Email: "alice@example.com", Username: "alice"},
		AccessToken:  "access-" + strconv.Itoa(n),
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	})
}

func writeErr(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: code})
}

func newFakeServer(t *testing.T, expiresIn int) (*fakeServer, *SDKClient) {
	t.Helper()

	f := &fakeServer{live: map[string]bool{}}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "Passw0rd" {
			writeErr(w, http.StatusUnauthorized, ErrorCodeInvalidCredentials)
			return
		}
		f.issue(w, http.StatusOK, expiresIn)
	})

	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshes.Add(1)
		var req RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		f.mu.Lock()
		ok := f.live[req.RefreshToken]
		delete(f.live, req.RefreshToken)
		f.mu.Unlock()

		if !ok {
			writeErr(w, http.StatusUnauthorized, ErrorCodeInvalidRefreshToken)
			return
		}
		f.issue(w, http.StatusOK, expiresIn)
	})

	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer access-") {
			writeErr(w, http.StatusUnauthorized, ErrorCodeUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(User{ID: "u1", Email: "alice@example.com", Username: "alice"})
	})

	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		var req LogoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		delete(f.live, req.RefreshToken)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SuccessResponse{Success: true})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return f, NewSDKClient(srv.URL + "/")
}

func TestLoginErrorIsTyped(t *testing.T) {
	_, client := newFakeServer(t, 900)

	_, err := client.AuthenticateWithPassword(context.Background(), "alice", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.True(t, IsCode(err, ErrorCodeInvalidCredentials))
}

func TestSessionUsesTokenUntilExpiry(t *testing.T) {
	f, client := newFakeServer(t, 900)
	ctx := context.Background()

	session, err := client.AuthenticateWithPassword(ctx, "alice", "Passw0rd")
	require.NoError(t, err)
	require.Equal(t, "alice", session.User().Username)

	_, err = session.Me(ctx)
	require.NoError(t, err)
	require.Zero(t, f.refreshes.Load())
}

func TestSessionNeverSpendsARefreshTokenTwice(t *testing.T) {
	// expiresIn 0 keeps every access token inside the refresh buffer, so each
	// call refreshes, each with the replacement the previous call received.
	f, client := newFakeServer(t, 0)
	ctx := context.Background()

	session, err := client.AuthenticateWithPassword(ctx, "alice", "Passw0rd")
	require.NoError(t, err)
	first := session.RefreshToken()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = session.Me(ctx)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.NotEqual(t, first, session.RefreshToken())
	require.EqualValues(t, len(errs), f.refreshes.Load())
}

func TestLogoutClosesSession(t *testing.T) {
	_, client := newFakeServer(t, 0)
	ctx := context.Background()

	session, err := client.AuthenticateWithPassword(ctx, "alice", "Passw0rd")
	require.NoError(t, err)

	// Logout itself refreshes first because the access token is already stale.
	require.NoError(t, session.Logout(ctx))
	require.Empty(t, session.RefreshToken())

	_, err = session.Me(ctx)
	require.ErrorIs(t, err, ErrSessionClosed)
	require.ErrorIs(t, session.Logout(ctx), ErrSessionClosed)
}
