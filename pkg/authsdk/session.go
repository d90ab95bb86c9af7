package authsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// refreshBuffer is how long before expiry the access token is renewed.
const refreshBuffer = 30 * time.Second

// ErrSessionClosed is returned by a Session after Logout.
var ErrSessionClosed = errors.New("authsdk: session has no refresh token")

// Session represents an authenticated session with automatic token refresh.
// All Session methods automatically handle token expiration and refresh when needed.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	user         User
}

// newSession creates a new authenticated session from an auth response.
func newSession(client *SDKClient, authResp *AuthResponse) *Session {
	return &Session{
		client:       client,
		accessToken:  authResp.AccessToken,
		refreshToken: authResp.RefreshToken,
		expiresAt:    expiryFrom(authResp.ExpiresIn),
		user:         authResp.User,
	}
}

// expiryFrom turns an expiresIn into a deadline with the refresh buffer applied.
func expiryFrom(expiresIn int) time.Time {
	return time.Now().Add(time.Duration(expiresIn)*time.Second - refreshBuffer)
}

// getValidToken returns a valid access token, automatically refreshing if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	// Token expired, need to refresh
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have refreshed)
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", ErrSessionClosed
	}

	// Refresh tokens are single use, so only one goroutine may spend it.
	authResp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = authResp.AccessToken
	s.refreshToken = authResp.RefreshToken
	s.expiresAt = expiryFrom(authResp.ExpiresIn)
	s.user = authResp.User

	return s.accessToken, nil
}

// AccessToken returns the current access token without checking expiration.
// For most use cases, prefer using the Session methods which handle refresh automatically.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
// For most use cases, prefer using the Session methods which handle refresh automatically.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns the user as of the last signup, login, refresh or Me call.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
