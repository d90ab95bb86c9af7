package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the Inkwell authentication service.
// It provides access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SignupSession creates an account and returns a session for it.
func (c *SDKClient) SignupSession(ctx context.Context, req SignupRequest) (*Session, error) {
	authResp, err := c.Signup(ctx, req)
	if err != nil {
		return nil, err
	}

	return newSession(c, authResp), nil
}

// AuthenticateWithPassword logs in by email or username and returns a session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, login, password string) (*Session, error) {
	authResp, err := c.Login(ctx, login, password)
	if err != nil {
		return nil, err
	}

	return newSession(c, authResp), nil
}

// AuthenticateWithRefreshToken creates an authenticated session from an existing refresh token.
// The refresh token is consumed.
func (c *SDKClient) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	authResp, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	return newSession(c, authResp), nil
}

// NewSessionFromTokens creates an authenticated session from existing tokens.
// This is useful when you already have tokens from a previous authentication
// (e.g., stored on disk by a client application).
// The session will still perform auto-refresh when the access token expires.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string, expiresIn int) *Session {
	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    expiryFrom(expiresIn),
	}
}
