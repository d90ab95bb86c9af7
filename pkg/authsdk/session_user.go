package authsdk

import (
	"context"
	"net/http"
)

// Account operations for the signed-in user.

// Me calls GET /auth/me.
func (s *Session) Me(ctx context.Context) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	return &user, nil
}

// UpdateUser calls PUT /auth/user.
func (s *Session) UpdateUser(ctx context.Context, req UpdateUserRequest) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/auth/user", req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	return &user, nil
}

// ChangePassword calls POST /auth/change-password. Other sessions stay valid.
func (s *Session) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/auth/change-password", ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// Logout revokes this session's refresh token. The session cannot be used
// afterwards once its access token expires.
func (s *Session) Logout(ctx context.Context) error {
	// Refresh first so the token revoked is the one the session holds.
	if _, err := s.getValidToken(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()

	if refreshToken == "" {
		return ErrSessionClosed
	}

	if err := s.logout(ctx, LogoutRequest{RefreshToken: refreshToken}); err != nil {
		return err
	}

	s.mu.Lock()
	s.refreshToken = ""
	s.mu.Unlock()
	return nil
}

// LogoutEverywhere revokes every refresh token of the user, this session's included.
func (s *Session) LogoutEverywhere(ctx context.Context) error {
	if err := s.logout(ctx, LogoutRequest{}); err != nil {
		return err
	}

	s.mu.Lock()
	s.refreshToken = ""
	s.mu.Unlock()
	return nil
}

func (s *Session) logout(ctx context.Context, req LogoutRequest) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/auth/logout", req)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// DeleteAccount calls DELETE /auth/account.
func (s *Session) DeleteAccount(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/auth/account", nil)
	if err != nil {
		return err
	}
	if err := decodeJSON(resp, nil, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.refreshToken = ""
	s.mu.Unlock()
	return nil
}
