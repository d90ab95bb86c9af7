package authsdk

import (
	"context"
	"net/http"
)

// ============================================================================
// Session Endpoints
// ============================================================================

// Signup calls POST /auth/signup.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.postJSON(ctx, "/auth/signup", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login calls POST /auth/login.
func (c *SDKClient) Login(ctx context.Context, login, password string) (*AuthResponse, error) {
	var out AuthResponse
	req := LoginRequest{Login: login, Password: password}
	if err := c.postJSON(ctx, "/auth/login", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh calls POST /auth/refresh. The refresh token is single use: the
// response carries its replacement.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	var out AuthResponse
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.postJSON(ctx, "/auth/refresh", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Password Reset
// ============================================================================

// RequestPasswordReset calls POST /auth/reset-password-request. The answer
// does not reveal whether the account exists, except through MaskedEmail.
func (c *SDKClient) RequestPasswordReset(ctx context.Context, login, lang string) (*PasswordResetRequestResponse, error) {
	var out PasswordResetRequestResponse
	req := PasswordResetRequest{Login: login, Lang: lang}
	if err := c.postJSON(ctx, "/auth/reset-password-request", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword calls POST /auth/reset-password. Every session of the user
// is revoked on success.
func (c *SDKClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	req := ResetPasswordRequest{Token: token, NewPassword: newPassword}
	return c.postJSON(ctx, "/auth/reset-password", req, nil, http.StatusOK)
}

// ============================================================================
// Email Verification
// ============================================================================

// SendVerificationCode calls POST /auth/send-verification-code.
func (c *SDKClient) SendVerificationCode(ctx context.Context, email, lang string) error {
	req := SendVerificationCodeRequest{Email: email, Lang: lang}
	return c.postJSON(ctx, "/auth/send-verification-code", req, nil, http.StatusOK)
}

// VerifyEmailCode calls POST /auth/verify-email-code and returns the
// verification token to pass to Signup.
func (c *SDKClient) VerifyEmailCode(ctx context.Context, email, code string) (string, error) {
	var out VerifyEmailCodeResponse
	req := VerifyEmailCodeRequest{Email: email, Code: code}
	if err := c.postJSON(ctx, "/auth/verify-email-code", req, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.VerificationToken, nil
}

// ValidateEmailToken calls POST /auth/validate-email-token.
func (c *SDKClient) ValidateEmailToken(ctx context.Context, email, token string) (bool, error) {
	var out ValidateEmailTokenResponse
	req := ValidateEmailTokenRequest{Email: email, VerificationToken: token}
	if err := c.postJSON(ctx, "/auth/validate-email-token", req, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Valid, nil
}
