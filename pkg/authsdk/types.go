package authsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the machine readable error code (e.g., "invalid_credentials")
	Error string `json:"error" example:"invalid_credentials"`
}

// ============================================================================
// User Types
// ============================================================================

// User is the public view of an account.
type User struct {
	ID       string `json:"id" example:"01JC4Z2T6Q9W7YV3N8K5M1R0PX"`
	Email    string `json:"email" example:"alice@example.com"`
	Username string `json:"username" example:"alice"`

	// Phone is omitted when unset
	Phone string `json:"phone,omitempty" example:"+61 400 000 000"`

	// Data is free-form client metadata (preferences, settings)
	Data map[string]any `json:"data"`

	CreatedAt time.Time `json:"created_at"`
}

// ============================================================================
// Session Types
// ============================================================================

// AuthResponse is returned by signup, login and refresh.
type AuthResponse struct {
	User User `json:"user"`

	// AccessToken is the signed bearer token for protected endpoints
	AccessToken string `json:"accessToken"`

	// RefreshToken is the opaque single-use token for POST /auth/refresh
	RefreshToken string `json:"refreshToken"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expiresIn" example:"900"`
}

// SignupRequest creates an account.
type SignupRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"Passw0rd"`
	Phone    string `json:"phone,omitempty"`

	// VerificationToken comes from POST /auth/verify-email-code
	VerificationToken string `json:"verification_token,omitempty"`

	// InviteCode is required when the server has invite codes configured
	InviteCode string `json:"invite_code,omitempty"`
}

// LoginRequest authenticates by email or username.
type LoginRequest struct {
	Login    string `json:"login" example:"alice"`
	Password string `json:"password" example:"Passw0rd"`
}

// RefreshRequest exchanges a refresh token for a new session.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes one refresh token, or every token of the caller
// when RefreshToken is empty.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SuccessResponse acknowledges an operation with no other result.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// ============================================================================
// Account Types
// ============================================================================

// UpdateUserRequest is a partial profile update. Data is shallow-merged into
// the stored metadata and a null value removes a key.
type UpdateUserRequest struct {
	Data  map[string]any `json:"data,omitempty"`
	Email *string        `json:"email,omitempty"`
	Phone *string        `json:"phone,omitempty"`
}

// ChangePasswordRequest replaces the password of the signed-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ============================================================================
// Password Reset Types
// ============================================================================

// PasswordResetRequest asks for a reset link to be mailed.
type PasswordResetRequest struct {
	// Login is an email or username
	Login string `json:"login" example:"alice@example.com"`

	// Lang picks the mail template (en, es, fr, de)
	Lang string `json:"lang,omitempty" example:"en"`
}

// PasswordResetRequestResponse is identical for known and unknown accounts
// apart from MaskedEmail.
type PasswordResetRequestResponse struct {
	Sent        bool   `json:"sent" example:"true"`
	MaskedEmail string `json:"maskedEmail,omitempty" example:"al***@example.com"`
}

// ResetPasswordRequest applies a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ============================================================================
// Email Verification Types
// ============================================================================

// SendVerificationCodeRequest asks for a code to be mailed to Email.
type SendVerificationCodeRequest struct {
	Email string `json:"email" example:"alice@example.com"`
	Lang  string `json:"lang,omitempty" example:"en"`
}

// SendVerificationCodeResponse confirms the code went out.
type SendVerificationCodeResponse struct {
	Sent bool `json:"sent" example:"true"`
}

// VerifyEmailCodeRequest exchanges a mailed code for a verification token.
type VerifyEmailCodeRequest struct {
	Email string `json:"email" example:"alice@example.com"`
	Code  string `json:"code" example:"042137"`
}

// VerifyEmailCodeResponse carries the token to pass to signup.
type VerifyEmailCodeResponse struct {
	Verified          bool   `json:"verified" example:"true"`
	VerificationToken string `json:"verification_token"`
}

// ValidateEmailTokenRequest checks a verification token without using it.
type ValidateEmailTokenRequest struct {
	Email             string `json:"email" example:"alice@example.com"`
	VerificationToken string `json:"verification_token"`
}

// ValidateEmailTokenResponse reports whether signup would accept the token.
type ValidateEmailTokenResponse struct {
	Valid bool `json:"valid"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Signer indicates whether a token secret is configured
	Signer string `json:"signer"`

	// Throttle indicates the login throttle backend status when it is not
	// the database (redis)
	Throttle string `json:"throttle,omitempty"`
}
