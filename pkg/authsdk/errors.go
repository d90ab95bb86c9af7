package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned by the service.
const (
	ErrorCodeInvalidRequest           = "invalid_request"
	ErrorCodeMissingFields            = "missing_fields"
	ErrorCodeServerError              = "server_error"
	ErrorCodeUnauthorized             = "unauthorized"
	ErrorCodeRateLimitExceeded        = "rate_limit_exceeded"
	ErrorCodeInvalidCredentials       = "invalid_credentials"
	ErrorCodeTooManyLoginAttempts     = "too_many_login_attempts"
	ErrorCodeInvalidRefreshToken      = "invalid_refresh_token"
	ErrorCodeInvalidUsernameFormat    = "invalid_username_format"
	ErrorCodeInvalidEmail             = "invalid_email"
	ErrorCodePasswordTooShort         = "password_too_short"
	ErrorCodePasswordTooLong          = "password_too_long"
	ErrorCodePasswordMissingLetter    = "password_missing_letter"
	ErrorCodePasswordMissingNumber    = "password_missing_number"
	ErrorCodeEmailAlreadyRegistered   = "email_already_registered"
	ErrorCodeUsernameAlreadyTaken     = "username_already_taken"
	ErrorCodeInvalidInviteCode        = "invalid_invite_code"
	ErrorCodeInvalidVerificationToken = "invalid_verification_token"
	ErrorCodeVerificationRateLimit    = "rate_limit"
	ErrorCodeInvalidCode              = "invalid_code"
	ErrorCodeExpired                  = "expired"
	ErrorCodeInvalidResetToken        = "invalid_or_expired_token"
	ErrorCodeIncorrectCurrentPassword = "incorrect_current_password"
	ErrorCodeUserNotFound             = "user_not_found"
	ErrorCodeNothingToUpdate          = "nothing_to_update"
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Code is the error code from the body (e.g., "invalid_credentials")
	Code string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("authsdk: %d %s", e.StatusCode, e.Code)
}

// IsCode reports whether err is an *APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns an error response into an *APIError. Bodies that
// are not the service's error shape fall back to a server_error code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Code: errResp.Error}
	}

	return &APIError{StatusCode: resp.StatusCode, Code: ErrorCodeServerError}
}
