package service

import "errors"

// Service errors. The message is the code returned to clients.
var (
	ErrInvalidCredentials       = errors.New("invalid_credentials")
	ErrTooManyLoginAttempts     = errors.New("too_many_login_attempts")
	ErrInvalidRefresh           = errors.New("invalid_refresh_token")
	ErrEmailAlreadyRegistered   = errors.New("email_already_registered")
	ErrUsernameAlreadyTaken     = errors.New("username_already_taken")
	ErrInvalidInviteCode        = errors.New("invalid_invite_code")
	ErrInvalidVerificationToken = errors.New("invalid_verification_token")
	ErrVerificationRateLimited  = errors.New("rate_limit")
	ErrInvalidCode              = errors.New("invalid_code")
	ErrCodeExpired              = errors.New("expired")
	ErrInvalidResetToken        = errors.New("invalid_or_expired_token")
	ErrIncorrectCurrentPassword = errors.New("incorrect_current_password")
	ErrUserNotFound             = errors.New("user_not_found")
	ErrNothingToUpdate          = errors.New("nothing_to_update")
)
