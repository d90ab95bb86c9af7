package domain

import "time"

// EmailVerification is one proof-of-ownership code sent to an email address.
type EmailVerification struct {
	ID                    string
	Email                 string // lower-cased
	Code                  string // 6 digits, leading zeros kept
	IPAddress             string
	Verified              bool
	VerificationTokenHash string // empty until verified
	ExpiresAt             time.Time
	CreatedAt             time.Time
	FailedAttempts        int // wrong guesses against the email while pending
}

// Expired reports whether the code can no longer be verified at now.
func (v EmailVerification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
