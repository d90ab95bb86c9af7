package domain

import "time"

// SessionTokens is what signup, login and refresh return: a short-lived
// signed access token and an opaque single-use refresh token.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// RefreshToken models the stored refresh token record in the DB. The raw
// value is never stored, only its fingerprint.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Claim names used in signed tokens.
const (
	ClaimSubject             = "sub"
	ClaimEmail               = "email"
	ClaimPurpose             = "purpose"
	ClaimPasswordFingerprint = "phf"
)

// PurposeReset tags password reset tokens.
const PurposeReset = "reset"
