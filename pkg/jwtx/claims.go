package jwtx

import (
	"time"
)

// Default token TTL constants. These can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens. Access
	// tokens are accepted without a store lookup, so keep this short.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultResetTokenTTL is the default lifetime for password reset tokens.
	DefaultResetTokenTTL = 30 * time.Minute
)

// Registered claim names the codec manages itself.
const (
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
)

// Claims is a decoded token payload. Numbers decode as float64.
type Claims map[string]any

// String returns the claim as a string, or "" when absent or not a string.
func (c Claims) String(key string) string {
	v, ok := c[key].(string)
	if !ok {
		return ""
	}
	return v
}

// Has reports whether the claim is present at all.
func (c Claims) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// ExpiresAt returns the exp claim, or the zero time when missing.
func (c Claims) ExpiresAt() time.Time {
	v, ok := c[ClaimExpiresAt].(float64)
	if !ok {
		return time.Time{}
	}
	return time.Unix(int64(v), 0).UTC()
}
