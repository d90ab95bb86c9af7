package jwtx

import "time"

// Signer is our interface for anything that can mint tokens.
type Signer interface {
	Generate(payload Claims, ttl time.Duration) (string, error)
}
