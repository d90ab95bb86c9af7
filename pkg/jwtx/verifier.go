package jwtx

import (
	"errors"
)

// Verifier validates a token and gives you back the claims if it's legit.
// Any failure (bad shape, bad signature, expired) yields nil.
type Verifier interface {
	Verify(token string) Claims
}

var (
	ErrEmptySecret = errors.New("jwtx: empty secret")
	ErrInvalidTTL  = errors.New("jwtx: ttl must be positive")
)
