package jwtx

import (
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and verifies compact HS256 tokens with a single shared secret.
// It is safe for concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

var (
	_ Signer   = (*Codec)(nil)
	_ Verifier = (*Codec)(nil)
)

// Option customises a Codec.
type Option func(*Codec)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a codec for the given secret.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	return c, nil
}

// Generate signs payload merged with iat=now and exp=now+ttl. Caller supplied
// iat/exp values are overwritten.
func (c *Codec) Generate(payload Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	now := c.now()
	claims := make(jwt.MapClaims, len(payload)+2)
	maps.Copy(claims, payload)
	claims[ClaimIssuedAt] = now.Unix()
	claims[ClaimExpiresAt] = now.Add(ttl).Unix()

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify returns the payload of a well formed, correctly signed, unexpired
// token. Every failure returns nil.
func (c *Codec) Verify(token string) Claims {
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	return Claims(claims)
}
