package jwtx_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newCodec(t *testing.T, secret string, clock *fakeClock) *jwtx.Codec {
	t.Helper()
	c, err := jwtx.NewCodec([]byte(secret), jwtx.WithClock(clock.Now))
	require.NoError(t, err)
	return c
}

func TestNewCodecRejectsEmptySecret(t *testing.T) {
	_, err := jwtx.NewCodec(nil)
	require.ErrorIs(t, err, jwtx.ErrEmptySecret)
}

func TestGenerateTokenShape(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c := newCodec(t, "0123456789abcdef0123456789abcdef", clock)

	token, err := c.Generate(jwtx.Claims{"sub": "user-1", "email": "a@x.com"}, 15*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	require.JSONEq(t, `{"alg":"HS256","typ":"JWT"}`, string(header))

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Equal(t, "user-1", payload["sub"])
	require.Equal(t, float64(1_700_000_000), payload["iat"])
	require.Equal(t, float64(1_700_000_900), payload["exp"])

	_, err = c.Generate(jwtx.Claims{"sub": "x"}, 0)
	require.ErrorIs(t, err, jwtx.ErrInvalidTTL)
}

func TestVerifyRoundTripUntilExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newCodec(t, "0123456789abcdef0123456789abcdef", clock)

	token, err := c.Generate(jwtx.Claims{"sub": "user-1", "purpose": "reset"}, time.Minute)
	require.NoError(t, err)

	claims := c.Verify(token)
	require.NotNil(t, claims)
	require.Equal(t, "user-1", claims.String("sub"))
	require.Equal(t, "reset", claims.String("purpose"))
	require.True(t, claims.Has("exp"))

	clock.Advance(59 * time.Second)
	require.NotNil(t, c.Verify(token))

	clock.Advance(time.Second)
	require.Nil(t, c.Verify(token))
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	a := newCodec(t, "secret-a-secret-a-secret-a-secret-a", clock)
	b := newCodec(t, "secret-b-secret-b-secret-b-secret-b", clock)

	token, err := a.Generate(jwtx.Claims{"sub": "user-1"}, time.Minute)
	require.NoError(t, err)

	require.Nil(t, b.Verify(token))
}

func TestVerifyRejectsFlippedSignatureBits(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newCodec(t, "0123456789abcdef0123456789abcdef", clock)

	token, err := c.Generate(jwtx.Claims{"sub": "user-1"}, time.Minute)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := range len(sig) * 8 {
		flipped := append([]byte(nil), sig...)
		flipped[i/8] ^= 1 << (i % 8)
		tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)
		require.Nil(t, c.Verify(tampered), "bit %d", i)
	}
}

func TestVerifyMalformedInput(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newCodec(t, "0123456789abcdef0123456789abcdef", clock)

	token, err := c.Generate(jwtx.Claims{"sub": "user-1"}, time.Minute)
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	noneHeader := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one part", "abc"},
		{"two parts", parts[0] + "." + parts[1]},
		{"four parts", token + ".extra"},
		{"garbage", "!!!.???.***"},
		{"payload swapped", parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"admin","exp":9999999999}`)) + "." + parts[2]},
		{"alg none", noneHeader + "." + parts[1] + "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				require.Nil(t, c.Verify(tt.token))
			})
		})
	}
}

func TestVerifyRequiresExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newCodec(t, "0123456789abcdef0123456789abcdef", clock)

	token, err := c.Generate(jwtx.Claims{"sub": "user-1"}, time.Hour)
	require.NoError(t, err)

	claims := c.Verify(token)
	require.NotNil(t, claims)
	require.WithinDuration(t, clock.Now().Add(time.Hour), claims.ExpiresAt(), time.Second)
}
