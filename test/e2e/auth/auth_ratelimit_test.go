package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/inkwell/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitLoginEndpoint verifies that /auth/login is rate limited per
// IP and login. The strict limit allows a burst of 5.
func TestRateLimitLoginEndpoint(t *testing.T) {
	c := setupAuthContainerWithDefaultRateLimits(t)
	client := c.client()

	var lastErr error
	for i := range 6 {
		_, err := client.Login(t.Context(), "wronguser", "wrong-pass-1")
		if i < 5 {
			require.Error(t, err)
			require.False(t, authsdk.IsCode(err, authsdk.ErrorCodeRateLimitExceeded),
				"Should not be rate limited yet (request %d)", i+1)
			continue
		}
		lastErr = err
	}

	assertCode(t, lastErr, http.StatusTooManyRequests, authsdk.ErrorCodeRateLimitExceeded)
}
