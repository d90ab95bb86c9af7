package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/inkwell/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, mutate func(*Config)) *Application {
	t.Helper()

	dir := t.TempDir()
	cfg := defaultConfig()
	cfg.Env = "test"
	cfg.LogLevel = "error"
	cfg.DatabaseFile = filepath.Join(dir, "auth.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	if mutate != nil {
		mutate(&cfg)
	}

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		app.resetService.Wait()
		_ = app.closeBackends()
	})

	return app
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Env = "prod"

	_, err := New(cfg)
	require.ErrorContains(t, err, "AUTH_JWT_SECRET is required")
}

func TestApplicationResolvesClientIPBehindProxy(t *testing.T) {
	app := newTestApp(t, func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8"} })
	require.Len(t, app.router.TrustedProxies, 1)

	send := func(remote, forwarded, email string) int {
		raw, err := json.Marshal(authsdk.SendVerificationCodeRequest{Email: email})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/auth/send-verification-code", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwarded)
		req.RemoteAddr = remote + ":5000"
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("10.0.0.1", "198.51.100.7", "x1@example.com"))
	require.Equal(t, http.StatusOK, send("203.0.113.5", "198.51.100.7", "x2@example.com"))

	since := time.Now().Add(-time.Hour)
	for ip, want := range map[string]int{"198.51.100.7": 1, "203.0.113.5": 1, "10.0.0.1": 0} {
		n, err := app.db.EmailVerifications().CountByIPSince(context.Background(), ip, since)
		require.NoError(t, err)
		require.Equal(t, want, n, ip)
	}
}

func TestApplicationServesSignupAndLogin(t *testing.T) {
	app := newTestApp(t, nil)
	h := app.Handler()

	rec := post(t, h, "/auth/signup", authsdk.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse 42",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = post(t, h, "/auth/login", authsdk.LoginRequest{Login: "alice", Password: "correct horse 42"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp authsdk.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.User.Username)
	require.Equal(t, 900, resp.ExpiresIn)
}

func TestApplicationSeedsInviteCodes(t *testing.T) {
	app := newTestApp(t, func(c *Config) {
		c.InviteCodes = []string{"welcome"}
		c.InviteSingleUse = true
	})
	h := app.Handler()

	req := authsdk.SignupRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "correct horse 42",
	}
	rec := post(t, h, "/auth/signup", req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.JSONEq(t, `{"error":"invalid_invite_code"}`, rec.Body.String())

	req.InviteCode = "welcome"
	rec = post(t, h, "/auth/signup", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestApplicationReadyz(t *testing.T) {
	app := newTestApp(t, nil)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health authsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.Checks.Database)
}
