package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 720*time.Hour, cfg.RefreshTTL)
	require.Equal(t, 30*time.Minute, cfg.ResetTTL)
	require.Equal(t, "http://localhost:3000/reset-password", cfg.ResetURL)
	require.Equal(t, 587, cfg.SMTP.Port)
	require.Empty(t, cfg.InviteCodes)
	require.False(t, cfg.RequireEmailVerification)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH_CONFIG_FILE", "")
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_JWT_SECRET", validSecret)
	t.Setenv("AUTH_ACCESS_TTL", "5m")
	t.Setenv("AUTH_REFRESH_TTL", "90") // integer minutes
	t.Setenv("AUTH_INVITE_CODES", " alpha, ,beta ")
	t.Setenv("AUTH_INVITE_SINGLE_USE", "true")
	t.Setenv("AUTH_REQUIRE_EMAIL_VERIFICATION", "1")
	t.Setenv("AUTH_REDIS_URL", "redis://cache:6379/0")
	t.Setenv("AUTH_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "Inkwell <no-reply@example.com>")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.AccessTTL)
	require.Equal(t, 90*time.Minute, cfg.RefreshTTL)
	require.Equal(t, []string{"alpha", "beta"}, cfg.InviteCodes)
	require.True(t, cfg.InviteSingleUse)
	require.True(t, cfg.RequireEmailVerification)
	require.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	require.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)
	require.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	secretFile := filepath.Join(dir, "secret")
	require.NoError(t, os.WriteFile(secretFile, []byte(validSecret+"\n"), 0o600))

	configFile := filepath.Join(dir, "auth.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
env: staging
port: 7000
database:
  file: /var/lib/inkwell/auth.db
tokens:
  secret_file: `+secretFile+`
  access_ttl: 10m
  reset_url: https://app.example.com/reset
signup:
  invite_codes: [one, two]
  require_email_verification: true
trusted_proxies: [172.16.0.0/12]
smtp:
  host: mail.internal
  port: 25
  from: auth@example.com
`), 0o600))

	t.Setenv("AUTH_CONFIG_FILE", configFile)
	t.Setenv("PORT", "7001")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "staging", cfg.Env)
	require.Equal(t, 7001, cfg.Port, "env overrides the file")
	require.Equal(t, "/var/lib/inkwell/auth.db", cfg.DatabaseFile)
	require.Equal(t, validSecret, cfg.JWTSecret)
	require.Equal(t, 10*time.Minute, cfg.AccessTTL)
	require.Equal(t, 720*time.Hour, cfg.RefreshTTL)
	require.Equal(t, "https://app.example.com/reset", cfg.ResetURL)
	require.Equal(t, []string{"one", "two"}, cfg.InviteCodes)
	require.True(t, cfg.RequireEmailVerification)
	require.Equal(t, []string{"172.16.0.0/12"}, cfg.TrustedProxies)
	require.Equal(t, 25, cfg.SMTP.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigBadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		t.Setenv("AUTH_CONFIG_FILE", filepath.Join(dir, "nope.yaml"))
		_, err := LoadConfig()
		require.ErrorContains(t, err, "read config file")
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tokens:\n  access_ttl: soon\n"), 0o600))
		t.Setenv("AUTH_CONFIG_FILE", path)
		_, err := LoadConfig()
		require.ErrorContains(t, err, "parse config file")
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "dev without secret",
			mutate: func(c *Config) { c.JWTSecret = "" },
		},
		{
			name: "test without secret",
			mutate: func(c *Config) {
				c.Env = "test"
				c.JWTSecret = ""
			},
		},
		{
			name: "prod without secret",
			mutate: func(c *Config) {
				c.Env = "prod"
				c.JWTSecret = ""
			},
			wantErr: "AUTH_JWT_SECRET is required",
		},
		{
			name:    "short secret",
			mutate:  func(c *Config) { c.JWTSecret = "too-short" },
			wantErr: "at least 32 bytes",
		},
		{
			name:    "zero access ttl",
			mutate:  func(c *Config) { c.AccessTTL = 0 },
			wantErr: "AUTH_ACCESS_TTL",
		},
		{
			name:    "negative refresh ttl",
			mutate:  func(c *Config) { c.RefreshTTL = -time.Hour },
			wantErr: "AUTH_REFRESH_TTL",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "out of range",
		},
		{
			name:    "smtp without sender",
			mutate:  func(c *Config) { c.SMTP.Host = "smtp.example.com" },
			wantErr: "SMTP_FROM",
		},
		{
			name:   "trusted proxies",
			mutate: func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8", "fd00::1"} },
		},
		{
			name:    "bad trusted proxy",
			mutate:  func(c *Config) { c.TrustedProxies = []string{"lb.internal"} },
			wantErr: "AUTH_TRUSTED_PROXIES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.JWTSecret = validSecret
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, strings.Contains(err.Error(), tt.wantErr), "got %q", err)
		})
	}
}
