package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/inkwell/internal/auth/service"
	"github.com/aussiebroadwan/inkwell/pkg/httpx"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
)

// MinJWTSecretLen is the shortest HMAC secret accepted outside dev and test.
const MinJWTSecretLen = 32

type Config struct {
	Env                 string        // Environment (dev, test, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	DatabaseFile string // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	JWTSecret     string // HMAC secret for access and reset tokens
	JWTSecretFile string // Optional: read JWTSecret from this file instead

	AccessTTL  time.Duration // Access token lifetime (default: 15m)
	RefreshTTL time.Duration // Refresh token lifetime (default: 720h)
	ResetTTL   time.Duration // Password reset token lifetime (default: 30m)
	ResetURL   string        // Base of the link mailed for a password reset

	InviteCodes              []string // Optional: signup requires one of these when set
	InviteSingleUse          bool     // Each seeded invite can be redeemed once
	RequireEmailVerification bool     // Signup requires a verification_token

	RedisURL string // Optional: keep login failures in Redis

	TrustedProxies []string // Optional: proxy addresses or CIDRs allowed to set X-Forwarded-For

	SMTP SMTPConfig
}

// SMTPConfig configures outgoing mail. Mail is logged instead of sent when
// Host is empty.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// configFile is the YAML schema read from AUTH_CONFIG_FILE. Durations are
// strings so "15m" and "720h" work.
type configFile struct {
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Port      int    `yaml:"port"`

	Database struct {
		File       string `yaml:"file"`
		PepperFile string `yaml:"pepper_file"`
	} `yaml:"database"`

	Tokens struct {
		SecretFile string `yaml:"secret_file"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
		ResetTTL   string `yaml:"reset_ttl"`
		ResetURL   string `yaml:"reset_url"`
	} `yaml:"tokens"`

	Signup struct {
		InviteCodes              []string `yaml:"invite_codes"`
		InviteSingleUse          *bool    `yaml:"invite_single_use"`
		RequireEmailVerification *bool    `yaml:"require_email_verification"`
	} `yaml:"signup"`

	RedisURL       string     `yaml:"redis_url"`
	TrustedProxies []string   `yaml:"trusted_proxies"`
	SMTP           SMTPConfig `yaml:"smtp"`
}

func defaultConfig() Config {
	return Config{
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: 10 * time.Second,
		DatabaseFile:        "auth.db",
		PepperFile:          "pepper",
		AccessTTL:           jwtx.DefaultAccessTokenTTL,
		RefreshTTL:          service.DefaultRefreshTokenTTL,
		ResetTTL:            jwtx.DefaultResetTokenTTL,
		ResetURL:            "http://localhost:3000/reset-password",
		SMTP:                SMTPConfig{Port: 587},
	}
}

// LoadConfig resolves configuration in priority order: defaults, then the
// YAML file named by AUTH_CONFIG_FILE, then the environment.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("AUTH_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)

	cfg.DatabaseFile = getEnvOrDefault("AUTH_DATABASE_FILE", cfg.DatabaseFile)
	cfg.PepperFile = getEnvOrDefault("AUTH_PEPPER_FILE", cfg.PepperFile)

	cfg.JWTSecret = getEnvOrDefault("AUTH_JWT_SECRET", cfg.JWTSecret)
	cfg.JWTSecretFile = getEnvOrDefault("AUTH_JWT_SECRET_FILE", cfg.JWTSecretFile)
	cfg.AccessTTL = getEnvDurationOrDefault("AUTH_ACCESS_TTL", cfg.AccessTTL)
	cfg.RefreshTTL = getEnvDurationOrDefault("AUTH_REFRESH_TTL", cfg.RefreshTTL)
	cfg.ResetTTL = getEnvDurationOrDefault("AUTH_RESET_TTL", cfg.ResetTTL)
	cfg.ResetURL = getEnvOrDefault("AUTH_RESET_URL", cfg.ResetURL)

	cfg.InviteCodes = getEnvListOrDefault("AUTH_INVITE_CODES", cfg.InviteCodes)
	cfg.InviteSingleUse = getEnvBoolOrDefault("AUTH_INVITE_SINGLE_USE", cfg.InviteSingleUse)
	cfg.RequireEmailVerification = getEnvBoolOrDefault("AUTH_REQUIRE_EMAIL_VERIFICATION", cfg.RequireEmailVerification)

	cfg.RedisURL = getEnvOrDefault("AUTH_REDIS_URL", cfg.RedisURL)
	cfg.TrustedProxies = getEnvListOrDefault("AUTH_TRUSTED_PROXIES", cfg.TrustedProxies)

	cfg.SMTP.Host = getEnvOrDefault("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnvIntOrDefault("SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.Username = getEnvOrDefault("SMTP_USERNAME", cfg.SMTP.Username)
	cfg.SMTP.Password = getEnvOrDefault("SMTP_PASSWORD", cfg.SMTP.Password)
	cfg.SMTP.From = getEnvOrDefault("SMTP_FROM", cfg.SMTP.From)

	if cfg.JWTSecret == "" && cfg.JWTSecretFile != "" {
		raw, err := os.ReadFile(cfg.JWTSecretFile)
		if err != nil {
			return Config{}, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(raw))
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.Env, f.Env)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.LogFormat, f.LogFormat)
	if f.Port > 0 {
		c.Port = f.Port
	}

	setString(&c.DatabaseFile, f.Database.File)
	setString(&c.PepperFile, f.Database.PepperFile)

	setString(&c.JWTSecretFile, f.Tokens.SecretFile)
	setString(&c.ResetURL, f.Tokens.ResetURL)
	for _, d := range []struct {
		raw string
		dst *time.Duration
	}{
		{f.Tokens.AccessTTL, &c.AccessTTL},
		{f.Tokens.RefreshTTL, &c.RefreshTTL},
		{f.Tokens.ResetTTL, &c.ResetTTL},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
		*d.dst = v
	}

	if len(f.Signup.InviteCodes) > 0 {
		c.InviteCodes = f.Signup.InviteCodes
	}
	if f.Signup.InviteSingleUse != nil {
		c.InviteSingleUse = *f.Signup.InviteSingleUse
	}
	if f.Signup.RequireEmailVerification != nil {
		c.RequireEmailVerification = *f.Signup.RequireEmailVerification
	}

	setString(&c.RedisURL, f.RedisURL)
	if len(f.TrustedProxies) > 0 {
		c.TrustedProxies = f.TrustedProxies
	}

	setString(&c.SMTP.Host, f.SMTP.Host)
	if f.SMTP.Port > 0 {
		c.SMTP.Port = f.SMTP.Port
	}
	setString(&c.SMTP.Username, f.SMTP.Username)
	setString(&c.SMTP.Password, f.SMTP.Password)
	setString(&c.SMTP.From, f.SMTP.From)

	return nil
}

// IsDev reports whether the environment tolerates an ephemeral JWT secret.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "test"
}

// Validate rejects configurations the service cannot safely run with.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.JWTSecret == "" && !c.IsDev():
		errs = append(errs, fmt.Errorf("AUTH_JWT_SECRET is required when ENV=%s", c.Env))
	case c.JWTSecret != "" && len(c.JWTSecret) < MinJWTSecretLen:
		errs = append(errs, fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", MinJWTSecretLen))
	}

	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("AUTH_ACCESS_TTL must be positive"))
	}
	if c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("AUTH_REFRESH_TTL must be positive"))
	}
	if c.ResetTTL <= 0 {
		errs = append(errs, errors.New("AUTH_RESET_TTL must be positive"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		errs = append(errs, errors.New("SMTP_FROM is required when SMTP_HOST is set"))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("AUTH_TRUSTED_PROXIES: %w", err))
	}

	return errors.Join(errs...)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
