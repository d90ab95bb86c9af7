package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
)

// InitTokenCodec creates the HS256 codec for access and reset tokens.
//
// Without a configured secret (only allowed in dev and test) a random one is
// generated for this process. Every token becomes invalid when the service
// restarts.
func InitTokenCodec(cfg Config, logger *slog.Logger) (*jwtx.Codec, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		if !cfg.IsDev() {
			return nil, fmt.Errorf("no jwt secret configured for env %q", cfg.Env)
		}

		generated, err := cryptox.GenerateToken(cryptox.TokenSize512)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		secret = generated

		logger.Warn("AUTH_JWT_SECRET not set, using an ephemeral secret",
			"env", cfg.Env,
		)
	}

	codec, err := jwtx.NewCodec([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("create token codec: %w", err)
	}

	logger.Info("token codec initialized",
		"access_ttl", cfg.AccessTTL,
		"refresh_ttl", cfg.RefreshTTL,
		"reset_ttl", cfg.ResetTTL,
	)
	return codec, nil
}
