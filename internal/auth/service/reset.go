package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store"
	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

// resetMailTimeout bounds one background delivery of a reset link.
const resetMailTimeout = 30 * time.Second

// passwordFingerprintLen is how much of the hash fingerprint a reset token
// carries. Enough to notice the password changed, too little to be useful.
const passwordFingerprintLen = 16

// TokenCodec both mints and checks signed tokens.
type TokenCodec interface {
	jwtx.Signer
	jwtx.Verifier
}

// PasswordResetService mails signed reset links and applies them. A reset
// token is bound to the password hash it was issued against, so it stops
// working as soon as the password changes.
type PasswordResetService struct {
	Store    store.Store
	Tokens   TokenCodec
	Notifier Notifier
	Now      func() time.Time

	TTL      time.Duration // defaults to jwtx.DefaultResetTokenTTL
	ResetURL string        // the token is appended as a query parameter

	deliveries sync.WaitGroup
}

func (s *PasswordResetService) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultResetTokenTTL
	}
	return s.TTL
}

// Request mails a reset link to the account behind login. An unknown login
// returns an empty mask and no error, so callers cannot probe for accounts.
// The link is delivered in the background and failures are only logged, so
// neither the response nor its timing depends on the mail server.
func (s *PasswordResetService) Request(ctx context.Context, login, lang string) (string, error) {
	log := slogx.FromContext(ctx)

	identifier := domain.NormalizeIdentifier(login)
	if identifier == "" {
		return "", nil
	}

	var (
		user domain.User
		err  error
	)
	if domain.IsEmailIdentifier(identifier) {
		user, err = s.Store.Users().GetUserByEmail(ctx, identifier)
	} else {
		user, err = s.Store.Users().GetUserByUsername(ctx, identifier)
	}
	if errors.Is(err, store.ErrNotFound) {
		log.Info("password reset requested for unknown account")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	token, err := s.Tokens.Generate(jwtx.Claims{
		domain.ClaimSubject:             user.ID,
		domain.ClaimPurpose:             domain.PurposeReset,
		domain.ClaimPasswordFingerprint: passwordFingerprint(user.PasswordHash),
	}, s.ttl())
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}

	s.deliver(ctx, user, lang, resetLink(s.ResetURL, token))

	return domain.MaskEmail(user.Email), nil
}

// Reset sets a new password using a reset token and revokes every session
// of the user.
func (s *PasswordResetService) Reset(ctx context.Context, token, newPassword string) error {
	log := slogx.FromContext(ctx)

	claims := s.Tokens.Verify(strings.TrimSpace(token))
	if claims == nil || claims.String(domain.ClaimPurpose) != domain.PurposeReset {
		return ErrInvalidResetToken
	}
	userID := claims.String(domain.ClaimSubject)
	if userID == "" {
		return ErrInvalidResetToken
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		// A token outlives its password: already used, or the user changed it.
		if claims.String(domain.ClaimPasswordFingerprint) != passwordFingerprint(user.PasswordHash) {
			return ErrInvalidResetToken
		}

		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if err := tx.RefreshTokens().DeleteUserRefreshTokens(ctx, user.ID); err != nil {
			return fmt.Errorf("revoke refresh tokens: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("password reset", slog.String("user_id", userID))
	return nil
}

// Wait blocks until every reset link handed to the background has been
// delivered or has failed.
func (s *PasswordResetService) Wait() {
	s.deliveries.Wait()
}

func (s *PasswordResetService) deliver(ctx context.Context, user domain.User, lang, link string) {
	// Outlive the request, keep its logger.
	ctx = context.WithoutCancel(ctx)

	s.deliveries.Go(func() {
		log := slogx.FromContext(ctx)

		ctx, cancel := context.WithTimeout(ctx, resetMailTimeout)
		defer cancel()

		if err := s.Notifier.SendPasswordReset(ctx, user.Email, lang, link); err != nil {
			log.Error("failed to send password reset",
				slog.String("user_id", user.ID),
				slog.Any("err", err),
			)
			return
		}
		log.Info("password reset sent", slog.String("user_id", user.ID))
	})
}

func passwordFingerprint(hash string) string {
	fp := cryptox.FingerprintToken(hash)
	if len(fp) > passwordFingerprintLen {
		fp = fp[:passwordFingerprintLen]
	}
	return fp
}

func resetLink(base, token string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}
