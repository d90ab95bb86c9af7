package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store"
	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/aussiebroadwan/inkwell/pkg/idx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

const (
	DefaultVerificationCodeTTL = 10 * time.Minute
	DefaultVerificationWindow  = 10 * time.Minute
	DefaultMaxCodesPerEmail    = 3
	DefaultMaxCodesPerIP       = 10
	DefaultMaxCodeFailures     = 5

	verificationCodeDigits = 6
)

// Verification is returned once a code has been proven. Token is handed to
// signup and is only good for the email it was issued to.
type Verification struct {
	Email string
	Token string
}

// EmailVerificationService proves ownership of an email address before
// signup: a short numeric code is mailed, and exchanging it yields an opaque
// token.
type EmailVerificationService struct {
	Store    store.Store
	Notifier Notifier
	Now      func() time.Time

	CodeTTL     time.Duration // defaults to DefaultVerificationCodeTTL
	Window      time.Duration // defaults to DefaultVerificationWindow
	MaxPerEmail int           // defaults to DefaultMaxCodesPerEmail
	MaxPerIP    int           // defaults to DefaultMaxCodesPerIP
	MaxFailures int           // wrong guesses that retire pending codes, defaults to DefaultMaxCodeFailures
}

func (s *EmailVerificationService) codeTTL() time.Duration {
	if s.CodeTTL <= 0 {
		return DefaultVerificationCodeTTL
	}
	return s.CodeTTL
}

func (s *EmailVerificationService) window() time.Duration {
	if s.Window <= 0 {
		return DefaultVerificationWindow
	}
	return s.Window
}

func (s *EmailVerificationService) maxPerEmail() int {
	if s.MaxPerEmail <= 0 {
		return DefaultMaxCodesPerEmail
	}
	return s.MaxPerEmail
}

func (s *EmailVerificationService) maxPerIP() int {
	if s.MaxPerIP <= 0 {
		return DefaultMaxCodesPerIP
	}
	return s.MaxPerIP
}

func (s *EmailVerificationService) maxFailures() int {
	if s.MaxFailures <= 0 {
		return DefaultMaxCodeFailures
	}
	return s.MaxFailures
}

// RequestCode mails a fresh code to email. Sends are limited per email and
// per client IP inside the trailing window. The returned duration is how long
// the code stays valid.
func (s *EmailVerificationService) RequestCode(ctx context.Context, email, ip, lang string) (time.Duration, error) {
	log := slogx.FromContext(ctx)
	now := clock(s.Now)

	email = domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(email); err != nil {
		return 0, err
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return 0, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("get user by email: %w", err)
	}

	var code string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		since := now.Add(-s.window())

		n, err := tx.EmailVerifications().CountByEmailSince(ctx, email, since)
		if err != nil {
			return fmt.Errorf("count codes by email: %w", err)
		}
		if n >= s.maxPerEmail() {
			return ErrVerificationRateLimited
		}

		if ip != "" {
			n, err = tx.EmailVerifications().CountByIPSince(ctx, ip, since)
			if err != nil {
				return fmt.Errorf("count codes by ip: %w", err)
			}
			if n >= s.maxPerIP() {
				return ErrVerificationRateLimited
			}
		}

		if err := tx.EmailVerifications().DeleteExpired(ctx, email, now); err != nil {
			return fmt.Errorf("prune expired codes: %w", err)
		}

		code, err = cryptox.GenerateNumericCode(verificationCodeDigits)
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}

		return tx.EmailVerifications().CreateEmailVerification(ctx, domain.EmailVerification{
			ID:        idx.NewAt(now).String(),
			Email:     email,
			Code:      code,
			IPAddress: ip,
			ExpiresAt: now.Add(s.codeTTL()),
			CreatedAt: now,
		})
	})
	if err != nil {
		if errors.Is(err, ErrVerificationRateLimited) {
			log.Warn("verification code rate limited",
				slog.String("email", domain.MaskEmail(email)),
				slog.String("ip", ip),
			)
		}
		return 0, err
	}

	if err := s.Notifier.SendVerificationCode(ctx, email, lang, code); err != nil {
		return 0, fmt.Errorf("send verification code: %w", err)
	}

	log.Info("verification code sent", slog.String("email", domain.MaskEmail(email)))
	return s.codeTTL(), nil
}

// VerifyCode exchanges a pending code for a verification token. A code can be
// exchanged once. Every wrong guess counts against all pending codes of the
// email, and a code that has absorbed MaxFailures of them stops matching.
func (s *EmailVerificationService) VerifyCode(ctx context.Context, email, code string) (Verification, error) {
	log := slogx.FromContext(ctx)
	now := clock(s.Now)

	email = domain.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return Verification{}, ErrInvalidCode
	}

	pending, err := s.Store.EmailVerifications().GetPending(ctx, email, code, s.maxFailures(), now)
	if errors.Is(err, store.ErrNotFound) {
		expired, err := s.Store.EmailVerifications().HasExpiredCode(ctx, email, code, now)
		if err != nil {
			return Verification{}, fmt.Errorf("check expired code: %w", err)
		}
		if expired {
			return Verification{}, ErrCodeExpired
		}

		if err := s.Store.EmailVerifications().RecordFailure(ctx, email, now); err != nil {
			return Verification{}, fmt.Errorf("record failed code: %w", err)
		}
		log.Info("verification code rejected", slog.String("email", domain.MaskEmail(email)))
		return Verification{}, ErrInvalidCode
	}
	if err != nil {
		return Verification{}, fmt.Errorf("get pending code: %w", err)
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return Verification{}, fmt.Errorf("generate verification token: %w", err)
	}

	// Lost a race with a concurrent exchange of the same code.
	err = s.Store.EmailVerifications().MarkVerified(ctx, pending.ID, cryptox.FingerprintToken(token), now)
	if errors.Is(err, store.ErrNotFound) {
		return Verification{}, ErrInvalidCode
	}
	if err != nil {
		return Verification{}, fmt.Errorf("mark verified: %w", err)
	}

	log.Info("email verified", slog.String("email", domain.MaskEmail(email)))
	return Verification{Email: email, Token: token}, nil
}

// ValidateToken reports whether token would be accepted by signup for email.
// It does not consume the token.
func (s *EmailVerificationService) ValidateToken(ctx context.Context, email, token string) (bool, error) {
	email = domain.NormalizeEmail(email)
	token = strings.TrimSpace(token)
	if email == "" || token == "" {
		return false, nil
	}

	ok, err := s.Store.EmailVerifications().HasVerifiedToken(ctx, email, cryptox.FingerprintToken(token), clock(s.Now))
	if err != nil {
		return false, fmt.Errorf("check verification token: %w", err)
	}
	return ok, nil
}
