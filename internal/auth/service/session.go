package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store"
	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/aussiebroadwan/inkwell/pkg/idx"
	"github.com/aussiebroadwan/inkwell/pkg/jwtx"
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

const DefaultRefreshTokenTTL = 30 * 24 * time.Hour

// dummyHash is verified against when a login names an unknown user, so the
// response time does not reveal whether the account exists.
var dummyHash = sync.OnceValues(func() (string, error) {
	return cryptox.HashPassword("inkwell-unknown-user-0")
})

// Session is the outcome of signup, login and refresh.
type Session struct {
	User domain.User
	domain.SessionTokens
}

// SignupInput is a signup request after JSON decoding.
type SignupInput struct {
	Username          string
	Email             string
	Password          string
	Phone             string
	VerificationToken string
	InviteCode        string
}

type SessionService struct {
	Store    store.Store
	Tokens   jwtx.Signer
	Throttle *LoginThrottle
	Invites  *InviteService
	Now      func() time.Time

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// RequireVerification makes a verification token mandatory at signup.
	RequireVerification bool
}

func (s *SessionService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *SessionService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

// Signup creates a user and signs them in. The verification token and the
// invite are redeemed in the same transaction as the user insert, so either
// everything commits or nothing does.
func (s *SessionService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	log := slogx.FromContext(ctx)
	now := clock(s.Now)

	// 1. Validate input, no store access on bad input
	username := strings.TrimSpace(in.Username)
	email := domain.NormalizeEmail(in.Email)
	if err := domain.ValidateUsername(username); err != nil {
		return Session{}, err
	}
	if err := domain.ValidateEmail(email); err != nil {
		return Session{}, err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return Session{}, err
	}

	verificationToken := strings.TrimSpace(in.VerificationToken)
	if s.RequireVerification && verificationToken == "" {
		return Session{}, ErrInvalidVerificationToken
	}
	if s.Invites.Required() && strings.TrimSpace(in.InviteCode) == "" {
		return Session{}, ErrInvalidInviteCode
	}

	// 2. A spent or foreign verification token fails before any conflict is
	// reported. The consume inside the transaction is the real guard.
	if verificationToken != "" {
		ok, err := s.Store.EmailVerifications().HasVerifiedToken(ctx, email, cryptox.FingerprintToken(verificationToken), now)
		if err != nil {
			return Session{}, fmt.Errorf("check verification token: %w", err)
		}
		if !ok {
			return Session{}, ErrInvalidVerificationToken
		}
	}

	// 3. Cheap uniqueness pre-check, the unique indexes are the real guard
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return Session{}, fmt.Errorf("get user by email: %w", err)
	}
	if _, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		return Session{}, ErrUsernameAlreadyTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return Session{}, fmt.Errorf("get user by username: %w", err)
	}

	// 4. Hash outside the transaction, it is the slow part
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Metadata:     map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var session Session
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 5. Redeem the verification token, single use
		if verificationToken != "" {
			err := tx.EmailVerifications().ConsumeVerifiedToken(ctx, email, cryptox.FingerprintToken(verificationToken), now)
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidVerificationToken
			}
			if err != nil {
				return fmt.Errorf("consume verification token: %w", err)
			}
		}

		// 6. Insert the user
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return mapUserConflict(err)
		}

		// 7. Take the invite
		if s.Invites.Required() {
			if err := s.Invites.Redeem(ctx, tx, in.InviteCode, user.ID, now); err != nil {
				return err
			}
		}

		// 8. Issue the session
		tokens, err := s.issue(ctx, tx, user, now)
		if err != nil {
			return err
		}
		session = Session{User: user, SessionTokens: tokens}
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	log.Info("user signed up",
		slog.String("user_id", user.ID),
		slog.String("email", domain.MaskEmail(user.Email)),
		slog.Bool("email_verified", verificationToken != ""),
	)
	return session, nil
}

// Login authenticates by email or username. The throttle is consulted before
// the identifier is even resolved, and unknown identifiers still cost one
// password verification.
func (s *SessionService) Login(ctx context.Context, login, password, ip string) (Session, error) {
	log := slogx.FromContext(ctx)
	now := clock(s.Now)
	identifier := domain.NormalizeIdentifier(login)

	// 1. Throttle
	blocked, err := s.Throttle.IsBlocked(ctx, identifier)
	if err != nil {
		return Session{}, err
	}
	if blocked {
		log.Warn("login blocked by throttle", slog.String("ip", ip))
		return Session{}, ErrTooManyLoginAttempts
	}

	// 2. Resolve the user
	var user domain.User
	if domain.IsEmailIdentifier(identifier) {
		user, err = s.Store.Users().GetUserByEmail(ctx, identifier)
	} else {
		user, err = s.Store.Users().GetUserByUsername(ctx, identifier)
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Session{}, fmt.Errorf("get user: %w", err)
	}
	found := err == nil

	// 3. Verify the password, against a dummy hash for unknown users
	hash := user.PasswordHash
	if !found {
		if hash, err = dummyHash(); err != nil {
			return Session{}, fmt.Errorf("dummy hash: %w", err)
		}
	}
	err = cryptox.VerifyPassword(password, hash)
	if err != nil && !errors.Is(err, cryptox.ErrPasswordMismatch) {
		return Session{}, fmt.Errorf("verify password: %w", err)
	}

	if !found || err != nil {
		if err := s.Throttle.RecordFailure(ctx, identifier, ip); err != nil {
			return Session{}, err
		}
		log.Info("login failed", slog.String("ip", ip))
		return Session{}, ErrInvalidCredentials
	}

	// 4. Success resets the failure count
	if err := s.Throttle.Clear(ctx, identifier); err != nil {
		return Session{}, err
	}

	// 5. Upgrade legacy hashes while we hold the plaintext
	if cryptox.IsLegacyHash(user.PasswordHash) {
		s.upgradeHash(ctx, user.ID, password)
	}

	var session Session
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		tokens, err := s.issue(ctx, tx, user, now)
		if err != nil {
			return err
		}
		session = Session{User: user, SessionTokens: tokens}
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return session, nil
}

// Refresh rotates a refresh token. The presented token is consumed by a single
// delete, so of two concurrent refreshes with the same value exactly one wins.
func (s *SessionService) Refresh(ctx context.Context, rawRefresh string) (Session, error) {
	now := clock(s.Now)

	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return Session{}, ErrInvalidRefresh
	}

	var session Session
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		userID, err := tx.RefreshTokens().ConsumeRefreshToken(ctx, cryptox.FingerprintToken(rawRefresh), now)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidRefresh
		}
		if err != nil {
			return fmt.Errorf("consume refresh token: %w", err)
		}

		user, err := tx.Users().GetUserByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidRefresh
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		tokens, err := s.issue(ctx, tx, user, now)
		if err != nil {
			return err
		}
		session = Session{User: user, SessionTokens: tokens}
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	return session, nil
}

// Logout revokes one refresh token of userID, or all of them when rawRefresh
// is empty. Revoking a token that is unknown or owned by someone else is not
// an error.
func (s *SessionService) Logout(ctx context.Context, userID, rawRefresh string) error {
	log := slogx.FromContext(ctx)

	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		if err := s.Store.RefreshTokens().DeleteUserRefreshTokens(ctx, userID); err != nil {
			return fmt.Errorf("revoke all refresh tokens: %w", err)
		}
		log.Info("logged out everywhere")
		return nil
	}

	err := s.Store.RefreshTokens().DeleteRefreshToken(ctx, cryptox.FingerprintToken(rawRefresh), userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	log.Info("logged out")
	return nil
}

// issue signs an access token and stores a fresh refresh token inside tx.
// The user's expired refresh tokens are pruned on the way.
func (s *SessionService) issue(ctx context.Context, tx store.Tx, user domain.User, now time.Time) (domain.SessionTokens, error) {
	accessToken, err := s.Tokens.Generate(jwtx.Claims{
		domain.ClaimSubject: user.ID,
		domain.ClaimEmail:   user.Email,
	}, s.accessTTL())
	if err != nil {
		return domain.SessionTokens{}, fmt.Errorf("sign access token: %w", err)
	}

	rawRefresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.SessionTokens{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := tx.RefreshTokens().DeleteExpiredUserRefreshTokens(ctx, user.ID, now); err != nil {
		return domain.SessionTokens{}, fmt.Errorf("prune refresh tokens: %w", err)
	}

	if err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.NewAt(now).String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(rawRefresh),
		ExpiresAt: now.Add(s.refreshTTL()),
		CreatedAt: now,
	}); err != nil {
		return domain.SessionTokens{}, fmt.Errorf("store refresh token: %w", err)
	}

	return domain.SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresIn:    s.accessTTL(),
	}, nil
}

func (s *SessionService) upgradeHash(ctx context.Context, userID, password string) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to rehash legacy password", slog.Any("err", err))
		return
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		log.Error("failed to store upgraded password hash", slog.Any("err", err))
		return
	}
	log.Info("legacy password hash upgraded", slog.String("user_id", userID))
}

// mapUserConflict turns a unique violation on users into the client error.
func mapUserConflict(err error) error {
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		if conflict.Field == "username" {
			return ErrUsernameAlreadyTaken
		}
		return ErrEmailAlreadyRegistered
	}
	return fmt.Errorf("create user: %w", err)
}
