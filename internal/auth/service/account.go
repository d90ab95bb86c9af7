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
	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

// AccountService serves the signed-in user's own account.
type AccountService struct {
	Store    store.Store
	Throttle *LoginThrottle
	Now      func() time.Time
}

// Me returns the user behind a verified access token. A token for a deleted
// user yields ErrUserNotFound.
func (s *AccountService) Me(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateUser applies a partial profile update. Metadata is merged shallowly
// and a nil value deletes the key.
func (s *AccountService) UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if upd.IsEmpty() {
		return domain.User{}, ErrNothingToUpdate
	}

	var email string
	if upd.Email != nil {
		email = domain.NormalizeEmail(*upd.Email)
		if err := domain.ValidateEmail(email); err != nil {
			return domain.User{}, err
		}
	}

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetUserByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		if upd.Email != nil {
			user.Email = email
		}
		if upd.Phone != nil {
			user.Phone = strings.TrimSpace(*upd.Phone)
		}
		if len(upd.Metadata) > 0 {
			user.Metadata = domain.MergeMetadata(user.Metadata, upd.Metadata)
		}
		user.UpdatedAt = clock(s.Now)

		err = tx.Users().UpdateUserProfile(ctx, user)
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrEmailAlreadyRegistered
		}
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("profile updated")
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
// Existing sessions stay valid.
func (s *AccountService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	log := slogx.FromContext(ctx)

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrIncorrectCurrentPassword
		}
		return fmt.Errorf("verify password: %w", err)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	log.Info("password changed")
	return nil
}

// DeleteAccount removes the user with their sessions and verification rows,
// then forgets their login failures.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetUserByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		if err := tx.Users().DeleteUser(ctx, user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if err := tx.EmailVerifications().DeleteByEmail(ctx, user.Email); err != nil {
			return fmt.Errorf("delete verifications: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// The throttle may live in redis, outside the transaction.
	if s.Throttle != nil {
		for _, id := range []string{user.Email, domain.NormalizeIdentifier(user.Username)} {
			if err := s.Throttle.Clear(ctx, id); err != nil {
				log.Warn("failed to clear login failures", slog.Any("err", err))
			}
		}
	}

	log.Info("account deleted")
	return nil
}
