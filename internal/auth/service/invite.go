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

// InviteService gates signup behind configured invite codes. With no codes
// configured signup is open.
type InviteService struct {
	Store     store.Store
	Now       func() time.Time
	Codes     []string
	SingleUse bool
}

// Required reports whether signup must present an invite code.
func (s *InviteService) Required() bool {
	return s != nil && len(s.Codes) > 0
}

// Seed stores every configured code as a fingerprint. Codes that already
// exist are left untouched, so seeding on every start is safe.
func (s *InviteService) Seed(ctx context.Context) error {
	log := slogx.FromContext(ctx)
	now := clock(s.Now)

	seeded := 0
	for _, code := range s.Codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		err := s.Store.Invites().CreateInvite(ctx, domain.Invite{
			ID:        idx.NewAt(now).String(),
			CodeHash:  cryptox.FingerprintToken(code),
			Reusable:  !s.SingleUse,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seed invite: %w", err)
		}
		seeded++
	}

	log.Info("invite codes seeded",
		slog.Int("count", seeded),
		slog.Bool("single_use", s.SingleUse),
	)
	return nil
}

// Redeem marks the invite for code as used by userID inside tx. The user row
// must already exist in the same transaction.
func (s *InviteService) Redeem(ctx context.Context, tx store.Tx, code, userID string, now time.Time) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrInvalidInviteCode
	}

	invite, err := tx.Invites().GetActiveInviteByCodeHash(ctx, cryptox.FingerprintToken(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidInviteCode
		}
		return fmt.Errorf("get invite: %w", err)
	}

	// A single-use invite taken by a concurrent signup updates zero rows.
	if err := tx.Invites().MarkInviteUsed(ctx, invite.ID, userID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidInviteCode
		}
		return fmt.Errorf("mark invite used: %w", err)
	}
	return nil
}
