package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store"
	"github.com/aussiebroadwan/inkwell/pkg/idx"
)

const (
	DefaultMaxLoginFailures   = 5
	DefaultLoginFailureWindow = 15 * time.Minute
)

// LoginThrottle counts recent failed logins per identifier. The check and the
// record are not atomic, so under concurrent guessing the effective limit can
// be off by a few attempts.
type LoginThrottle struct {
	Attempts    store.LoginAttempts
	Now         func() time.Time
	MaxFailures int           // defaults to DefaultMaxLoginFailures
	Window      time.Duration // defaults to DefaultLoginFailureWindow
}

func (t *LoginThrottle) maxFailures() int {
	if t.MaxFailures <= 0 {
		return DefaultMaxLoginFailures
	}
	return t.MaxFailures
}

func (t *LoginThrottle) window() time.Duration {
	if t.Window <= 0 {
		return DefaultLoginFailureWindow
	}
	return t.Window
}

// IsBlocked reports whether identifier reached the failure limit inside the
// trailing window.
func (t *LoginThrottle) IsBlocked(ctx context.Context, identifier string) (bool, error) {
	since := clock(t.Now).Add(-t.window())
	n, err := t.Attempts.CountLoginFailuresSince(ctx, identifier, since)
	if err != nil {
		return false, fmt.Errorf("count login failures: %w", err)
	}
	return n >= t.maxFailures(), nil
}

// RecordFailure stores one failed attempt and drops the identifier's rows that
// already fell out of the window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, identifier, ip string) error {
	now := clock(t.Now)

	if err := t.Attempts.RecordLoginFailure(ctx, domain.LoginAttempt{
		ID:         idx.NewAt(now).String(),
		Identifier: identifier,
		IPAddress:  ip,
		CreatedAt:  now,
	}); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}

	if err := t.Attempts.DeleteLoginAttemptsBefore(ctx, identifier, now.Add(-t.window())); err != nil {
		return fmt.Errorf("prune login failures: %w", err)
	}
	return nil
}

// Clear forgets every failure for identifier.
func (t *LoginThrottle) Clear(ctx context.Context, identifier string) error {
	if err := t.Attempts.DeleteLoginAttempts(ctx, identifier); err != nil {
		return fmt.Errorf("clear login failures: %w", err)
	}
	return nil
}
