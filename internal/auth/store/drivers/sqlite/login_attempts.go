package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store/drivers/sqlite/gen"
)

type loginAttemptsRepo struct {
	q *gen.Queries
}

func (r *loginAttemptsRepo) RecordLoginFailure(ctx context.Context, a domain.LoginAttempt) error {
	return r.q.CreateLoginAttempt(ctx, gen.CreateLoginAttemptParams{
		ID:         a.ID,
		Identifier: a.Identifier,
		IpAddress:  a.IPAddress,
		CreatedAt:  toMillis(a.CreatedAt),
	})
}

func (r *loginAttemptsRepo) CountLoginFailuresSince(
	ctx context.Context,
	identifier string,
	since time.Time,
) (int, error) {
	count, err := r.q.CountLoginAttemptsSince(ctx, gen.CountLoginAttemptsSinceParams{
		Identifier: identifier,
		CreatedAt:  toMillis(since),
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *loginAttemptsRepo) DeleteLoginAttempts(ctx context.Context, identifier string) error {
	return r.q.DeleteLoginAttempts(ctx, identifier)
}

func (r *loginAttemptsRepo) DeleteLoginAttemptsBefore(
	ctx context.Context,
	identifier string,
	cutoff time.Time,
) error {
	return r.q.DeleteLoginAttemptsBefore(ctx, gen.DeleteLoginAttemptsBeforeParams{
		Identifier: identifier,
		CreatedAt:  toMillis(cutoff),
	})
}
