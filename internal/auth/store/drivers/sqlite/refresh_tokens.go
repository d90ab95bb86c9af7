package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store/drivers/sqlite/gen"
)

type refreshTokensRepo struct {
	q *gen.Queries
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	err := r.q.CreateRefreshToken(ctx, gen.CreateRefreshTokenParams{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		ExpiresAt: toMillis(t.ExpiresAt),
		CreatedAt: toMillis(t.CreatedAt),
	})
	return mapConflict(err)
}

func (r *refreshTokensRepo) ConsumeRefreshToken(
	ctx context.Context,
	hash string,
	now time.Time,
) (string, error) {
	return consume(ctx, func(ctx context.Context) (string, error) {
		return r.q.ConsumeRefreshToken(ctx, gen.ConsumeRefreshTokenParams{
			TokenHash: hash,
			ExpiresAt: toMillis(now),
		})
	})
}

func (r *refreshTokensRepo) DeleteRefreshToken(ctx context.Context, hash string, userID string) error {
	n, err := r.q.DeleteRefreshToken(ctx, gen.DeleteRefreshTokenParams{
		TokenHash: hash,
		UserID:    userID,
	})
	return mapRowsAffected(n, err)
}

func (r *refreshTokensRepo) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	return r.q.DeleteUserRefreshTokens(ctx, userID)
}

func (r *refreshTokensRepo) DeleteExpiredUserRefreshTokens(
	ctx context.Context,
	userID string,
	now time.Time,
) error {
	return r.q.DeleteExpiredUserRefreshTokens(ctx, gen.DeleteExpiredUserRefreshTokensParams{
		UserID:    userID,
		ExpiresAt: toMillis(now),
	})
}
