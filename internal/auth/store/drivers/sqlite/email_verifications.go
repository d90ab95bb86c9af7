package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store/drivers/sqlite/gen"
)

type emailVerificationsRepo struct {
	q *gen.Queries
}

func (r *emailVerificationsRepo) CreateEmailVerification(
	ctx context.Context,
	v domain.EmailVerification,
) error {
	return r.q.CreateEmailVerification(ctx, gen.CreateEmailVerificationParams{
		ID:        v.ID,
		Email:     v.Email,
		Code:      v.Code,
		IpAddress: v.IPAddress,
		ExpiresAt: toMillis(v.ExpiresAt),
		CreatedAt: toMillis(v.CreatedAt),
	})
}

func (r *emailVerificationsRepo) CountByEmailSince(
	ctx context.Context,
	email string,
	since time.Time,
) (int, error) {
	count, err := r.q.CountEmailVerificationsByEmailSince(ctx, gen.CountEmailVerificationsByEmailSinceParams{
		Email:     email,
		CreatedAt: toMillis(since),
	})
	return int(count), err
}

func (r *emailVerificationsRepo) CountByIPSince(
	ctx context.Context,
	ip string,
	since time.Time,
) (int, error) {
	count, err := r.q.CountEmailVerificationsByIPSince(ctx, gen.CountEmailVerificationsByIPSinceParams{
		IpAddress: ip,
		CreatedAt: toMillis(since),
	})
	return int(count), err
}

func (r *emailVerificationsRepo) DeleteExpired(ctx context.Context, email string, now time.Time) error {
	return r.q.DeleteExpiredEmailVerifications(ctx, gen.DeleteExpiredEmailVerificationsParams{
		Email:     email,
		ExpiresAt: toMillis(now),
	})
}

func (r *emailVerificationsRepo) GetPending(
	ctx context.Context,
	email, code string,
	maxFailures int,
	now time.Time,
) (domain.EmailVerification, error) {
	row, err := r.q.GetPendingEmailVerification(ctx, gen.GetPendingEmailVerificationParams{
		Email:          email,
		Code:           code,
		ExpiresAt:      toMillis(now),
		FailedAttempts: int64(maxFailures),
	})
	if err != nil {
		return domain.EmailVerification{}, mapNotFound(err)
	}
	return mapEmailVerification(row), nil
}

func (r *emailVerificationsRepo) RecordFailure(ctx context.Context, email string, now time.Time) error {
	return r.q.RecordEmailVerificationFailure(ctx, gen.RecordEmailVerificationFailureParams{
		Email:     email,
		ExpiresAt: toMillis(now),
	})
}

func (r *emailVerificationsRepo) HasExpiredCode(
	ctx context.Context,
	email, code string,
	now time.Time,
) (bool, error) {
	count, err := r.q.CountExpiredEmailVerificationsByCode(ctx, gen.CountExpiredEmailVerificationsByCodeParams{
		Email:     email,
		Code:      code,
		ExpiresAt: toMillis(now),
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *emailVerificationsRepo) MarkVerified(
	ctx context.Context,
	id, tokenHash string,
	now time.Time,
) error {
	n, err := r.q.MarkEmailVerified(ctx, gen.MarkEmailVerifiedParams{
		VerificationTokenHash: mapStringNull(tokenHash),
		ID:                    id,
		ExpiresAt:             toMillis(now),
	})
	return mapRowsAffected(n, err)
}

func (r *emailVerificationsRepo) HasVerifiedToken(
	ctx context.Context,
	email, tokenHash string,
	now time.Time,
) (bool, error) {
	count, err := r.q.CountVerifiedEmailTokens(ctx, gen.CountVerifiedEmailTokensParams{
		Email:                 email,
		VerificationTokenHash: mapStringNull(tokenHash),
		ExpiresAt:             toMillis(now),
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *emailVerificationsRepo) ConsumeVerifiedToken(
	ctx context.Context,
	email, tokenHash string,
	now time.Time,
) error {
	_, err := consume(ctx, func(ctx context.Context) (string, error) {
		return r.q.ConsumeVerificationToken(ctx, gen.ConsumeVerificationTokenParams{
			Email:                 email,
			VerificationTokenHash: mapStringNull(tokenHash),
			ExpiresAt:             toMillis(now),
		})
	})
	return err
}

func (r *emailVerificationsRepo) DeleteByEmail(ctx context.Context, email string) error {
	return r.q.DeleteEmailVerifications(ctx, email)
}
