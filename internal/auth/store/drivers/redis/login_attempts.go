package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	"github.com/aussiebroadwan/inkwell/internal/auth/store"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "auth:login_failures:"

	// Keys outlive the lockout window so a burst of failures is still
	// visible, then expire on their own once the identifier goes quiet.
	keyTTL = time.Hour
)

// LoginAttempts keeps one sorted set per identifier. Members are attempt ids
// scored by their creation time in unix milliseconds.
type LoginAttempts struct {
	client *redis.Client
}

var _ store.LoginAttempts = (*LoginAttempts)(nil)

func NewLoginAttempts(client *redis.Client) *LoginAttempts {
	return &LoginAttempts{client: client}
}

func (s *LoginAttempts) RecordLoginFailure(ctx context.Context, a domain.LoginAttempt) error {
	key := keyPrefix + a.Identifier
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, key, redis.Z{
			Score:  float64(a.CreatedAt.UnixMilli()),
			Member: a.ID,
		})
		p.Expire(ctx, key, keyTTL)
		return nil
	})
	return err
}

func (s *LoginAttempts) CountLoginFailuresSince(
	ctx context.Context,
	identifier string,
	since time.Time,
) (int, error) {
	// Exclusive lower bound, matching created_at > since in SQL.
	minScore := "(" + strconv.FormatInt(since.UnixMilli(), 10)
	n, err := s.client.ZCount(ctx, keyPrefix+identifier, minScore, "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *LoginAttempts) DeleteLoginAttempts(ctx context.Context, identifier string) error {
	return s.client.Del(ctx, keyPrefix+identifier).Err()
}

func (s *LoginAttempts) DeleteLoginAttemptsBefore(
	ctx context.Context,
	identifier string,
	cutoff time.Time,
) error {
	maxScore := strconv.FormatInt(cutoff.UnixMilli(), 10)
	return s.client.ZRemRangeByScore(ctx, keyPrefix+identifier, "-inf", maxScore).Err()
}

// Ping reports whether Redis is reachable. Used by the readiness probe.
func (s *LoginAttempts) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
