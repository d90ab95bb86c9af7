package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/inkwell/internal/auth/domain"
	authredis "github.com/aussiebroadwan/inkwell/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/inkwell/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestLoginAttempts(t *testing.T) {
	ctx := context.Background()

	client, err := authredis.Connect(ctx, setupRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	attempts := authredis.NewLoginAttempts(client)
	require.NoError(t, attempts.Ping(ctx))

	now := time.Now().UTC()
	for i := range 3 {
		require.NoError(t, attempts.RecordLoginFailure(ctx, domain.LoginAttempt{
			ID:         idx.New().String(),
			Identifier: "alice",
			IPAddress:  "10.0.0.1",
			CreatedAt:  now.Add(time.Duration(-i*10) * time.Minute),
		}))
	}

	t.Run("counts only failures inside the window", func(t *testing.T) {
		n, err := attempts.CountLoginFailuresSince(ctx, "alice", now.Add(-15*time.Minute))
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})

	t.Run("prunes old failures", func(t *testing.T) {
		require.NoError(t, attempts.DeleteLoginAttemptsBefore(ctx, "alice", now.Add(-15*time.Minute)))
		n, err := attempts.CountLoginFailuresSince(ctx, "alice", now.Add(-time.Hour))
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})

	t.Run("clear removes everything", func(t *testing.T) {
		require.NoError(t, attempts.DeleteLoginAttempts(ctx, "alice"))
		n, err := attempts.CountLoginFailuresSince(ctx, "alice", now.Add(-time.Hour))
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("unknown identifier counts zero", func(t *testing.T) {
		n, err := attempts.CountLoginFailuresSince(ctx, "nobody", now.Add(-time.Hour))
		require.NoError(t, err)
		require.Zero(t, n)
	})
}
