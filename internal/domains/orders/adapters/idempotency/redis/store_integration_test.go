//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/ports"
)

func setupRedisContainer(t *testing.T) (string, func()) {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	return endpoint, func() { _ = container.Terminate(ctx) }
}

func TestStore_ReserveAgainstRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	addr, cleanup := setupRedisContainer(t)
	defer cleanup()

	ctx := context.Background()
	client, err := Connect(ctx, addr)
	require.NoError(t, err)
	defer client.Close()

	store := NewStore(client, "orders-test", time.Minute)

	first, err := store.Reserve(ctx, ports.IdempotencyRecord{Key: "pay_1", RequestHash: "h1", OrderID: 10})
	require.NoError(t, err)
	require.Equal(t, int64(10), first.OrderID)

	replay, err := store.Reserve(ctx, ports.IdempotencyRecord{Key: "pay_1", RequestHash: "h1", OrderID: 11})
	require.NoError(t, err)
	require.Equal(t, int64(10), replay.OrderID)

	_, err = store.Reserve(ctx, ports.IdempotencyRecord{Key: "pay_1", RequestHash: "h2", OrderID: 12})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	require.NoError(t, store.Release(ctx, "pay_1", 11))
	held, err := store.Reserve(ctx, ports.IdempotencyRecord{Key: "pay_1", RequestHash: "h1", OrderID: 13})
	require.NoError(t, err)
	require.Equal(t, int64(10), held.OrderID)
	require.False(t, held.Completed)

	require.NoError(t, store.Complete(ctx, "pay_1", 10))
	done, err := store.Reserve(ctx, ports.IdempotencyRecord{Key: "pay_1", RequestHash: "h1", OrderID: 13})
	require.NoError(t, err)
	require.True(t, done.Completed)

	require.NoError(t, store.Release(ctx, "pay_1", 10))
	fresh, err := store.Reserve(ctx, ports.IdempotencyRecord{Key: "pay_1", RequestHash: "h2", OrderID: 12})
	require.NoError(t, err)
	require.Equal(t, int64(12), fresh.OrderID)
}
