package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/outfitplanner/backend/internal/domain"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestRedisCache_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	cache, err := NewRedisCache(ctx, startRedis(t))
	require.NoError(t, err)
	defer cache.Close()

	t.Run("miss on unknown fingerprint", func(t *testing.T) {
		_, err := cache.Get(ctx, "unknown")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("set then get round trip", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "fp-roundtrip", sampleListings(), time.Minute))

		got, err := cache.Get(ctx, "fp-roundtrip")
		require.NoError(t, err)
		assert.Equal(t, sampleListings(), got)
	})

	t.Run("expired by logical clock", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "fp-expired", sampleListings(), time.Minute))

		cache.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		defer func() { cache.now = time.Now }()

		_, err := cache.Get(ctx, "fp-expired")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("corrupt payload is a miss", func(t *testing.T) {
		require.NoError(t, cache.client.Set(ctx, redisKeyPrefix+"fp-corrupt", "{not json", time.Minute).Err())

		_, err := cache.Get(ctx, "fp-corrupt")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "fp-delete", sampleListings(), time.Minute))
		require.NoError(t, cache.Delete(ctx, "fp-delete"))

		_, err := cache.Get(ctx, "fp-delete")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url://")
	assert.Error(t, err)
}
