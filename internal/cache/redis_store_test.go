//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"cfbpoll/rankings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests against a local Redis
// Run with: go test -v -tags=integration ./internal/cache/...

func setupTestRedis(t *testing.T) (*RedisStore, context.Context) {
	ctx := context.Background()

	store, err := NewRedisStore(ctx, Config{
		Host:   "localhost",
		Port:   "6379",
		DB:     15,
		Prefix: "cfbpoll_test:",
	})
	require.NoError(t, err, "Failed to connect to test redis")

	return store, ctx
}

func TestRedisStore_CacheRoundTrip(t *testing.T) {
	store, ctx := setupTestRedis(t)
	defer store.Close()

	c := New(store, "redis-test")
	require.NoError(t, Set(ctx, c, "rankings:2023:15", sampleRankings(), time.Now().Add(time.Minute)))

	got, found, err := Get[*models.RankingsResult](ctx, c, "rankings:2023:15")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleRankings(), got)

	removed, err := c.Remove(ctx, "rankings:2023:15")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestRedisStore_PastExpiryIsGone(t *testing.T) {
	store, ctx := setupTestRedis(t)
	defer store.Close()

	c := New(store, "redis-test")
	require.NoError(t, Set(ctx, c, "expired", "value", time.Now().Add(-time.Minute)))

	_, found, err := Get[string](ctx, c, "expired")
	require.NoError(t, err)
	assert.False(t, found)
}
