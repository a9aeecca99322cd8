package counter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PayLedger/internal/pkg/env"
)

const isolatedCounterTestRedisDB = 14

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := fmt.Sprintf("%s:%s", env.GetEnv("CACHE_HOST", "localhost"), env.GetEnv("CACHE_PORT", "6379"))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       isolatedCounterTestRedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNotificationOutcomes(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	require.NoError(t, client.Del(ctx, notificationOutcomesKey).Err())
	t.Cleanup(func() { client.Del(context.Background(), notificationOutcomesKey) })

	c := New(client)
	require.NoError(t, c.AddNotificationOutcome(ctx, "success"))
	require.NoError(t, c.AddNotificationOutcome(ctx, "success"))
	require.NoError(t, c.AddNotificationOutcome(ctx, "invalid_signature"))

	got, err := c.NotificationOutcomes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"success": 2, "invalid_signature": 1}, got)
}

func TestNilCounterIsNoop(t *testing.T) {
	var c *Counter
	assert.NoError(t, c.AddNotificationOutcome(context.Background(), "success"))

	got, err := New(nil).NotificationOutcomes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
