// filename: internal/common/ratelimit/ratelimit_test.go
package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func TestRedisLimiter_Allow(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	limiter, err := NewRedisLimiter(ctx, client, 3, time.Minute)
	require.NoError(t, err)
	defer limiter.Close()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	limiter.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i)
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed, "other keys have their own window")
}

func TestRedisLimiter_WindowSlides(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	limiter, err := NewRedisLimiter(ctx, client, 1, time.Second)
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	allowed, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, allowed)

	now = now.Add(500 * time.Millisecond)
	allowed, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(2 * time.Second)
	allowed, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNewRedisLimiter_Invalid(t *testing.T) {
	ctx := context.Background()

	_, err := NewRedisLimiter(ctx, nil, 1, time.Second)
	assert.Error(t, err)

	_, client := setupTestRedis(t)
	_, err = NewRedisLimiter(ctx, client, 0, time.Second)
	assert.Error(t, err)
}

func TestNewRedisLimiter_Unreachable(t *testing.T) {
	mr, client := setupTestRedis(t)
	mr.Close()

	_, err := NewRedisLimiter(context.Background(), client, 1, time.Second)
	assert.Error(t, err)
}

func TestNoopLimiter(t *testing.T) {
	var l Limiter = NoopLimiter{}
	allowed, err := l.Allow(context.Background(), "any")
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.NoError(t, l.Close())
}
