// filename: internal/common/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter ограничивает число запросов на ключ в скользящем окне // v1.0
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// slidingWindowScript атомарно чистит окно, считает и добавляет запрос
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window_start = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, 0, window_start)
local current = redis.call('ZCARD', key)
if current < limit then
	redis.call('ZADD', key, now, ARGV[5])
	redis.call('EXPIRE', key, ttl)
	return 1
end
return 0
`

// RedisLimiter реализует Limiter поверх Redis sorted set // v1.0
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter создает лимитер и проверяет соединение с Redis // v1.0
func NewRedisLimiter(ctx context.Context, client *redis.Client, limit int, window time.Duration) (*RedisLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if limit <= 0 || window <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d per %s", limit, window)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "honeydash:ratelimit:",
		now:    time.Now,
	}, nil
}

// Allow проверяет, укладывается ли очередной запрос в лимит // v1.0
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := r.now().UnixNano()
	windowStart := now - r.window.Nanoseconds()
	ttl := int64(r.window/time.Second) + 1

	result, err := r.client.Eval(ctx, slidingWindowScript, []string{r.prefix + key}, now, windowStart, r.limit, ttl, strconv.FormatInt(now, 10)).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return result == 1, nil
}

// Close закрывает соединение с Redis // v1.0
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}

// NoopLimiter пропускает все запросы
type NoopLimiter struct{}

// Allow всегда разрешает запрос
func (NoopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

// Close ничего не делает
func (NoopLimiter) Close() error { return nil }
