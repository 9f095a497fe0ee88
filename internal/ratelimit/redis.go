package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares windows across API instances. SETNX seeds the
// counter with the window TTL before the increment, so the key never
// exists without an expiry; INCR on an existing key leaves the TTL
// untouched, which gives fixed-window semantics.
type RedisLimiter struct {
	client   *redis.Client
	max      int
	interval time.Duration
	prefix   string
}

func NewRedisLimiter(client *redis.Client, max int, interval time.Duration, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		max:      max,
		interval: interval,
		prefix:   prefix,
	}
}

func (l *RedisLimiter) Check(ctx context.Context, key string) (Result, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	if err := l.client.SetNX(ctx, redisKey, 0, l.interval).Err(); err != nil {
		return Result{}, fmt.Errorf("seed window: %w", err)
	}
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("increment window: %w", err)
	}

	if count > int64(l.max) {
		ttl, err := l.client.PTTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.interval
		}
		return Result{RetryAfter: ttl}, ErrRateLimited
	}

	return Result{Allowed: true, Remaining: l.max - int(count)}, nil
}
