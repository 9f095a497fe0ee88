package ratelimit

import (
	"context"
	"testing"
	"time"

	"gotest.tools/assert"

	"origiganics/api/internal/clock"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(3, 10*time.Minute).
		WithClock(clock.Func(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, "203.0.113.7")
		assert.Equal(t, nil, err)
		assert.Equal(t, true, result.Allowed)
		assert.Equal(t, 2-i, result.Remaining)
		now = now.Add(time.Minute)
	}

	// Fourth call inside the window is rejected with a retry hint.
	result, err := limiter.Check(ctx, "203.0.113.7")
	assert.Equal(t, ErrRateLimited, err)
	assert.Equal(t, false, result.Allowed)
	assert.Equal(t, 7*time.Minute, result.RetryAfter)

	// A different key has its own window.
	result, err = limiter.Check(ctx, "198.51.100.4")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, result.Allowed)

	// Once the window elapses the original key is allowed again.
	now = now.Add(7 * time.Minute)
	result, err = limiter.Check(ctx, "203.0.113.7")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, result.Allowed)
	assert.Equal(t, 2, result.Remaining)
}
