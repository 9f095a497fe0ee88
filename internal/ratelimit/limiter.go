// Package ratelimit implements a fixed-window request counter keyed by
// client identity. Windows are ephemeral; losing them on restart only
// resets the count.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"origiganics/api/internal/clock"
)

var ErrRateLimited = errors.New("rate limited")

// Result reports the outcome of a Check. RetryAfter is populated only
// when the request was rejected.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Check(ctx context.Context, key string) (Result, error)
}

type window struct {
	count int
	start time.Time
}

// MemoryLimiter serializes access with a mutex; a fresh window starts
// on the first request or once the previous window has elapsed.
type MemoryLimiter struct {
	max      int
	interval time.Duration
	clock    clock.Clock

	mu      sync.Mutex
	windows map[string]*window
}

func NewMemoryLimiter(max int, interval time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:      max,
		interval: interval,
		clock:    clock.System(),
		windows:  make(map[string]*window),
	}
}

func (l *MemoryLimiter) WithClock(c clock.Clock) *MemoryLimiter {
	l.clock = c
	return l
}

func (l *MemoryLimiter) Check(_ context.Context, key string) (Result, error) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.interval {
		l.windows[key] = &window{count: 1, start: now}
		return Result{Allowed: true, Remaining: l.max - 1}, nil
	}

	if w.count >= l.max {
		return Result{
			RetryAfter: w.start.Add(l.interval).Sub(now),
		}, ErrRateLimited
	}

	w.count++
	return Result{Allowed: true, Remaining: l.max - w.count}, nil
}
