package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"origiganics/api/internal/clock"
)

// Entry is one outstanding verification code for an email address.
type Entry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CodeStore holds at most one Entry per email. Implementations must be
// safe for concurrent use; state is ephemeral and may be lost on
// restart.
type CodeStore interface {
	Put(ctx context.Context, email string, entry Entry) error
	Get(ctx context.Context, email string) (Entry, bool, error)
	Delete(ctx context.Context, email string) error
}

// MemoryStore prunes expired entries on every write, so codes from
// abandoned signups never pile up.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clock: clock.System(), entries: make(map[string]Entry)}
}

func (s *MemoryStore) WithClock(c clock.Clock) *MemoryStore {
	s.clock = c
	return s
}

func (s *MemoryStore) Put(_ context.Context, email string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	for k, e := range s.entries {
		if now.After(e.ExpiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[email] = entry
	return nil
}

// Get returns an expired entry once, so the caller can report the
// expiry, then evicts it.
func (s *MemoryStore) Get(_ context.Context, email string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[email]
	if ok && s.clock.Now().After(entry.ExpiresAt) {
		delete(s.entries, email)
	}
	return entry, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

// RedisStore shares verification codes across API instances. Keys carry
// a TTL slightly past the logical expiry so Redis handles cleanup.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(email string) string {
	return "verify:" + email
}

func (s *RedisStore) Put(ctx context.Context, email string, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	ttl := time.Until(entry.ExpiresAt) + time.Minute
	if err := s.client.Set(ctx, redisKey(email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (Entry, bool, error) {
	payload, err := s.client.Get(ctx, redisKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("load verification code: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return Entry{}, false, fmt.Errorf("unmarshal entry: %w", err)
	}
	return entry, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, redisKey(email)).Err()
}
