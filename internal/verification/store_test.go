package verification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"gotest.tools/assert"

	"origiganics/api/internal/clock"
)

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := Entry{Code: "111111", ExpiresAt: time.Now().Add(time.Minute)}
	second := Entry{Code: "222222", ExpiresAt: time.Now().Add(2 * time.Minute)}

	assert.Equal(t, nil, store.Put(ctx, "jane@example.com", first))
	assert.Equal(t, nil, store.Put(ctx, "jane@example.com", second))

	entry, ok, err := store.Get(ctx, "jane@example.com")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, "222222", entry.Code)

	assert.Equal(t, nil, store.Delete(ctx, "jane@example.com"))
	_, ok, err = store.Get(ctx, "jane@example.com")
	assert.Equal(t, nil, err)
	assert.Equal(t, false, ok)
}

func TestMemoryStorePrunesExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithClock(clock.Func(func() time.Time { return now }))

	assert.Equal(t, nil, store.Put(ctx, "stale@example.com", Entry{Code: "111111", ExpiresAt: now.Add(10 * time.Minute)}))
	assert.Equal(t, nil, store.Put(ctx, "fresh@example.com", Entry{Code: "222222", ExpiresAt: now.Add(30 * time.Minute)}))

	now = now.Add(11 * time.Minute)

	// Any write sweeps entries whose expiry has passed.
	assert.Equal(t, nil, store.Put(ctx, "newest@example.com", Entry{Code: "333333", ExpiresAt: now.Add(10 * time.Minute)}))

	store.mu.Lock()
	_, staleKept := store.entries["stale@example.com"]
	_, freshKept := store.entries["fresh@example.com"]
	store.mu.Unlock()
	assert.Equal(t, false, staleKept)
	assert.Equal(t, true, freshKept)
}

func TestMemoryStoreEvictsExpiredOnGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithClock(clock.Func(func() time.Time { return now }))

	assert.Equal(t, nil, store.Put(ctx, "jane@example.com", Entry{Code: "111111", ExpiresAt: now.Add(10 * time.Minute)}))
	now = now.Add(11 * time.Minute)

	// The expired entry is handed back once, then gone.
	entry, ok, err := store.Get(ctx, "jane@example.com")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, "111111", entry.Code)

	_, ok, err = store.Get(ctx, "jane@example.com")
	assert.Equal(t, nil, err)
	assert.Equal(t, false, ok)
}

func TestRedisStoreGetAndDelete(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	entry := Entry{Code: "654321", ExpiresAt: time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC)}
	payload, err := json.Marshal(entry)
	assert.Equal(t, nil, err)

	mock.ExpectGet("verify:jane@example.com").SetVal(string(payload))
	got, ok, err := store.Get(ctx, "jane@example.com")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, "654321", got.Code)

	mock.ExpectGet("verify:nobody@example.com").RedisNil()
	_, ok, err = store.Get(ctx, "nobody@example.com")
	assert.Equal(t, nil, err)
	assert.Equal(t, false, ok)

	mock.ExpectDel("verify:jane@example.com").SetVal(1)
	assert.Equal(t, nil, store.Delete(ctx, "jane@example.com"))

	assert.Equal(t, nil, mock.ExpectationsWereMet())
}
