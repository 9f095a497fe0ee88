package verification

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gotest.tools/assert"

	"origiganics/api/internal/clock"
)

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(to string, subject string, body string) error {
	f.sent = append(f.sent, to)
	return nil
}

type fakeVerifier struct {
	verified []string
}

func (f *fakeVerifier) MarkEmailVerified(_ context.Context, email string) error {
	f.verified = append(f.verified, email)
	return nil
}

func newTestService(now *time.Time) (*Service, *MemoryStore, *fakeSender, *fakeVerifier) {
	tick := clock.Func(func() time.Time { return *now })
	store := NewMemoryStore().WithClock(tick)
	sender := &fakeSender{}
	verifier := &fakeVerifier{}
	svc := NewService(store, verifier, sender, 10*time.Minute, zerolog.Nop()).
		WithClock(tick)
	return svc, store, sender, verifier
}

func TestVerifySucceedsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, sender, verifier := newTestService(&now)

	assert.Equal(t, nil, svc.Issue(ctx, "jane@example.com"))
	assert.Equal(t, 1, len(sender.sent))

	entry, ok, err := store.Get(ctx, "jane@example.com")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)

	assert.Equal(t, nil, svc.Verify(ctx, "jane@example.com", entry.Code))
	assert.DeepEqual(t, []string{"jane@example.com"}, verifier.verified)

	// The code is consumed; replaying it fails.
	assert.Equal(t, ErrCodeNotFound, svc.Verify(ctx, "jane@example.com", entry.Code))
}

func TestVerifyExpiredCode(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _, verifier := newTestService(&now)

	assert.Equal(t, nil, svc.Issue(ctx, "jane@example.com"))
	entry, _, _ := store.Get(ctx, "jane@example.com")

	now = now.Add(10*time.Minute + time.Second)

	// Correctness of the code is irrelevant once expired.
	assert.Equal(t, ErrCodeExpired, svc.Verify(ctx, "jane@example.com", entry.Code))
	assert.Equal(t, 0, len(verifier.verified))
}

func TestVerifyMismatchedCode(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _, _ := newTestService(&now)

	assert.Equal(t, nil, svc.Issue(ctx, "jane@example.com"))
	entry, _, _ := store.Get(ctx, "jane@example.com")

	wrong := "000000"
	if entry.Code == wrong {
		wrong = "999999"
	}
	assert.Equal(t, ErrCodeMismatch, svc.Verify(ctx, "jane@example.com", wrong))

	// The entry survives a mismatch; the right code still works.
	assert.Equal(t, nil, svc.Verify(ctx, "jane@example.com", entry.Code))
}

func TestVerifyUnknownEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(&now)

	assert.Equal(t, ErrCodeNotFound, svc.Verify(ctx, "nobody@example.com", "123456"))
}

func TestResendInvalidatesPreviousCode(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, sender, _ := newTestService(&now)

	assert.Equal(t, nil, svc.Issue(ctx, "jane@example.com"))
	oldEntry, _, _ := store.Get(ctx, "jane@example.com")

	now = now.Add(5 * time.Minute)
	assert.Equal(t, nil, svc.Resend(ctx, "jane@example.com"))
	assert.Equal(t, 2, len(sender.sent))

	newEntry, _, _ := store.Get(ctx, "jane@example.com")
	assert.Assert(t, newEntry.ExpiresAt.After(oldEntry.ExpiresAt))

	if oldEntry.Code != newEntry.Code {
		assert.Equal(t, ErrCodeMismatch, svc.Verify(ctx, "jane@example.com", oldEntry.Code))
	}
	assert.Equal(t, nil, svc.Verify(ctx, "jane@example.com", newEntry.Code))
}

func TestResendWithoutActiveCode(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(&now)

	assert.Equal(t, ErrCodeNotFound, svc.Resend(ctx, "jane@example.com"))
}

func TestResendAfterExpiryRequiresNewSignup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestService(&now)

	assert.Equal(t, nil, svc.Issue(ctx, "jane@example.com"))
	now = now.Add(11 * time.Minute)

	assert.Equal(t, ErrCodeNotFound, svc.Resend(ctx, "jane@example.com"))
}
