package verification

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"origiganics/api/internal/clock"
	"origiganics/api/internal/mail"
	"origiganics/api/internal/security"
)

var (
	ErrCodeNotFound = errors.New("no active verification code")
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeMismatch = errors.New("verification code mismatch")
)

// UserVerifier is the persistence hook invoked once a code checks out.
type UserVerifier interface {
	MarkEmailVerified(ctx context.Context, email string) error
}

// Service manages the signup email-verification flow: one outstanding
// 6-digit code per email, valid for a bounded window, single use.
type Service struct {
	store  CodeStore
	users  UserVerifier
	sender mail.Sender
	clock  clock.Clock
	ttl    time.Duration
	log    zerolog.Logger
}

func NewService(store CodeStore, users UserVerifier, sender mail.Sender, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		users:  users,
		sender: sender,
		clock:  clock.System(),
		ttl:    ttl,
		log:    log,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

// Issue generates a fresh code for the email, overwriting any prior
// entry, and sends it via the mail collaborator.
func (s *Service) Issue(ctx context.Context, email string) error {
	code, err := security.GenerateVerificationCode()
	if err != nil {
		return err
	}

	entry := Entry{
		Code:      code,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}
	if err := s.store.Put(ctx, email, entry); err != nil {
		return err
	}

	if err := s.sender.Send(email, "Verify your email", mail.VerificationCodeBody(code)); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("verification mail failed")
		return err
	}
	return nil
}

// Resend regenerates the code for an email that still has an unexpired
// entry. Once the entry is gone or expired the signup must be repeated.
func (s *Service) Resend(ctx context.Context, email string) error {
	entry, ok, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}
	if !ok || s.clock.Now().After(entry.ExpiresAt) {
		return ErrCodeNotFound
	}

	return s.Issue(ctx, email)
}

// Verify checks the submitted code and, on success, marks the user
// verified and consumes the entry.
func (s *Service) Verify(ctx context.Context, email string, code string) error {
	entry, ok, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCodeNotFound
	}
	if s.clock.Now().After(entry.ExpiresAt) {
		return ErrCodeExpired
	}
	if entry.Code != code {
		return ErrCodeMismatch
	}

	if err := s.users.MarkEmailVerified(ctx, email); err != nil {
		return err
	}
	return s.store.Delete(ctx, email)
}
