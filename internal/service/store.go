package service

import (
	"context"
	"time"

	"origiganics/api/internal/models"
)

// UserStore is the persistence surface the auth subsystem needs. The
// pgx-backed repository satisfies it; tests substitute an in-memory
// implementation.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	MarkEmailVerified(ctx context.Context, email string) error
	SetResetToken(ctx context.Context, id string, tokenHash []byte, expires time.Time) error
	FindByResetTokenHash(ctx context.Context, tokenHash []byte) (models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	UpdateAddresses(ctx context.Context, id string, addresses []models.Address) error
	AddToWishlist(ctx context.Context, id string, productID string) error
	RemoveFromWishlist(ctx context.Context, id string, productID string) error
	ListCustomers(ctx context.Context, limit int, offset int) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}
