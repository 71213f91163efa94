package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

// Storage aggregates all repositories over a single database handle.
// InTx runs fn against a Storage bound to one transaction; rotation
// relies on it to make "find valid, revoke all, insert new" atomic.
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Product() ProductRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}

// User repository interface
type UserRepo interface {
	// Create user
	// If a user with the same email exists must return apperrors.ErrUserAlreadyExists
	Create(ctx context.Context, user models.User) (models.User, error)

	// Get user by its id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

// RefreshToken repository interface
// Refresh token records are owned by this repository exclusively;
// nothing else mutates them.
type RefreshTokenRepo interface {
	// Create persists a new token record after revoking every record the
	// user still holds, keeping at most one valid record per user.
	// Run it inside Storage.InTx when the revoke+insert must be atomic.
	Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// FindValid returns the record iff it exists, is not revoked and not
	// expired at now. Unknown, revoked and expired are one outcome:
	// apperrors.ErrRefreshTokenInvalid. Inside a transaction the row is
	// locked so concurrent rotations of the same token serialize.
	FindValid(ctx context.Context, tokenString string, now time.Time) (models.RefreshToken, error)

	// Revoke sets the revoked flag. One-way and idempotent; unknown or
	// already revoked tokens are a no-op.
	Revoke(ctx context.Context, tokenString string) error

	// RevokeAllForUser revokes every token the user holds. Idempotent.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error

	// PruneExpired deletes records that expired before now and returns
	// how many were removed. Safe to run concurrently with everything
	// else: it only touches records that are already unusable.
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// Product repository interface
type ProductRepo interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}
