package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/teoyou881/hc-fullstack-app/internal/apperrors"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const insertToken = `-- name: InsertToken
INSERT INTO refresh_tokens (id, user_id, token, revoked, created_at, expires_at)
VALUES ($1, $2, $3, false, $4, $5)
RETURNING id, user_id, token, revoked, created_at, expires_at
`

// Create revokes everything the user still holds and inserts the new
// record, keeping at most one valid token per user. Callers that need
// the revoke+insert to be atomic must run it inside Storage.InTx.
func (r *RefreshTokenRepo) Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	if err := r.RevokeAllForUser(ctx, token.UserID); err != nil {
		return models.RefreshToken{}, err
	}

	rows, _ := r.DB.Query(ctx, insertToken, token.ID, token.UserID, token.Token, token.CreatedAt, token.ExpiresAt)
	created, err := pgx.CollectOneRow(rows, rowToRefreshToken)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// Token strings are 128-bit random values; a collision here is
			// a generation bug, not an expected condition.
			return created, fmt.Errorf("refresh token collision: %w", err)
		}

		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const findValidToken = `-- name: FindValidToken
SELECT id, user_id, token, revoked, created_at, expires_at
FROM refresh_tokens
WHERE token = $1 AND NOT revoked AND expires_at > $2
FOR UPDATE
`

// FindValid returns the record only when it exists, is not revoked and
// is not expired. The row lock makes two concurrent rotations of the
// same token serialize: the loser re-evaluates the predicate after the
// winner commits its revoke, sees no row and gets ErrRefreshTokenInvalid.
func (r *RefreshTokenRepo) FindValid(ctx context.Context, tokenString string, now time.Time) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, findValidToken, tokenString, now)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, apperrors.ErrRefreshTokenInvalid
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const revokeToken = `-- name: RevokeToken
UPDATE refresh_tokens
SET revoked = true
WHERE token = $1 AND NOT revoked
`

// Revoke is one-way and idempotent. Unknown and already revoked tokens
// are a no-op, not an error.
func (r *RefreshTokenRepo) Revoke(ctx context.Context, tokenString string) error {
	_, err := r.DB.Exec(ctx, revokeToken, tokenString)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const revokeAllForUser = `-- name: RevokeAllForUser
UPDATE refresh_tokens
SET revoked = true
WHERE user_id = $1 AND NOT revoked
`

func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, revokeAllForUser, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const pruneExpired = `-- name: PruneExpired
DELETE FROM refresh_tokens
WHERE expires_at < $1
`

// PruneExpired removes records that can never validate again. Revoked
// but unexpired records are kept untouched.
func (r *RefreshTokenRepo) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, pruneExpired, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected(), nil
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.Revoked, &t.CreatedAt, &t.ExpiresAt)
	return t, err
}
