package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/teoyou881/hc-fullstack-app/internal/apperrors"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (id, email, username, phone_number, role, password_hash)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, email, username, phone_number, role, password_hash
`

func (r *UserRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, user.ID, user.Email, user.Username, user.PhoneNumber, user.Role, user.HashedPassword)
	created, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return created, apperrors.ErrUserAlreadyExists
		}

		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, email, username, phone_number, role, password_hash
FROM users
WHERE id = $1
`

func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT id, created_at, email, username, phone_number, role, password_hash
FROM users
WHERE email = $1
`

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Email, &u.Username, &u.PhoneNumber, &u.Role, &u.HashedPassword)
	return u, err
}
