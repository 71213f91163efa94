package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted server-side half of a session.
// Token is an opaque random identifier, not a JWT.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	Revoked   bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Valid reports whether the record may still be exchanged for a new pair.
func (t RefreshToken) Valid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

type IssuedToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair issued by the auth service: a signed access token and an
// opaque refresh token.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
