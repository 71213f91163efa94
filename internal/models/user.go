package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Email          string
	Username       string
	PhoneNumber    string
	Role           Role
	HashedPassword string
}

// Identity is the request-scoped result of access token validation.
// It lives in the request context for the duration of one request only.
type Identity struct {
	Email string
	Role  Role
}
