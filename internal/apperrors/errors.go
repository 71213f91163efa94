package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Bad credentials at login. Deliberately carries no detail about
	// whether the email exists.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// Access token failures. Expired means the signature checked out but
	// the token is past its expiry; malformed covers everything else
	// (bad signature, garbage structure, wrong algorithm).
	ErrTokenExpired   = errors.New("access token is expired")
	ErrTokenMalformed = errors.New("access token is malformed or tampered")

	// Refresh token unknown, revoked or expired. Callers never learn which.
	ErrRefreshTokenInvalid = errors.New("refresh token is invalid")
)
