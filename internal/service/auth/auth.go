package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teoyou881/hc-fullstack-app/internal/models"
	"github.com/teoyou881/hc-fullstack-app/internal/repository"
	"github.com/teoyou881/hc-fullstack-app/internal/service/auth/tokencodec"
)

const (
	defaultAccessTokenTTL  = time.Hour
	defaultRefreshTokenTTL = 7 * 24 * time.Hour

	defaultAccessCookieName  = "Authorization"
	defaultRefreshCookieName = "RefreshToken"

	// 128-bit opaque refresh token
	refreshTokenBytesLen = 16
)

// Authenticator verifies credentials and returns the verified user.
// Must return apperrors.ErrAuthenticationFailed on bad credentials.
// Credential storage and password hashing live behind this boundary.
type Authenticator interface {
	Authenticate(ctx context.Context, email string, password string) (models.User, error)
}

type Config struct {
	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Cookie names the token pair travels in
	// If not set than default is used
	AccessCookieName  string
	RefreshCookieName string
}

// AuthService orchestrates the token codec and the refresh token store:
// it issues pairs on login, rotates them on refresh and revokes on logout.
type AuthService struct {
	codec         *tokencodec.Codec
	authenticator Authenticator
	storage       repository.Storage

	accessTTL  time.Duration
	refreshTTL time.Duration

	accessCookieName  string
	refreshCookieName string
}

func NewService(cfg Config, codec *tokencodec.Codec, authenticator Authenticator, storage repository.Storage) (*AuthService, error) {
	if codec == nil {
		return nil, errors.New("token codec must not be nil")
	}
	if authenticator == nil {
		return nil, errors.New("authenticator must not be nil")
	}
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTokenTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTokenTTL, defaultRefreshTokenTTL)

	setDefaultString := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefaultString(&cfg.AccessCookieName, defaultAccessCookieName)
	setDefaultString(&cfg.RefreshCookieName, defaultRefreshCookieName)

	return &AuthService{
		codec:             codec,
		authenticator:     authenticator,
		storage:           storage,
		accessTTL:         cfg.AccessTokenTTL,
		refreshTTL:        cfg.RefreshTokenTTL,
		accessCookieName:  cfg.AccessCookieName,
		refreshCookieName: cfg.RefreshCookieName,
	}, nil
}

// Login verifies credentials through the authenticator and mints the
// first token pair of the session. Any refresh token the user still
// held is revoked: one active session per user.
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	var pair models.TokenPair
	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		pair, err = s.issuePair(ctx, st, user)
		return err
	})
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Refresh exchanges a still-valid refresh token for a fresh pair and
// revokes the presented token. Everything runs in one transaction: the
// row lock taken by FindValid serializes concurrent rotations of the
// same token, so exactly one caller wins and the rest get
// apperrors.ErrRefreshTokenInvalid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (models.User, models.TokenPair, error) {
	var user models.User
	var pair models.TokenPair

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		record, err := st.Refresh().FindValid(ctx, refreshToken, time.Now())
		if err != nil {
			return err
		}

		user, err = st.User().GetByID(ctx, record.UserID)
		if err != nil {
			return err
		}

		pair, err = s.issuePair(ctx, st, user)
		return err
	})
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Logout revokes the refresh token. Unknown, expired and already
// revoked tokens succeed silently: an already-logged-out client must
// never see an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	return s.storage.Refresh().Revoke(ctx, refreshToken)
}

// RevokeAllForUser force-ends the user's session everywhere
func (s *AuthService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.storage.Refresh().RevokeAllForUser(ctx, userID)
}

// PruneExpired deletes refresh records that expired before now
func (s *AuthService) PruneExpired(ctx context.Context) (int64, error) {
	return s.storage.Refresh().PruneExpired(ctx, time.Now())
}

// ValidateAccess verifies the signature and expiry of an access token
func (s *AuthService) ValidateAccess(token string) error {
	return s.codec.Validate(token)
}

// IdentityFromAccess returns the identity carried by a valid access token
func (s *AuthService) IdentityFromAccess(token string) (models.Identity, error) {
	claims, err := s.codec.ExtractClaims(token, false)
	if err != nil {
		return models.Identity{}, err
	}

	return models.Identity{Email: claims.Email, Role: claims.Role}, nil
}

// issuePair mints a new access token and replaces the user's refresh
// record. Callers supply the transaction-bound storage.
func (s *AuthService) issuePair(ctx context.Context, st repository.Storage, user models.User) (models.TokenPair, error) {
	access, err := s.codec.Issue(user.Email, user.Role, s.accessTTL)
	if err != nil {
		return models.TokenPair{}, err
	}

	opaque, err := generateOpaqueToken()
	if err != nil {
		return models.TokenPair{}, err
	}

	now := time.Now().Truncate(time.Second)
	record, err := st.Refresh().Create(ctx, models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     opaque,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
	})
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{
		Access:  access,
		Refresh: models.IssuedToken{Value: record.Token, IssuedAt: record.CreatedAt, ExpiresAt: record.ExpiresAt},
	}, nil
}

func generateOpaqueToken() (string, error) {
	b := make([]byte, refreshTokenBytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while generating refresh token. Err: %w", err)
	}

	return hex.EncodeToString(b), nil
}
