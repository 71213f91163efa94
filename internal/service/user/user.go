package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/teoyou881/hc-fullstack-app/internal/apperrors"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
	"github.com/teoyou881/hc-fullstack-app/internal/repository"
)

// UserService owns user records and verifies credentials. It is the
// authenticator collaborator of the auth service: the token machinery
// never sees a password or a hash.
type UserService struct {
	hasher  PasswordHasher
	storage repository.Storage
}

func NewService(hasher PasswordHasher, storage repository.Storage) (*UserService, error) {
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
	}, nil
}

type RegisterParams struct {
	Email       string
	Password    string
	Username    string
	PhoneNumber string
}

// Register creates a user with the lowest role.
// Returns apperrors.ErrUserAlreadyExists if the email is taken.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (models.User, error) {
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.storage.User().Create(ctx, models.User{
		ID:             uuid.New(),
		Email:          params.Email,
		Username:       params.Username,
		PhoneNumber:    params.PhoneNumber,
		Role:           models.RoleUser,
		HashedPassword: hash,
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Authenticate verifies email+password and returns the user.
// Unknown email and wrong password are the same outcome,
// apperrors.ErrAuthenticationFailed, so callers can't probe for accounts.
// Empty credentials fall through to the same comparison and fail there.
func (s *UserService) Authenticate(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.storage.User().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Burn a comparison anyway to keep timing close to the found case
			_ = s.hasher.Compare(dummyHash, password)
			return models.User{}, apperrors.ErrAuthenticationFailed
		}

		return models.User{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, apperrors.ErrAuthenticationFailed
	}

	return user, nil
}

// GetByEmail returns the user's stored profile
func (s *UserService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.storage.User().GetByEmail(ctx, email)
}

// bcrypt hash of an unguessable throwaway value, compared against when
// the email is unknown
var dummyHash = func() string {
	h, err := BcryptHasher{}.Hash(uuid.NewString())
	if err != nil {
		panic(err)
	}
	return h
}()
