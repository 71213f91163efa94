package user

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/teoyou881/hc-fullstack-app/internal/apperrors"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
	"github.com/teoyou881/hc-fullstack-app/internal/repository"
	"github.com/teoyou881/hc-fullstack-app/internal/repository/postgres"
	"github.com/teoyou881/hc-fullstack-app/internal/testutil"
)

func TestUserService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Helper function to create UserService within transaction
	inTx := func(t *testing.T, fn func(s *UserService, storage repository.Storage)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			userService, err := NewService(nil, storage)
			require.NoError(t, err)
			fn(userService, storage)
		})
	}

	params := RegisterParams{
		Email:       "user@example.com",
		Password:    "password123",
		Username:    "test-user",
		PhoneNumber: "+1-202-555-0100",
	}

	t.Run("Register", func(t *testing.T) {
		t.Run("register ok", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				user, err := s.Register(t.Context(), params)

				require.NoError(t, err, "registering new user should be ok")
				require.NotEmpty(t, user.ID, "user ID should not be empty")
				require.Equal(t, params.Email, user.Email)
				require.Equal(t, params.Username, user.Username)
				require.Equal(t, models.RoleUser, user.Role, "new users must get the lowest role")
				require.NotEmpty(t, user.HashedPassword, "password hash should not be empty")
				require.NotEqual(t, params.Password, user.HashedPassword, "password should be hashed")
				require.NotZero(t, user.CreatedAt, "created at should be set")
			})
		})

		t.Run("register duplicate email fail", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				_, err := s.Register(t.Context(), params)
				require.NoError(t, err, "first registration should succeed")

				again := params
				again.Username = "other-name"
				_, err = s.Register(t.Context(), again)

				require.Error(t, err, "registering the same email twice should fail")
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})
	})

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("authenticate ok", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				created, err := s.Register(t.Context(), params)
				require.NoError(t, err)

				user, err := s.Authenticate(t.Context(), params.Email, params.Password)

				require.NoError(t, err, "authenticating with correct credentials should succeed")
				require.Equal(t, created.ID, user.ID)
				require.Equal(t, created.Email, user.Email)
			})
		})

		t.Run("wrong password fail", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				_, err := s.Register(t.Context(), params)
				require.NoError(t, err)

				_, err = s.Authenticate(t.Context(), params.Email, "wrong-password")

				require.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
			})
		})

		t.Run("unknown email fail same way", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				_, err := s.Authenticate(t.Context(), "ghost@example.com", "password123")

				require.ErrorIs(t, err, apperrors.ErrAuthenticationFailed,
					"unknown email must be indistinguishable from a wrong password")
			})
		})

		t.Run("empty credentials fail", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				_, err := s.Authenticate(t.Context(), "", "")

				require.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
			})
		})
	})

	t.Run("GetByEmail", func(t *testing.T) {
		t.Run("existed ok", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				created, err := s.Register(t.Context(), params)
				require.NoError(t, err)

				user, err := s.GetByEmail(t.Context(), params.Email)

				require.NoError(t, err)
				require.Equal(t, created.ID, user.ID)
			})
		})

		t.Run("not existed fail", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				_, err := s.GetByEmail(t.Context(), "ghost@example.com")

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})
	})
}
