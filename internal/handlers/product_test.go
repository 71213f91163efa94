package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/teoyou881/hc-fullstack-app/internal/logger"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
	"github.com/teoyou881/hc-fullstack-app/internal/repository"
	"github.com/teoyou881/hc-fullstack-app/internal/repository/postgres"
	"github.com/teoyou881/hc-fullstack-app/internal/service/auth"
	"github.com/teoyou881/hc-fullstack-app/internal/service/auth/tokencodec"
	"github.com/teoyou881/hc-fullstack-app/internal/service/product"
	"github.com/teoyou881/hc-fullstack-app/internal/service/user"
	"github.com/teoyou881/hc-fullstack-app/internal/testutil"
)

// Same stack as runServer but keeps the storage handy so tests can
// seed users with elevated roles
func runServerWithStorage(tx pgx.Tx, t *testing.T, fn func(srvURL string, storage repository.Storage)) {
	t.Helper()

	storage := postgres.NewStorage(tx)

	codec, err := tokencodec.New(tokencodec.Config{SecretKey: "handlers-test-secret"})
	require.NoError(t, err)

	userService, err := user.NewService(nil, storage)
	require.NoError(t, err)

	productService, err := product.NewService(storage)
	require.NoError(t, err)

	authService, err := auth.NewService(auth.Config{}, codec, userService, storage)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(authService, userService, productService, logger.NewNoOp()))
	defer srv.Close()

	fn(srv.URL, storage)
}

// Users registered through the endpoint always get the lowest role,
// so elevated users are seeded straight into storage
func seedUserWithRole(t *testing.T, storage repository.Storage, role models.Role) (email string, password string) {
	t.Helper()

	password = "password123"
	hash, err := user.BcryptHasher{}.Hash(password)
	require.NoError(t, err)

	email = fmt.Sprintf("%s@example.com", uuid.NewString())
	_, err = storage.User().Create(t.Context(), models.User{
		ID:             uuid.New(),
		Email:          email,
		Username:       "seeded-user",
		Role:           role,
		HashedPassword: hash,
	})
	require.NoError(t, err)

	return email, password
}

func login(t *testing.T, srvURL string, email string, password string) []*http.Cookie {
	t.Helper()

	body := fmt.Sprintf(`{"email": %q, "password": %q}`, email, password)
	resp, respBody := doRequest(t, http.MethodPost, srvURL+"/login", body, nil)
	require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", respBody)

	return resp.Cookies()
}

func Test_ProductHandlers(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	createBody := `{"name": "Keyboard", "description": "Mechanical, loud", "priceCents": 12999}`

	t.Run("list is public", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			runServerWithStorage(tx, t, func(srvURL string, storage repository.Storage) {
				resp, body := doRequest(t, http.MethodGet, srvURL+"/product", "", nil)

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
				require.JSONEq(t, `{"products": []}`, body)
			})
		})
	})

	t.Run("create requires manager role", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			runServerWithStorage(tx, t, func(srvURL string, storage repository.Storage) {
				t.Run("anonymous unauthorized", func(t *testing.T) {
					resp, body := doRequest(t, http.MethodPost, srvURL+"/admin/product", createBody, nil)

					require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
				})

				t.Run("plain user forbidden", func(t *testing.T) {
					email, password := seedUserWithRole(t, storage, models.RoleUser)
					cookies := login(t, srvURL, email, password)

					resp, body := doRequest(t, http.MethodPost, srvURL+"/admin/product", createBody, cookies)

					require.Equalf(t, http.StatusForbidden, resp.StatusCode, "not expected code. Body: %s", body)
					require.JSONEq(t, `{"error": "Forbidden"}`, body)
				})

				t.Run("manager ok", func(t *testing.T) {
					email, password := seedUserWithRole(t, storage, models.RoleManager)
					cookies := login(t, srvURL, email, password)

					resp, body := doRequest(t, http.MethodPost, srvURL+"/admin/product", createBody, cookies)

					require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

					var created struct {
						Name       string `json:"name"`
						PriceCents int64  `json:"priceCents"`
					}
					require.NoError(t, json.Unmarshal([]byte(body), &created))
					require.Equal(t, "Keyboard", created.Name)
					require.Equal(t, int64(12999), created.PriceCents)

					resp, body = doRequest(t, http.MethodGet, srvURL+"/product", "", nil)
					require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
					require.Contains(t, body, "Keyboard", "created product must show up in the public listing")
				})

				t.Run("admin outranks manager", func(t *testing.T) {
					email, password := seedUserWithRole(t, storage, models.RoleAdmin)
					cookies := login(t, srvURL, email, password)

					resp, body := doRequest(t, http.MethodPost, srvURL+"/admin/product", createBody, cookies)

					require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
				})
			})
		})
	})

	t.Run("create validation", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			runServerWithStorage(tx, t, func(srvURL string, storage repository.Storage) {
				email, password := seedUserWithRole(t, storage, models.RoleManager)
				cookies := login(t, srvURL, email, password)

				resp, body := doRequest(t, http.MethodPost, srvURL+"/admin/product",
					`{"name": "", "priceCents": -1}`, cookies)

				require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
				require.Contains(t, body, "name")
				require.Contains(t, body, "priceCents")
			})
		})
	})
}
