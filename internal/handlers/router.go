package handlers

import (
	"context"
	"net/http"

	"github.com/teoyou881/hc-fullstack-app/internal/handlers/middleware"
	"github.com/teoyou881/hc-fullstack-app/internal/logger"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
	"github.com/teoyou881/hc-fullstack-app/internal/service/product"
	"github.com/teoyou881/hc-fullstack-app/internal/service/user"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// PublicRoutes is the allow-list of the auth middleware: requests
// matching these rules are never asked for a token. The refresh and
// logout endpoints must stay public, expired sessions call them.
func PublicRoutes() []middleware.AllowRule {
	return []middleware.AllowRule{
		middleware.Allow(http.MethodGet, "/health"),
		middleware.Allow(http.MethodPost, "/login"),
		middleware.Allow(http.MethodPost, "/user"),
		middleware.Allow(http.MethodGet, "/product"),
		middleware.Allow("", "/auth/refresh"),
		middleware.Allow("", "/auth/logout"),
	}
}

func NewRouter(
	authService authService,
	userService userService,
	productService productService,
	log logger.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", handleHealth())

	mux.Handle("POST /login", handleLogin(authService, log))
	mux.Handle("POST /auth/refresh", handleTokenRefresh(authService, log))
	mux.Handle("POST /auth/logout", handleLogout(authService, log))

	mux.Handle("POST /user", handleRegister(userService, log))
	mux.Handle("GET /user/me", handleUserMe(userService, log))

	mux.Handle("GET /product", handleProductList(productService, log))
	mux.Handle("POST /admin/product",
		middleware.RequireRole(models.RoleManager)(handleProductCreate(productService, log)))

	return chain(mux,
		middleware.Logger(log),
		middleware.Auth(authService, PublicRoutes()),
	)
}

type authService interface {
	// Login verifies credentials and mints the first token pair.
	// Has to return apperrors.ErrAuthenticationFailed on bad credentials
	Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error)

	// Refresh rotates the pair; the presented token becomes unusable.
	// Has to return apperrors.ErrRefreshTokenInvalid for unknown, revoked
	// or expired tokens
	Refresh(ctx context.Context, refreshToken string) (models.User, models.TokenPair, error)

	// Logout revokes the refresh token; never fails for missing tokens
	Logout(ctx context.Context, refreshToken string) error

	// Cookie plumbing: the auth service owns cookie names and flags
	SetTokenPair(w http.ResponseWriter, pair models.TokenPair)
	ClearTokenPair(w http.ResponseWriter)
	ReadAccessToken(r *http.Request) (string, bool)
	ReadRefreshToken(r *http.Request) (string, bool)

	// Access token checks used by the auth middleware
	ValidateAccess(token string) error
	IdentityFromAccess(token string) (models.Identity, error)
}

type userService interface {
	// Register creates a user with the lowest role.
	// Has to return apperrors.ErrUserAlreadyExists if the email is taken
	Register(ctx context.Context, params user.RegisterParams) (models.User, error)

	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type productService interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, params product.CreateParams) (models.Product, error)
}
