package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/teoyou881/hc-fullstack-app/internal/apperrors"
	"github.com/teoyou881/hc-fullstack-app/internal/handlers/render"
	"github.com/teoyou881/hc-fullstack-app/internal/handlers/userctx"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

// Rejection codes returned with 401 so the client knows whether a
// refresh call or a fresh login will resolve the failure.
const (
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodeTokenRefreshRequired   = "TOKEN_REFRESH_REQUIRED"
	CodeTokenInvalid           = "TOKEN_INVALID"
)

type authService interface {
	ReadAccessToken(r *http.Request) (string, bool)
	ReadRefreshToken(r *http.Request) (string, bool)
	ValidateAccess(token string) error
	IdentityFromAccess(token string) (models.Identity, error)
}

// AllowRule marks a path as public. Empty method matches every method.
type AllowRule struct {
	Method string
	Prefix string
}

func Allow(method string, prefix string) AllowRule {
	return AllowRule{Method: method, Prefix: prefix}
}

func (rule AllowRule) matches(r *http.Request) bool {
	if rule.Method != "" && rule.Method != r.Method {
		return false
	}

	path := r.URL.Path
	return path == rule.Prefix || strings.HasPrefix(path, rule.Prefix+"/")
}

// Auth authenticates every request before it reaches application
// handlers. Allow-listed paths pass through untouched. Everything else
// must present a valid access token cookie; the request context then
// carries the token's identity.
//
// The middleware is read-only: it never touches the refresh token
// store and never rotates anything itself. An expired-but-authentic
// token gets TOKEN_REFRESH_REQUIRED so the client calls the refresh
// endpoint; a malformed or tampered token gets TOKEN_INVALID with no
// refresh suggestion. Rejections are side-effect free and retry-safe.
func Auth(svc authService, allowed []AllowRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, rule := range allowed {
				if rule.matches(r) {
					next.ServeHTTP(w, r)
					return
				}
			}

			access, hasAccess := svc.ReadAccessToken(r)
			_, hasRefresh := svc.ReadRefreshToken(r)

			if !hasAccess {
				rejectMissingOrExpired(w, hasRefresh)
				return
			}

			err := svc.ValidateAccess(access)
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				rejectMissingOrExpired(w, hasRefresh)
				return
			case err != nil:
				render.AuthError(w, "Invalid token", CodeTokenInvalid)
				return
			}

			identity, err := svc.IdentityFromAccess(access)
			if err != nil {
				render.AuthError(w, "Invalid token", CodeTokenInvalid)
				return
			}

			ctx := userctx.New(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rejectMissingOrExpired points the client at the refresh endpoint only
// when a refresh cookie is present; otherwise a full login is needed.
func rejectMissingOrExpired(w http.ResponseWriter, hasRefresh bool) {
	if hasRefresh {
		render.AuthError(w, "Token expired", CodeTokenRefreshRequired)
		return
	}

	render.AuthError(w, "Authentication required", CodeAuthenticationRequired)
}
