package middleware

import (
	"net/http"

	"github.com/teoyou881/hc-fullstack-app/internal/handlers/render"
	"github.com/teoyou881/hc-fullstack-app/internal/handlers/userctx"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

// RequireRole guards a handler behind a minimum role. Must run after
// Auth, which puts the identity into the request context. Roles compare
// by rank, so ROLE_ADMIN satisfies a ROLE_MANAGER requirement.
func RequireRole(required models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := userctx.FromContext(r.Context())
			if !ok {
				render.AuthError(w, "Authentication required", CodeAuthenticationRequired)
				return
			}

			if !identity.Role.AtLeast(required) {
				render.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
