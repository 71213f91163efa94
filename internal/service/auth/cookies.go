package auth

import (
	"net/http"

	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

// Cookie handling for the token pair. The auth service owns the cookie
// names so issuing and reading can never drift apart.

// SetTokenPair writes both tokens as HttpOnly Secure cookies.
// Max-Age is the token lifetime in whole seconds.
func (s *AuthService) SetTokenPair(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.accessCookieName,
		Value:    pair.Access.Value,
		Path:     "/",
		MaxAge:   int(s.accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     s.refreshCookieName,
		Value:    pair.Refresh.Value,
		Path:     "/",
		MaxAge:   int(s.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenPair expires both cookies with the same path and flags
func (s *AuthService) ClearTokenPair(w http.ResponseWriter) {
	for _, name := range []string{s.accessCookieName, s.refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ReadAccessToken returns the access token cookie value if present.
// An absent cookie is not an error, just absence.
func (s *AuthService) ReadAccessToken(r *http.Request) (string, bool) {
	return readCookie(r, s.accessCookieName)
}

// ReadRefreshToken returns the refresh token cookie value if present
func (s *AuthService) ReadRefreshToken(r *http.Request) (string, bool) {
	return readCookie(r, s.refreshCookieName)
}

func readCookie(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}
