package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/teoyou881/hc-fullstack-app/internal/apperrors"
	"github.com/teoyou881/hc-fullstack-app/internal/handlers/render"
	"github.com/teoyou881/hc-fullstack-app/internal/logger"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

type userResponse struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	Username    string      `json:"username"`
	PhoneNumber string      `json:"phoneNumber"`
	Role        models.Role `json:"role"`
}

type tokenInfoResponse struct {
	// Expiry timestamps in epoch milliseconds
	AccessTokenExpiry  int64 `json:"accessTokenExpiry"`
	RefreshTokenExpiry int64 `json:"refreshTokenExpiry"`
}

// sessionResponse is the body of a successful login or refresh
type sessionResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	User      userResponse      `json:"user"`
	TokenInfo tokenInfoResponse `json:"tokenInfo"`
}

func newSessionResponse(message string, user models.User, pair models.TokenPair) sessionResponse {
	return sessionResponse{
		Success: true,
		Message: message,
		User: userResponse{
			ID:          user.ID,
			Email:       user.Email,
			Username:    user.Username,
			PhoneNumber: user.PhoneNumber,
			Role:        user.Role,
		},
		TokenInfo: tokenInfoResponse{
			AccessTokenExpiry:  pair.Access.ExpiresAt.UnixMilli(),
			RefreshTokenExpiry: pair.Refresh.ExpiresAt.UnixMilli(),
		},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// decodeLoginRequest reads credentials from a JSON body, falling back
// to form fields for form-encoded requests. Missing fields come back as
// empty strings; the authenticator rejects those itself, so absence is
// an authentication failure, not a parse error.
func decodeLoginRequest(r *http.Request) (loginRequest, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if contentType == "application/json" {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return loginRequest{}, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return loginRequest{}, err
	}

	return loginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}, nil
}

func handleLogin(auth authService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeLoginRequest(r)
		if err != nil {
			render.Error(w, "Malformed request body", http.StatusBadRequest)
			return
		}

		user, pair, err := auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrAuthenticationFailed):
				// One generic message for unknown email and wrong password
				render.Error(w, "Login failed", http.StatusUnauthorized)
			default:
				log.Error("login failed unexpectedly", "error", err.Error())
				render.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		auth.SetTokenPair(w, pair)
		render.JSON(w, newSessionResponse("Login successful", user, pair))
	})
}

func handleTokenRefresh(auth authService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, ok := auth.ReadRefreshToken(r)
		if !ok {
			render.Error(w, "Invalid refresh token", http.StatusUnauthorized)
			return
		}

		user, pair, err := auth.Refresh(r.Context(), refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrRefreshTokenInvalid):
				render.Error(w, "Invalid refresh token", http.StatusUnauthorized)
			default:
				log.Error("token refresh failed unexpectedly", "error", err.Error())
				render.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		auth.SetTokenPair(w, pair)
		render.JSON(w, newSessionResponse("Token refreshed successfully", user, pair))
	})
}

func handleLogout(auth authService, log logger.Logger) http.Handler {
	type logoutResponse struct {
		Message   string `json:"message"`
		Timestamp int64  `json:"timestamp"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Absent cookie is fine: the client is logged out either way
		refresh, _ := auth.ReadRefreshToken(r)

		if err := auth.Logout(r.Context(), refresh); err != nil {
			log.Error("logout failed unexpectedly", "error", err.Error())
			render.Error(w, "Logout failed", http.StatusInternalServerError)
			return
		}

		auth.ClearTokenPair(w)
		render.JSON(w, logoutResponse{
			Message:   "Logout successful",
			Timestamp: time.Now().UnixMilli(),
		})
	})
}
