package handlers

import (
	"errors"
	"net/http"

	"github.com/teoyou881/hc-fullstack-app/internal/apperrors"
	"github.com/teoyou881/hc-fullstack-app/internal/handlers/render"
	"github.com/teoyou881/hc-fullstack-app/internal/handlers/userctx"
	"github.com/teoyou881/hc-fullstack-app/internal/logger"
	"github.com/teoyou881/hc-fullstack-app/internal/service/user"
)

func handleRegister(users userService, log logger.Logger) http.Handler {
	type registerRequest struct {
		Email       string `json:"email" validate:"required,email"`
		Password    string `json:"password" validate:"required,min=8"`
		Username    string `json:"username" validate:"required,min=2,max=50"`
		PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=20"`
	}
	type registerResponse struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[registerRequest](w, r)
		if err != nil {
			return
		}

		_, err = users.Register(r.Context(), user.RegisterParams{
			Email:       req.Email,
			Password:    req.Password,
			Username:    req.Username,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.Error(w, "User already exists", http.StatusConflict)
			default:
				log.Error("registration failed unexpectedly", "error", err.Error())
				render.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONStatus(w, registerResponse{Message: "User registered successfully"}, http.StatusCreated)
	})
}

func handleUserMe(users userService, log logger.Logger) http.Handler {
	type meResponse struct {
		Success bool         `json:"success"`
		User    userResponse `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := userctx.FromContext(r.Context())
		if !ok {
			// The auth middleware guards this route; a missing identity is a wiring bug
			render.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := users.GetByEmail(r.Context(), identity.Email)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				// Token subject no longer exists, the session is dead
				render.Error(w, "Unauthorized", http.StatusUnauthorized)
			default:
				log.Error("loading current user failed", "error", err.Error())
				render.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, meResponse{
			Success: true,
			User: userResponse{
				ID:          u.ID,
				Email:       u.Email,
				Username:    u.Username,
				PhoneNumber: u.PhoneNumber,
				Role:        u.Role,
			},
		})
	})
}
