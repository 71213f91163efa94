package handlers

import (
	"net/http"

	"github.com/teoyou881/hc-fullstack-app/internal/handlers/render"
)

func handleHealth() http.Handler {
	type healthResponse struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, healthResponse{Status: "ok"})
	})
}
