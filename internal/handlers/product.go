package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/teoyou881/hc-fullstack-app/internal/handlers/render"
	"github.com/teoyou881/hc-fullstack-app/internal/logger"
	"github.com/teoyou881/hc-fullstack-app/internal/models"
	"github.com/teoyou881/hc-fullstack-app/internal/service/product"
)

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
	}
}

func handleProductList(products productService, log logger.Logger) http.Handler {
	type listResponse struct {
		Products []productResponse `json:"products"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		list, err := products.List(r.Context())
		if err != nil {
			log.Error("listing products failed", "error", err.Error())
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		resp := listResponse{Products: make([]productResponse, 0, len(list))}
		for _, p := range list {
			resp.Products = append(resp.Products, newProductResponse(p))
		}

		render.JSON(w, resp)
	})
}

func handleProductCreate(products productService, log logger.Logger) http.Handler {
	type createRequest struct {
		Name        string `json:"name" validate:"required,min=1,max=200"`
		Description string `json:"description" validate:"omitempty,max=2000"`
		PriceCents  int64  `json:"priceCents" validate:"gte=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[createRequest](w, r)
		if err != nil {
			return
		}

		created, err := products.Create(r.Context(), product.CreateParams{
			Name:        req.Name,
			Description: req.Description,
			PriceCents:  req.PriceCents,
		})
		if err != nil {
			log.Error("creating product failed", "error", err.Error())
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONStatus(w, newProductResponse(created), http.StatusCreated)
	})
}
