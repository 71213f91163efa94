package product

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/teoyou881/hc-fullstack-app/internal/models"
	"github.com/teoyou881/hc-fullstack-app/internal/repository"
)

// ProductService backs the public product listing and the
// manager-only catalog management.
type ProductService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) (*ProductService, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	return &ProductService{storage: storage}, nil
}

type CreateParams struct {
	Name        string
	Description string
	PriceCents  int64
}

func (s *ProductService) Create(ctx context.Context, params CreateParams) (models.Product, error) {
	return s.storage.Product().Create(ctx, models.Product{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		PriceCents:  params.PriceCents,
	})
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.storage.Product().List(ctx)
}
