package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/teoyou881/hc-fullstack-app/internal/models"
)

type ProductRepo struct {
	DB DBTX
}

const createProduct = `-- name: CreateProduct
INSERT INTO products (id, name, description, price_cents)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, name, description, price_cents
`

func (r *ProductRepo) Create(ctx context.Context, product models.Product) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, createProduct, product.ID, product.Name, product.Description, product.PriceCents)
	created, err := pgx.CollectOneRow(rows, rowToProduct)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listProducts = `-- name: ListProducts
SELECT id, created_at, name, description, price_cents
FROM products
ORDER BY created_at DESC, id
`

func (r *ProductRepo) List(ctx context.Context) ([]models.Product, error) {
	rows, _ := r.DB.Query(ctx, listProducts)
	products, err := pgx.CollectRows(rows, rowToProduct)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return products, nil
}

func rowToProduct(row pgx.CollectableRow) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.CreatedAt, &p.Name, &p.Description, &p.PriceCents)
	return p, err
}
