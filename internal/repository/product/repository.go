package product

import (
	"context"

	"lumina-commerce/internal/domain"
)

// Filter narrows a catalog listing. Zero values match everything.
type Filter struct {
	Category domain.Category
	Search   string
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
