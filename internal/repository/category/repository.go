package category

import (
	"context"

	"lumina-commerce/internal/domain"
)

type Repository interface {
	// CountProducts returns the number of catalog products per category.
	// Categories without products are absent from the map.
	CountProducts(ctx context.Context) (map[domain.Category]int, error)
}
