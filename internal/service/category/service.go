package category

import (
	"context"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/repository/category"
)

// Summary is one storefront filter chip.
type Summary struct {
	Category domain.Category `json:"category"`
	Products int             `json:"products"`
}

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

// List returns every category in storefront order, including empty ones.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	counts, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, Summary{Category: c, Products: counts[c]})
	}
	return out, nil
}
