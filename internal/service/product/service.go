package product

import (
	"context"
	"fmt"
	"strings"

	"lumina-commerce/internal/domain"
	productrepo "lumina-commerce/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns catalog products. An empty category or "all" matches every
// category; search matches product names case-insensitively.
func (s *Service) List(ctx context.Context, category, search string) ([]domain.Product, error) {
	f := productrepo.Filter{Search: strings.TrimSpace(search)}
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "all") {
		parsed, ok := domain.ParseCategory(c)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, c)
		}
		f.Category = parsed
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: product id required", domain.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}
