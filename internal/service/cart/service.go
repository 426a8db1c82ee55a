package cart

import (
	"context"
	"fmt"
	"strings"

	"lumina-commerce/internal/cart"
	"lumina-commerce/internal/domain"
)

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Service applies shopper cart commands to a session's store. Product ids are
// resolved against the catalog on add; the store itself never fails.
type Service struct {
	productRepo productRepo
}

func New(productRepo productRepo) *Service {
	return &Service{productRepo: productRepo}
}

type AddInput struct {
	ProductID string `json:"productId"`
}

type UpdateInput struct {
	Delta int `json:"delta"`
}

func (s *Service) Get(store *cart.Store) cart.Snapshot {
	return store.Snapshot()
}

func (s *Service) Add(ctx context.Context, store *cart.Store, in AddInput) (cart.Snapshot, error) {
	id := strings.TrimSpace(in.ProductID)
	if id == "" {
		return cart.Snapshot{}, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return cart.Snapshot{}, err
	}
	store.Add(*product)
	return store.Snapshot(), nil
}

func (s *Service) UpdateQuantity(store *cart.Store, productID string, in UpdateInput) cart.Snapshot {
	store.UpdateQuantity(productID, in.Delta)
	return store.Snapshot()
}

func (s *Service) Remove(store *cart.Store, productID string) cart.Snapshot {
	store.Remove(productID)
	return store.Snapshot()
}

func (s *Service) Clear(store *cart.Store) cart.Snapshot {
	store.Clear()
	return store.Snapshot()
}
