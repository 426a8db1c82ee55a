package seed

import (
	"context"
	"errors"
	"fmt"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/order"
	orderrepo "lumina-commerce/internal/repository/order"

	"github.com/shopspring/decimal"
)

type productWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type orderWriter interface {
	Create(ctx context.Context, o *domain.Order) error
}

type productSeed struct {
	ID          string
	Name        string
	Description string
	Price       string
	Category    domain.Category
	Rating      float64
	Featured    bool
	Stock       int
	Sales       int
}

var catalog = []productSeed{
	{ID: "zenith-headphones", Name: "Zenith Headphones", Description: "Noise-cancelling over-ear headphones with 40-hour battery life.", Price: "24999", Category: domain.CategoryElectronics, Rating: 4.9, Featured: true, Stock: 25, Sales: 412},
	{ID: "aura-smartwatch", Name: "Aura Smartwatch", Description: "Sapphire-glass smartwatch with health tracking.", Price: "18999", Category: domain.CategoryElectronics, Rating: 4.7, Stock: 40, Sales: 230},
	{ID: "silk-dress", Name: "Silk Dress", Description: "Bias-cut mulberry silk evening dress.", Price: "8999", Category: domain.CategoryFashion, Rating: 4.8, Featured: true, Stock: 3, Sales: 96},
	{ID: "cashmere-scarf", Name: "Cashmere Scarf", Description: "Hand-loomed pure cashmere scarf.", Price: "4999", Category: domain.CategoryAccessories, Rating: 4.6, Stock: 60, Sales: 150},
	{ID: "marble-lamp", Name: "Marble Lamp", Description: "Carrara marble table lamp with brass accents.", Price: "6499", Category: domain.CategoryHome, Rating: 4.5, Stock: 18, Sales: 44},
	{ID: "leather-weekender", Name: "Leather Weekender", Description: "Full-grain leather travel bag.", Price: "15999", Category: domain.CategoryAccessories, Rating: 4.8, Stock: 12, Sales: 71},
}

// Apply loads the demo catalog and the demo tracking orders. Products are
// upserted and orders that already exist are left alone, so it can be rerun.
func Apply(ctx context.Context, products productWriter, orders orderWriter) error {
	for _, s := range catalog {
		stock := s.Stock
		p := domain.Product{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Price:       decimal.RequireFromString(s.Price),
			Category:    s.Category,
			Rating:      s.Rating,
			Featured:    s.Featured,
			Stock:       &stock,
			Sales:       s.Sales,
		}
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", s.ID, err)
		}
	}

	for _, o := range order.DemoOrders() {
		if err := orders.Create(ctx, &o); err != nil && !errors.Is(err, orderrepo.ErrDuplicateID) {
			return fmt.Errorf("create order %s: %w", o.ID, err)
		}
	}
	return nil
}
