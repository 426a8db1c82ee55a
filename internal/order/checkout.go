package order

import (
	"fmt"
	"time"

	"lumina-commerce/internal/cart"
	"lumina-commerce/internal/domain"
)

// Drainer yields the cart contents and empties the cart atomically.
type Drainer interface {
	Drain() cart.Snapshot
}

// Checkout captures the cart into a new Placed order and clears the cart. The
// order owns its own copy of the items. An empty cart is rejected and left as is.
func Checkout(c Drainer, newID func() string, customer domain.CustomerContact, now time.Time) (*domain.Order, error) {
	snap := c.Drain()
	if len(snap.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
	}
	if newID == nil {
		newID = NewID
	}

	placed := NewEvent(domain.OrderStatusPlaced, "", now)
	return &domain.Order{
		ID:        newID(),
		Customer:  customer,
		Items:     snap.Items,
		Total:     snap.Total,
		Status:    domain.OrderStatusPlaced,
		CreatedAt: placed.Timestamp,
		UpdatedAt: placed.Timestamp,
		History:   []domain.TrackingEvent{placed},
	}, nil
}
