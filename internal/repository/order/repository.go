package order

import (
	"context"
	"errors"

	"lumina-commerce/internal/domain"
)

// ErrDuplicateID is returned by Create when the order id is already taken.
var ErrDuplicateID = errors.New("order id already exists")

type Repository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	AppendEvent(ctx context.Context, id string, ev domain.TrackingEvent) (*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}
