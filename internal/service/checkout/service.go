package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/order"
	orderrepo "lumina-commerce/internal/repository/order"
)

const defaultMaxAttempts = 5

// CartStore is the slice of cart.Store checkout needs.
type CartStore interface {
	order.Drainer
	Restore(items []domain.CartItem)
}

type orderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
}

type emitter interface {
	OrderPlaced(ctx context.Context, o *domain.Order)
}

type Service struct {
	orders      orderRepo
	events      emitter
	logger      *log.Logger
	newID       func() string
	now         func() time.Time
	maxAttempts int
}

func New(orders orderRepo, events emitter, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:      orders,
		events:      events,
		logger:      logger,
		newID:       order.NewID,
		now:         time.Now,
		maxAttempts: defaultMaxAttempts,
	}
}

type Input struct {
	Customer domain.CustomerContact `json:"customer"`
}

// Checkout turns the cart into a persisted order and leaves the cart empty.
// If the order cannot be stored the cart gets its items back.
func (s *Service) Checkout(ctx context.Context, store CartStore, in Input) (*domain.Order, error) {
	o, err := order.Checkout(store, s.newID, in.Customer, s.now())
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = s.orders.Create(ctx, o)
		if err == nil {
			break
		}
		if errors.Is(err, orderrepo.ErrDuplicateID) && attempt < s.maxAttempts {
			s.logger.Printf("checkout: id collision id=%s attempt=%d", o.ID, attempt)
			o.ID = s.newID()
			continue
		}
		store.Restore(o.Items)
		s.logger.Printf("checkout: persist id=%s error=%v", o.ID, err)
		return nil, fmt.Errorf("persist order: %w: %w", domain.ErrUnavailable, err)
	}

	if s.events != nil {
		s.events.OrderPlaced(ctx, o)
	}
	s.logger.Printf("checkout: placed id=%s items=%d total=%s", o.ID, len(o.Items), o.Total)
	return o, nil
}
