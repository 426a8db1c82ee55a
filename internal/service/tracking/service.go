package tracking

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/order"
)

type orderRepo interface {
	AppendEvent(ctx context.Context, id string, ev domain.TrackingEvent) (*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}

// Invalidator drops cached tracking data for an order.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

type emitter interface {
	StatusChanged(ctx context.Context, orderID string, ev domain.TrackingEvent)
}

type Service struct {
	tracker *order.Tracker
	orders  orderRepo
	cache   Invalidator
	events  emitter
	logger  *log.Logger
	now     func() time.Time
}

// New wires the tracking service. cache and events may be nil.
func New(tracker *order.Tracker, orders orderRepo, cache Invalidator, events emitter, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{tracker: tracker, orders: orders, cache: cache, events: events, logger: logger, now: time.Now}
}

func (s *Service) Lookup(ctx context.Context, orderID string) (order.Result, error) {
	return s.tracker.Lookup(ctx, orderID)
}

// EventInput is a fulfillment update. A zero Timestamp means now.
type EventInput struct {
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// AppendEvent moves an order to a new status and returns its refreshed
// tracking result.
func (s *Service) AppendEvent(ctx context.Context, orderID string, in EventInput) (order.Result, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return order.Result{}, fmt.Errorf("%w: order id required", domain.ErrInvalidInput)
	}
	status, ok := domain.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return order.Result{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, in.Status)
	}
	at := in.Timestamp
	if at.IsZero() {
		at = s.now()
	}
	ev := order.NewEvent(status, strings.TrimSpace(in.Location), at)

	o, err := s.orders.AppendEvent(ctx, id, ev)
	if err != nil {
		return order.Result{}, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.logger.Printf("tracking: invalidate id=%s error=%v", id, err)
		}
	}
	if s.events != nil {
		s.events.StatusChanged(ctx, id, ev)
	}
	s.logger.Printf("tracking: id=%s status=%s", id, status)
	return order.ResultFromOrder(o), nil
}

// RecentOrders lists the newest orders for the seller dashboard.
func (s *Service) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.orders.ListRecent(ctx, limit)
}
