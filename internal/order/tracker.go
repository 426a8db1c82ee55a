package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"lumina-commerce/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	ResultFound    = "found"
	ResultNotFound = "not_found"

	notFoundReason = "Order not found."
)

// Source answers order lookups. It returns domain.ErrNotFound for unknown ids
// and must return the history already in chronological order.
type Source interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// TimelineEntry is a tracking event as presented to clients.
type TimelineEntry struct {
	Status    domain.OrderStatus `json:"status"`
	Timestamp string             `json:"timestamp"`
	Location  string             `json:"location,omitempty"`
}

// Result is the outcome of a lookup: either found with a timeline or not_found
// with a reason.
type Result struct {
	Status        string             `json:"status"`
	OrderID       string             `json:"orderId,omitempty"`
	CurrentStatus domain.OrderStatus `json:"currentStatus,omitempty"`
	Timeline      []TimelineEntry    `json:"timeline,omitempty"`
	Reason        string             `json:"reason,omitempty"`
}

// Found reports whether the lookup resolved an order.
func (r Result) Found() bool {
	return r.Status == ResultFound
}

type Tracker struct {
	source Source
	logger *log.Logger
}

func NewTracker(source Source, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Tracker{source: source, logger: logger}
}

// Lookup resolves orderID to its status and timeline. A blank id fails with
// domain.ErrInvalidInput without touching the source; an unknown id is a
// not_found Result, not an error. Source failures wrap domain.ErrUnavailable.
func (t *Tracker) Lookup(ctx context.Context, orderID string) (Result, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return Result{}, fmt.Errorf("%w: order id required", domain.ErrInvalidInput)
	}

	ctx, span := otel.Tracer("lumina-commerce/order").Start(ctx, "order.lookup")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", id))

	o, err := t.source.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			t.logger.Printf("tracker: lookup id=%s not found", id)
			span.SetAttributes(attribute.String("order.lookup.result", ResultNotFound))
			return Result{Status: ResultNotFound, Reason: notFoundReason}, nil
		}
		t.logger.Printf("tracker: lookup id=%s error=%v", id, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "source unavailable")
		return Result{}, fmt.Errorf("lookup order %s: %w: %w", id, domain.ErrUnavailable, err)
	}

	span.SetAttributes(
		attribute.String("order.lookup.result", ResultFound),
		attribute.String("order.status", string(o.Status)),
		attribute.Int("order.timeline_length", len(o.History)),
	)
	t.logger.Printf("tracker: lookup id=%s status=%s events=%d", id, o.Status, len(o.History))
	return ResultFromOrder(o), nil
}

// ResultFromOrder renders o as a found Result, keeping the history order.
func ResultFromOrder(o *domain.Order) Result {
	timeline := make([]TimelineEntry, 0, len(o.History))
	for _, ev := range o.History {
		timeline = append(timeline, TimelineEntry{
			Status:    ev.Status,
			Timestamp: ev.Timestamp.Format(domain.TimestampLayout),
			Location:  ev.Location,
		})
	}
	return Result{
		Status:        ResultFound,
		OrderID:       o.ID,
		CurrentStatus: o.Status,
		Timeline:      timeline,
	}
}
