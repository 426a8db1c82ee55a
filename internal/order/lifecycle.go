package order

import (
	"fmt"
	"time"

	"lumina-commerce/internal/domain"
)

var transitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPlaced:         {domain.OrderStatusProcessing, domain.OrderStatusCancelled},
	domain.OrderStatusProcessing:     {domain.OrderStatusShipped, domain.OrderStatusCancelled},
	domain.OrderStatusShipped:        {domain.OrderStatusInTransit, domain.OrderStatusOutForDelivery, domain.OrderStatusDelivered},
	domain.OrderStatusInTransit:      {domain.OrderStatusOutForDelivery, domain.OrderStatusDelivered},
	domain.OrderStatusOutForDelivery: {domain.OrderStatusDelivered},
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to domain.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(s domain.OrderStatus) bool {
	return len(transitions[s]) == 0
}

// ValidateEvent checks that ev may be appended to o's history: the status
// change must be allowed and the timestamp must not precede the last event.
func ValidateEvent(o *domain.Order, ev domain.TrackingEvent) error {
	if !CanTransition(o.Status, ev.Status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, ev.Status)
	}
	if n := len(o.History); n > 0 && ev.Timestamp.Before(o.History[n-1].Timestamp) {
		return fmt.Errorf("%w: event at %s precedes last event at %s", domain.ErrInvalidInput,
			ev.Timestamp.Format(domain.TimestampLayout), o.History[n-1].Timestamp.Format(domain.TimestampLayout))
	}
	return nil
}

// Apply validates ev and appends it, moving the order to the event's status.
func Apply(o *domain.Order, ev domain.TrackingEvent) error {
	if err := ValidateEvent(o, ev); err != nil {
		return err
	}
	o.History = append(o.History, ev)
	o.Status = ev.Status
	o.UpdatedAt = ev.Timestamp
	return nil
}

// NewEvent builds an event stamped with now truncated to the minute, the
// resolution tracking timestamps are shown at.
func NewEvent(status domain.OrderStatus, location string, now time.Time) domain.TrackingEvent {
	return domain.TrackingEvent{
		Status:    status,
		Location:  location,
		Timestamp: now.UTC().Truncate(time.Minute),
	}
}
