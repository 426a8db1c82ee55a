package order

import (
	"time"

	"lumina-commerce/internal/domain"
)

// DemoOrders returns the orders the storefront tracking page is demonstrated
// with. They are loaded by the seed command.
func DemoOrders() []domain.Order {
	return []domain.Order{
		demoOrder("12345",
			event(domain.OrderStatusPlaced, "2026-02-01 10:00"),
			event(domain.OrderStatusProcessing, "2026-02-01 12:00"),
			event(domain.OrderStatusShipped, "2026-02-02 09:00"),
		),
		demoOrder("54321",
			event(domain.OrderStatusPlaced, "2026-01-28 08:00"),
			event(domain.OrderStatusProcessing, "2026-01-28 10:00"),
			event(domain.OrderStatusShipped, "2026-01-29 14:00"),
			event(domain.OrderStatusDelivered, "2026-01-30 16:00"),
		),
	}
}

func demoOrder(id string, history ...domain.TrackingEvent) domain.Order {
	last := history[len(history)-1]
	return domain.Order{
		ID:        id,
		Status:    last.Status,
		CreatedAt: history[0].Timestamp,
		UpdatedAt: last.Timestamp,
		History:   history,
	}
}

func event(status domain.OrderStatus, ts string) domain.TrackingEvent {
	t, err := time.ParseInLocation(domain.TimestampLayout, ts, time.UTC)
	if err != nil {
		panic(err)
	}
	return domain.TrackingEvent{Status: status, Timestamp: t}
}
