package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "Placed"
	OrderStatusProcessing     OrderStatus = "Processing"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusInTransit      OrderStatus = "In Transit"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus matches s against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range orderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// TimestampLayout is how tracking timestamps are rendered to clients.
const TimestampLayout = "2006-01-02 15:04"

// TrackingEvent is one entry of an order's status history.
type TrackingEvent struct {
	Status    OrderStatus `json:"status"`
	Location  string      `json:"location,omitempty"`
	Timestamp time.Time   `json:"-"`
}

// CustomerContact is the optional shipping contact captured at checkout.
type CustomerContact struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Order is created once at checkout from a cart snapshot.
type Order struct {
	ID         string          `json:"id"`
	Customer   CustomerContact `json:"customer"`
	Items      []CartItem      `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Status     OrderStatus     `json:"status"`
	Carrier    string          `json:"carrier,omitempty"`
	TrackingID string          `json:"trackingId,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"lastUpdate"`
	History    []TrackingEvent `json:"-"`
}
