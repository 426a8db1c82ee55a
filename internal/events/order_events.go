package events

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"lumina-commerce/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Envelope wraps every published payload.
type Envelope struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

type OrderPlaced struct {
	OrderID   string          `json:"orderId"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	Items     []PlacedItem    `json:"items"`
	Customer  string          `json:"customerEmail,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type PlacedItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderStatusChanged struct {
	OrderID    string             `json:"orderId"`
	Status     domain.OrderStatus `json:"status"`
	Location   string             `json:"location,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// OrderEmitter publishes order lifecycle events. Delivery is best effort:
// failures are logged and never returned to the caller.
type OrderEmitter struct {
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
}

func NewOrderEmitter(publisher Publisher, logger *log.Logger) *OrderEmitter {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &OrderEmitter{publisher: publisher, logger: logger, now: time.Now}
}

func (e *OrderEmitter) OrderPlaced(ctx context.Context, o *domain.Order) {
	data := OrderPlaced{
		OrderID:   o.ID,
		Total:     o.Total,
		Items:     make([]PlacedItem, 0, len(o.Items)),
		Customer:  o.Customer.Email,
		CreatedAt: o.CreatedAt,
	}
	for _, item := range o.Items {
		data.ItemCount += item.Quantity
		data.Items = append(data.Items, PlacedItem{
			ProductID: item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}
	e.emit(ctx, EventOrderPlaced, o.ID, data)
}

func (e *OrderEmitter) StatusChanged(ctx context.Context, orderID string, ev domain.TrackingEvent) {
	e.emit(ctx, EventOrderStatusChanged, orderID, OrderStatusChanged{
		OrderID:    orderID,
		Status:     ev.Status,
		Location:   ev.Location,
		OccurredAt: ev.Timestamp,
	})
}

func (e *OrderEmitter) emit(ctx context.Context, eventType, key string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		e.logger.Printf("events: encode %s key=%s error=%v", eventType, key, err)
		return
	}
	payload, err := json.Marshal(Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: e.now().UTC(),
		Data:       raw,
	})
	if err != nil {
		e.logger.Printf("events: encode envelope %s key=%s error=%v", eventType, key, err)
		return
	}
	if err := e.publisher.Publish(ctx, eventType, payload, key); err != nil {
		e.logger.Printf("events: publish %s key=%s error=%v", eventType, key, err)
	}
}
