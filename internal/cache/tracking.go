package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/order"

	"github.com/redis/go-redis/v9"
)

const (
	trackingKeyPrefix = "lumina:tracking:order:"
	trackingGenPrefix = "lumina:tracking:gen:"
)

// TrackingCache is a read-through cache of orders in front of a lookup source.
// Unknown ids are not cached. Redis failures fall back to the source. Each id
// carries a generation counter bumped by Invalidate; a fill is only written if
// the generation it started under is still current.
type TrackingCache struct {
	client *redis.Client
	source order.Source
	ttl    time.Duration
	logger *log.Logger
}

func NewTrackingCache(client *redis.Client, source order.Source, ttl time.Duration, logger *log.Logger) *TrackingCache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TrackingCache{client: client, source: source, ttl: ttl, logger: logger}
}

type cachedEvent struct {
	Status     domain.OrderStatus `json:"status"`
	Location   string             `json:"location,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}

type cachedOrder struct {
	Order   domain.Order  `json:"order"`
	History []cachedEvent `json:"history"`
}

func (c *TrackingCache) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	key := trackingKeyPrefix + id
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		o, decodeErr := decodeOrder(raw)
		if decodeErr == nil {
			return o, nil
		}
		c.logger.Printf("tracking cache: decode id=%s error=%v", id, decodeErr)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Printf("tracking cache: get id=%s error=%v", id, err)
	}

	gen, genErr := c.generation(ctx, c.client, id)
	o, err := c.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		c.logger.Printf("tracking cache: generation id=%s error=%v", id, genErr)
		return o, nil
	}
	if err := c.fill(ctx, id, gen, o); err != nil {
		c.logger.Printf("tracking cache: set id=%s error=%v", id, err)
	}
	return o, nil
}

// fill stores o unless Invalidate ran since gen was read.
func (c *TrackingCache) fill(ctx context.Context, id string, gen int64, o *domain.Order) error {
	raw, err := encodeOrder(o)
	if err != nil {
		return err
	}
	genKey := trackingGenPrefix + id
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx, id)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, trackingKeyPrefix+id, raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *TrackingCache) generation(ctx context.Context, r redis.Cmdable, id string) (int64, error) {
	gen, err := r.Get(ctx, trackingGenPrefix+id).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Invalidate drops the cached entry for id and bumps its generation, so fills
// that read the source before this call are discarded.
func (c *TrackingCache) Invalidate(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, trackingGenPrefix+id)
		pipe.Del(ctx, trackingKeyPrefix+id)
		return nil
	})
	return err
}

func encodeOrder(o *domain.Order) ([]byte, error) {
	entry := cachedOrder{Order: *o, History: make([]cachedEvent, 0, len(o.History))}
	for _, ev := range o.History {
		entry.History = append(entry.History, cachedEvent{Status: ev.Status, Location: ev.Location, OccurredAt: ev.Timestamp})
	}
	return json.Marshal(entry)
}

func decodeOrder(raw []byte) (*domain.Order, error) {
	var entry cachedOrder
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	o := entry.Order
	o.History = make([]domain.TrackingEvent, 0, len(entry.History))
	for _, ev := range entry.History {
		o.History = append(o.History, domain.TrackingEvent{Status: ev.Status, Location: ev.Location, Timestamp: ev.OccurredAt.UTC()})
	}
	return &o, nil
}
