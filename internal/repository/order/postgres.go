package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"lumina-commerce/internal/domain"
	orderlc "lumina-commerce/internal/order"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// snapshotRead makes the order row, its items and its events come from one
// snapshot, so the last event always matches the stored status.
var snapshotRead = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
INSERT INTO orders (id, customer_name, customer_email, customer_address, customer_phone, total, status, carrier, tracking_id, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6::text::numeric, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)
`, o.ID, o.Customer.Name, o.Customer.Email, o.Customer.Address, o.Customer.Phone, o.Total.String(), string(o.Status), o.Carrier, o.TrackingID, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateID, o.ID)
		}
		r.logger.Printf("order repo: create id=%s error=%v", o.ID, err)
		return err
	}

	for i, item := range o.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, position, product_id, quantity, unit_price, snapshot)
VALUES ($1, $2, $3, $4, $5::text::numeric, $6)
`, o.ID, i, item.ID, item.Quantity, item.Price.String(), item.Product); err != nil {
			return err
		}
	}

	for _, ev := range o.History {
		if err := insertEvent(ctx, tx, o.ID, ev); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("order repo: created id=%s items=%d total=%s", o.ID, len(o.Items), o.Total)
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, snapshotRead)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	o, err := fetchOrder(ctx, tx, id, false)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("order repo: get id=%s error=%v", id, err)
		}
		return nil, err
	}
	return o, nil
}

// AppendEvent records a status change for id. The order row is locked while
// the transition is validated so concurrent updates are applied one at a time.
func (r *postgresRepo) AppendEvent(ctx context.Context, id string, ev domain.TrackingEvent) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	o, err := fetchOrder(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := orderlc.Apply(o, ev); err != nil {
		return nil, err
	}
	if err := insertEvent(ctx, tx, id, ev); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
UPDATE orders
SET status = $1, updated_at = $2
WHERE id = $3
`, string(o.Status), o.UpdatedAt, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: appended id=%s status=%s", id, ev.Status)
	return o, nil
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	tx, err := r.pool.BeginTx(ctx, snapshotRead)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
SELECT id
FROM orders
ORDER BY created_at DESC, id ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o, err := fetchOrder(ctx, tx, id, false)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func fetchOrder(ctx context.Context, q querier, id string, forUpdate bool) (*domain.Order, error) {
	orderQuery := `
SELECT id, COALESCE(customer_name, ''), COALESCE(customer_email, ''), COALESCE(customer_address, ''), COALESCE(customer_phone, ''),
       total::text, status, COALESCE(carrier, ''), COALESCE(tracking_id, ''), created_at, updated_at
FROM orders
WHERE id = $1
`
	if forUpdate {
		orderQuery += "FOR UPDATE\n"
	}

	var (
		o      domain.Order
		total  string
		status string
	)
	err := q.QueryRow(ctx, orderQuery, id).Scan(
		&o.ID,
		&o.Customer.Name,
		&o.Customer.Email,
		&o.Customer.Address,
		&o.Customer.Phone,
		&total,
		&status,
		&o.Carrier,
		&o.TrackingID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("order %s: parse total %q: %w", id, total, err)
	}
	o.Status = domain.OrderStatus(status)

	if o.Items, err = fetchItems(ctx, q, id); err != nil {
		return nil, err
	}
	if o.History, err = fetchEvents(ctx, q, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func fetchItems(ctx context.Context, q querier, orderID string) ([]domain.CartItem, error) {
	rows, err := q.Query(ctx, `
SELECT product_id, quantity, unit_price::text, snapshot
FROM order_items
WHERE order_id = $1
ORDER BY position ASC
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			item      domain.CartItem
			productID string
			unitPrice string
		)
		if err := rows.Scan(&productID, &item.Quantity, &unitPrice, &item.Product); err != nil {
			return nil, err
		}
		item.ID = productID
		if item.Price, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("order %s: parse unit price %q: %w", orderID, unitPrice, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func fetchEvents(ctx context.Context, q querier, orderID string) ([]domain.TrackingEvent, error) {
	rows, err := q.Query(ctx, `
SELECT status, COALESCE(location, ''), occurred_at
FROM tracking_events
WHERE order_id = $1
ORDER BY occurred_at ASC, id ASC
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.TrackingEvent
	for rows.Next() {
		var (
			ev     domain.TrackingEvent
			status string
		)
		if err := rows.Scan(&status, &ev.Location, &ev.Timestamp); err != nil {
			return nil, err
		}
		ev.Status = domain.OrderStatus(status)
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}

func insertEvent(ctx context.Context, tx pgx.Tx, orderID string, ev domain.TrackingEvent) error {
	_, err := tx.Exec(ctx, `
INSERT INTO tracking_events (order_id, status, location, occurred_at)
VALUES ($1, $2, NULLIF($3, ''), $4)
`, orderID, string(ev.Status), ev.Location, ev.Timestamp)
	return err
}
