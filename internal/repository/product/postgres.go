package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"lumina-commerce/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

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

const productColumns = `id, name, COALESCE(description, ''), price::text, category, images, rating, featured, stock, sales, created_at`

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE ($1 = '' OR category = $1)
  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
ORDER BY featured DESC, created_at ASC, id ASC
`
	search := strings.TrimSpace(f.Search)
	rows, err := r.pool.Query(ctx, q, string(f.Category), search)
	if err != nil {
		r.logger.Printf("product repo: list category=%s search=%q error=%v", f.Category, search, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list category=%s search=%q count=%d", f.Category, search, len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, price, category, images, rating, featured, stock, sales)
VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, NULLIF($3, ''), $4::text::numeric, $5, COALESCE($6, '[]'::jsonb), $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    images = EXCLUDED.images,
    rating = EXCLUDED.rating,
    featured = EXCLUDED.featured,
    stock = EXCLUDED.stock,
    sales = EXCLUDED.sales
RETURNING id, created_at
`
	if p.Price.IsNegative() {
		return nil, fmt.Errorf("%w: negative price for product %q", domain.ErrInvalidInput, p.Name)
	}
	if _, ok := domain.ParseCategory(string(p.Category)); !ok {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, p.Category)
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	out := p
	err := r.pool.QueryRow(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.Price.String(),
		string(p.Category),
		images,
		p.Rating,
		p.Featured,
		p.Stock,
		p.Sales,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s name=%q", out.ID, out.Name)
	return &out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p        domain.Product
		price    string
		category string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &category, &p.Images, &p.Rating, &p.Featured, &p.Stock, &p.Sales, &p.CreatedAt); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %s: parse price %q: %w", p.ID, price, err)
	}
	p.Price = amount
	p.Category = domain.Category(category)
	return &p, nil
}
