package category

import (
	"context"

	"lumina-commerce/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) CountProducts(ctx context.Context) (map[domain.Category]int, error) {
	rows, err := r.pool.Query(ctx, `
SELECT category, COUNT(*)
FROM products
GROUP BY category
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.Category]int)
	for rows.Next() {
		var (
			c string
			n int
		)
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		out[domain.Category(c)] = n
	}
	return out, rows.Err()
}
