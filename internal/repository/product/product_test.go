package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func TestPostgres_UpsertListAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	stock := 4
	headphones, err := repo.Upsert(ctx, domain.Product{
		Name:     "Zenith Headphones",
		Price:    decimal.RequireFromString("24999.00"),
		Category: domain.CategoryElectronics,
		Images:   []string{"https://img.example/zenith.jpg"},
		Rating:   4.9,
		Featured: true,
		Stock:    &stock,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if headphones.ID == "" {
		t.Fatalf("expected generated id")
	}
	if _, err := repo.Upsert(ctx, domain.Product{
		ID:       "silk-dress",
		Name:     "Silk Dress",
		Price:    decimal.NewFromInt(8999),
		Category: domain.CategoryFashion,
	}); err != nil {
		t.Fatalf("Upsert dress: %v", err)
	}

	all, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != headphones.ID {
		t.Fatalf("expected featured product first, got %+v", all)
	}

	fashion, err := repo.List(ctx, Filter{Category: domain.CategoryFashion, Search: "silk"})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(fashion) != 1 || fashion[0].ID != "silk-dress" {
		t.Fatalf("unexpected filtered result %+v", fashion)
	}

	got, err := repo.GetByID(ctx, headphones.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Price.Equal(decimal.NewFromInt(24999)) || got.Stock == nil || *got.Stock != 4 || len(got.Images) != 1 {
		t.Fatalf("unexpected product %+v", got)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgres_UpsertRejectsUnknownCategory(t *testing.T) {
	repo := NewPostgres(nil, nil)
	_, err := repo.Upsert(context.Background(), domain.Product{Name: "Toy", Category: "toys"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE tracking_events, order_items, orders, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
