package cart

import (
	"context"
	"errors"
	"testing"

	"lumina-commerce/internal/cart"
	"lumina-commerce/internal/domain"

	"github.com/shopspring/decimal"
)

type stubProductRepo struct {
	products map[string]domain.Product
	err      error
	calls    int
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func newRepo() *stubProductRepo {
	return &stubProductRepo{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Zenith Headphones", Price: decimal.RequireFromString("249.99")},
		"p2": {ID: "p2", Name: "Silk Scarf", Price: decimal.NewFromInt(80)},
	}}
}

func TestService_AddMergesByID(t *testing.T) {
	svc := New(newRepo())
	store := cart.NewStore()
	ctx := context.Background()

	if _, err := svc.Add(ctx, store, AddInput{ProductID: "p1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, store, AddInput{ProductID: "p2"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	snap, err := svc.Add(ctx, store, AddInput{ProductID: " p1 "})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(snap.Items) != 2 || snap.Count != 3 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !snap.Total.Equal(decimal.RequireFromString("579.98")) {
		t.Fatalf("unexpected total %s", snap.Total)
	}
}

func TestService_AddRejectsUnknownAndBlank(t *testing.T) {
	repo := newRepo()
	svc := New(repo)
	store := cart.NewStore()
	ctx := context.Background()

	if _, err := svc.Add(ctx, store, AddInput{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no catalog call for blank id")
	}
	if _, err := svc.Add(ctx, store, AddInput{ProductID: "ghost"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.Count() != 0 {
		t.Fatalf("expected empty cart, got %d", store.Count())
	}
}

func TestService_UpdateRemoveClear(t *testing.T) {
	svc := New(newRepo())
	store := cart.NewStore()
	ctx := context.Background()
	svc.Add(ctx, store, AddInput{ProductID: "p1"})
	svc.Add(ctx, store, AddInput{ProductID: "p1"})
	svc.Add(ctx, store, AddInput{ProductID: "p2"})

	if snap := svc.UpdateQuantity(store, "p1", UpdateInput{}); snap.Count != 3 {
		t.Fatalf("expected zero delta to be a no-op, got %+v", snap)
	}
	snap := svc.UpdateQuantity(store, "p1", UpdateInput{Delta: -5})
	if len(snap.Items) != 1 || snap.Items[0].ID != "p2" {
		t.Fatalf("expected p1 removed at zero, got %+v", snap.Items)
	}

	snap = svc.Remove(store, "p2")
	if snap.Count != 0 {
		t.Fatalf("expected empty after remove, got %d", snap.Count)
	}
	snap = svc.Remove(store, "p2")
	if snap.Count != 0 {
		t.Fatalf("expected remove to be idempotent")
	}

	svc.Add(ctx, store, AddInput{ProductID: "p2"})
	if snap := svc.Clear(store); snap.Count != 0 || len(snap.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v", snap)
	}
	if got := svc.Get(store); got.Count != 0 {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}
