package category

import (
	"context"
	"errors"
	"testing"

	"lumina-commerce/internal/domain"
)

type stubRepo struct {
	counts map[domain.Category]int
	err    error
}

func (s stubRepo) CountProducts(context.Context) (map[domain.Category]int, error) {
	return s.counts, s.err
}

func TestService_ListIncludesEmptyCategories(t *testing.T) {
	svc := New(stubRepo{counts: map[domain.Category]int{domain.CategoryHome: 3}})
	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(got))
	}
	if got[0].Category != domain.CategoryElectronics || got[0].Products != 0 {
		t.Fatalf("unexpected first entry %+v", got[0])
	}
	if got[2].Category != domain.CategoryHome || got[2].Products != 3 {
		t.Fatalf("unexpected home entry %+v", got[2])
	}
}

func TestService_ListPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := New(stubRepo{err: boom}).List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected error, got %v", err)
	}
}
