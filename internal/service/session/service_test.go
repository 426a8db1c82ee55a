package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/order"

	"github.com/shopspring/decimal"
)

type stubLooker struct{}

func (stubLooker) Lookup(_ context.Context, id string) (order.Result, error) {
	return order.Result{Status: order.ResultFound, OrderID: id, CurrentStatus: domain.OrderStatusPlaced}, nil
}

func TestService_IssueAndLookup(t *testing.T) {
	svc := New(time.Hour, stubLooker{}, time.Second, nil)
	ctx := context.Background()

	token, sess, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" || sess.ID == "" || sess.Cart == nil || sess.Tracking == nil {
		t.Fatalf("incomplete session %+v token=%q", sess, token)
	}

	got, err := svc.LookupByToken(ctx, token)
	if err != nil {
		t.Fatalf("LookupByToken: %v", err)
	}
	if got != sess {
		t.Fatalf("expected same session")
	}

	if _, err := svc.LookupByToken(ctx, "nope"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestService_SessionsDoNotShareCarts(t *testing.T) {
	svc := New(time.Hour, stubLooker{}, 0, nil)
	ctx := context.Background()
	_, a, _ := svc.Issue(ctx)
	_, b, _ := svc.Issue(ctx)

	a.Cart.Add(domain.Product{ID: "p1", Price: decimal.NewFromInt(10)})
	if b.Cart.Count() != 0 {
		t.Fatalf("expected isolated carts, got count %d", b.Cart.Count())
	}

	_, done := a.Tracking.Submit(ctx, "12345")
	<-done
	if b.Tracking.State().Seq != 0 {
		t.Fatalf("expected isolated tracking views")
	}
	if st := a.Tracking.State(); st.Result == nil || st.Result.OrderID != "12345" {
		t.Fatalf("unexpected tracking state %+v", st)
	}
}

func TestService_ExpiryAndSweep(t *testing.T) {
	svc := New(time.Hour, stubLooker{}, 0, nil)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.tokens.now = func() time.Time { return now }
	ctx := context.Background()

	stale, _, _ := svc.Issue(ctx)
	fresh, _, _ := svc.Issue(ctx)

	now = now.Add(50 * time.Minute)
	if _, err := svc.LookupByToken(ctx, fresh); err != nil {
		t.Fatalf("fresh lookup: %v", err)
	}

	now = now.Add(20 * time.Minute)
	if _, err := svc.LookupByToken(ctx, fresh); err != nil {
		t.Fatalf("refreshed token should still be valid: %v", err)
	}
	if n := svc.Sweep(); n != 1 {
		t.Fatalf("expected one swept session, got %d", n)
	}
	if _, err := svc.LookupByToken(ctx, stale); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected stale token rejected, got %v", err)
	}
	if len(svc.sessions) != 1 {
		t.Fatalf("expected one live session, got %d", len(svc.sessions))
	}
}
