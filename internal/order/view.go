package order

import (
	"context"
	"strings"
	"sync"
	"time"

	"lumina-commerce/internal/domain"
)

// Looker is the lookup a View drives. *Tracker satisfies it.
type Looker interface {
	Lookup(ctx context.Context, orderID string) (Result, error)
}

// ViewState is what a tracking screen renders: a pending flag, or the outcome
// of the latest request.
type ViewState struct {
	Seq     uint64  `json:"seq"`
	OrderID string  `json:"orderId,omitempty"`
	Pending bool    `json:"pending"`
	Result  *Result `json:"result,omitempty"`
	Err     error   `json:"-"`
}

// View keeps the state of the most recent lookup. Every Submit is tagged with
// a new sequence number and only the outcome carrying the latest tag is
// applied; results of superseded requests are dropped.
type View struct {
	looker  Looker
	timeout time.Duration

	mu    sync.Mutex
	seq   uint64
	state ViewState
}

// NewView builds a View. A non-zero timeout bounds each lookup.
func NewView(looker Looker, timeout time.Duration) *View {
	return &View{looker: looker, timeout: timeout}
}

// Submit starts a lookup for orderID and returns its tag together with a
// channel closed once the lookup has finished, whether or not its result was
// applied. A blank id is rejected immediately without a lookup.
func (v *View) Submit(ctx context.Context, orderID string) (uint64, <-chan struct{}) {
	id := strings.TrimSpace(orderID)
	done := make(chan struct{})

	v.mu.Lock()
	v.seq++
	seq := v.seq
	if id == "" {
		v.state = ViewState{Seq: seq, Err: domain.ErrInvalidInput}
		v.mu.Unlock()
		close(done)
		return seq, done
	}
	v.state = ViewState{Seq: seq, OrderID: id, Pending: true}
	v.mu.Unlock()

	go func() {
		defer close(done)
		lookupCtx := ctx
		if v.timeout > 0 {
			var cancel context.CancelFunc
			lookupCtx, cancel = context.WithTimeout(ctx, v.timeout)
			defer cancel()
		}
		res, err := v.looker.Lookup(lookupCtx, id)
		v.resolve(seq, res, err)
	}()
	return seq, done
}

// State returns the current view state.
func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.state
	if st.Result != nil {
		res := *st.Result
		res.Timeline = append([]TimelineEntry(nil), res.Timeline...)
		st.Result = &res
	}
	return st
}

func (v *View) resolve(seq uint64, res Result, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return false
	}
	v.state.Pending = false
	if err != nil {
		v.state.Err = err
		return true
	}
	v.state.Result = &res
	return true
}
