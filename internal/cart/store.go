// Package cart holds the shopper's current selection.
package cart

import (
	"sync"

	"lumina-commerce/internal/domain"

	"github.com/shopspring/decimal"
)

// Snapshot is a detached copy of the cart contents.
type Snapshot struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"cartCount"`
	Total decimal.Decimal   `json:"total"`
}

// Store owns a cart. All mutation goes through Add, UpdateQuantity, Remove and
// Clear; none of them fail. Each call is applied fully before the next one.
type Store struct {
	mu     sync.Mutex
	items  []domain.CartItem
	subs   map[int]func(Snapshot)
	nextID int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(Snapshot))}
}

// Add increments the quantity of the product already in the cart, or inserts it
// with quantity 1.
func (s *Store) Add(p domain.Product) {
	s.mutate(func() {
		if i := s.indexOf(p.ID); i >= 0 {
			s.items[i].Quantity++
			return
		}
		item := domain.CartItem{Product: p, Quantity: 1}
		s.items = append(s.items, item.Clone())
	})
}

// UpdateQuantity moves the quantity of id by delta, clamped at zero. An item
// reaching zero is removed. Unknown ids are ignored.
func (s *Store) UpdateQuantity(id string, delta int) {
	s.mutate(func() {
		i := s.indexOf(id)
		if i < 0 {
			return
		}
		qty := max(0, s.items[i].Quantity+delta)
		if qty == 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
		s.items[i].Quantity = qty
	})
}

// Remove drops id from the cart if present.
func (s *Store) Remove(id string) {
	s.mutate(func() {
		if i := s.indexOf(id); i >= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
	})
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mutate(func() {
		s.items = nil
	})
}

// Count is the sum of all quantities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.items)
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Total is the sum of price times quantity.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.items)
}

// Snapshot returns items, count and total read under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Drain returns the current contents and empties the cart in one step, so no
// other mutation can land between the read and the clear.
func (s *Store) Drain() Snapshot {
	var snap Snapshot
	s.mutate(func() {
		snap = s.snapshotLocked()
		s.items = nil
	})
	return snap
}

// Restore merges items back into the cart as one mutation. Quantities add to
// any line already present; new lines are appended in the given order.
func (s *Store) Restore(items []domain.CartItem) {
	if len(items) == 0 {
		return
	}
	s.mutate(func() {
		for _, it := range items {
			if it.Quantity <= 0 {
				continue
			}
			if i := s.indexOf(it.ID); i >= 0 {
				s.items[i].Quantity += it.Quantity
				continue
			}
			s.items = append(s.items, it.Clone())
		}
	})
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) mutate(apply func()) {
	s.mu.Lock()
	apply()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	// Observers run outside the lock so they may read the store again.
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items: cloneItems(s.items),
		Count: count(s.items),
		Total: total(s.items),
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func count(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func total(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.Clone())
	}
	return out
}
