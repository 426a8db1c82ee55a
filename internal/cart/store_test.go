package cart

import (
	"testing"

	"lumina-commerce/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price int64) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.NewFromInt(price),
		Category: domain.CategoryHome,
		Images:   []string{"https://img.example/" + id + ".jpg"},
	}
}

func TestStore_AddMergesByID(t *testing.T) {
	s := NewStore()
	p1, p2 := product("p1", 100), product("p2", 250)

	s.Add(p1)
	s.Add(p2)
	s.Add(p1)
	s.Add(p1)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "p2", items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 4, s.Count())
	assert.True(t, s.Total().Equal(decimal.NewFromInt(550)), "total %s", s.Total())
}

func TestStore_AddSequenceInvariants(t *testing.T) {
	s := NewStore()
	ids := []string{"a", "b", "a", "c", "b", "a", "d", "a"}
	distinct := map[string]bool{}
	for i, id := range ids {
		s.Add(product(id, 10))
		distinct[id] = true
		assert.LessOrEqual(t, len(s.Items()), len(distinct))
		assert.Equal(t, i+1, s.Count())
	}
}

func TestStore_AddIgnoresStockCeiling(t *testing.T) {
	s := NewStore()
	p := product("p1", 5)
	stock := 1
	p.Stock = &stock

	s.Add(p)
	s.Add(p)

	assert.Equal(t, 2, s.Count())
}

func TestStore_UpdateQuantityScenario(t *testing.T) {
	s := NewStore()
	p1 := product("p1", 100)

	s.Add(p1)
	s.Add(p1)
	s.UpdateQuantity(p1.ID, -1)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	s.UpdateQuantity(p1.ID, -1)
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.Count())
}

func TestStore_UpdateQuantityClampsAtZero(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", 1))
	s.UpdateQuantity("p1", 4)
	assert.Equal(t, 5, s.Count())

	s.UpdateQuantity("p1", -50)
	assert.Empty(t, s.Items())
}

func TestStore_UpdateQuantityUnknownIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", 1))
	s.UpdateQuantity("missing", 3)
	assert.Equal(t, 1, s.Count())
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", 1))
	s.Add(product("p2", 1))

	s.Remove("p1")
	s.Remove("p1")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
}

func TestStore_ClearAlwaysEmpties(t *testing.T) {
	s := NewStore()
	s.Clear()
	assert.Equal(t, 0, s.Count())

	s.Add(product("p1", 1))
	s.Add(product("p2", 1))
	s.UpdateQuantity("p2", 7)
	s.Clear()
	s.Clear()

	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Items())
	assert.True(t, s.Total().IsZero())
}

func TestStore_ItemsAreDetached(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", 1))

	items := s.Items()
	items[0].Quantity = 99
	items[0].Images[0] = "mutated"

	fresh := s.Items()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "https://img.example/p1.jpg", fresh[0].Images[0])
}

func TestStore_DrainEmptiesAndReturnsContents(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", 300))
	s.Add(product("p1", 300))

	snap := s.Drain()

	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Count)
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 0, s.Count())
}

func TestStore_SubscribeReceivesEveryMutation(t *testing.T) {
	s := NewStore()
	var counts []int
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		counts = append(counts, snap.Count)
	})

	s.Add(product("p1", 1))
	s.Add(product("p1", 1))
	s.UpdateQuantity("p1", -1)
	s.Remove("p1")
	unsubscribe()
	s.Add(product("p2", 1))
	unsubscribe()

	assert.Equal(t, []int{1, 2, 1, 0}, counts)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := NewStore()
	var seen int
	s.Subscribe(func(Snapshot) {
		seen = s.Count()
	})

	s.Add(product("p1", 1))

	assert.Equal(t, 1, seen)
}

func TestStore_RestoreIsOneMutation(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", 10))
	s.Add(product("p1", 10))
	s.Add(product("p2", 20))
	drained := s.Drain()

	s.Add(product("p2", 20))
	var counts []int
	s.Subscribe(func(snap Snapshot) {
		counts = append(counts, snap.Count)
	})

	s.Restore(drained.Items)

	assert.Equal(t, []int{4}, counts)
	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p2", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "p1", items[1].ID)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestStore_RestoreEmptyDoesNotNotify(t *testing.T) {
	s := NewStore()
	notified := false
	s.Subscribe(func(Snapshot) { notified = true })

	s.Restore(nil)

	assert.False(t, notified)
}
