package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menden/shop-api/internal/domain"
	"github.com/menden/shop-api/internal/session"
)

func setupManager(t *testing.T) *Manager {
	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { store.Close() })
	return NewManager(store)
}

func TestAddItem_MergesQuantities(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	_, err := m.AddItem(ctx, "tok", domain.CartItem{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	merged, err := m.AddItem(ctx, "tok", domain.CartItem{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, 5, merged.Quantity)

	items, err := m.Items(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := m.AddItem(ctx, "tok", domain.CartItem{ProductID: id, Quantity: 1})
		require.NoError(t, err)
	}
	// Merging into "a" must not move it to the end.
	_, err := m.AddItem(ctx, "tok", domain.CartItem{ProductID: "a", Quantity: 1})
	require.NoError(t, err)

	items, err := m.Items(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ProductID)
	assert.Equal(t, "b", items[1].ProductID)
	assert.Equal(t, "c", items[2].ProductID)
}

func TestAddItem_CarriesProductFields(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	item := domain.CartItem{
		ProductID: "p1",
		Quantity:  1,
		Fields:    map[string]any{"Name": "Cleanser", "Price": 12.5},
	}
	_, err := m.AddItem(ctx, "tok", item)
	require.NoError(t, err)

	got, ok, err := m.Item(ctx, "tok", "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Cleanser", got.Fields["Name"])
}

func TestItems_EmptyWithoutSession(t *testing.T) {
	m := setupManager(t)

	items, err := m.Items(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveItem_AbsentIsNoOp(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	_, err := m.AddItem(ctx, "tok", domain.CartItem{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	remaining, err := m.RemoveItem(ctx, "tok", "not-there")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "p1", remaining[0].ProductID)
}

func TestRemoveItem_RemovesMatching(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	_, err := m.AddItem(ctx, "tok", domain.CartItem{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	_, err = m.AddItem(ctx, "tok", domain.CartItem{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)

	remaining, err := m.RemoveItem(ctx, "tok", "p1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "p2", remaining[0].ProductID)

	_, ok, err := m.Item(ctx, "tok", "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetQuantity(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	_, err := m.AddItem(ctx, "tok", domain.CartItem{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	items, err := m.SetQuantity(ctx, "tok", "p1", 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)

	// Absent product: cart unchanged, no error.
	items, err = m.SetQuantity(ctx, "tok", "ghost", 9)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestAddItem_ConcurrentSameSession(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := m.AddItem(ctx, "tok", domain.CartItem{ProductID: "p1", Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := m.Items(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, workers, items[0].Quantity)
}

func TestRecordVisit(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	n, err := m.RecordVisit(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = m.RecordVisit(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
