package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glasscart/storefront/internal/domain"
)

func lineItem(id, productID string, qty int, price int64) domain.CartLineItem {
	return domain.CartLineItem{
		ID:        id,
		ProductID: productID,
		UserID:    "user-1",
		Quantity:  qty,
		UnitPrice: price,
		Name:      "Item " + productID,
	}
}

func TestCart_AddDeduplicates(t *testing.T) {
	cart := NewCart()

	added := cart.Add(lineItem("row-1", "prod-1", 1, 500))
	assert.True(t, added)

	// Same composite key under a different storage ID is the same logical entry.
	added = cart.Add(lineItem("row-2", "prod-1", 3, 500))
	assert.False(t, added)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "row-1", items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCart_AddDistinctProducts(t *testing.T) {
	cart := NewCart()

	assert.True(t, cart.Add(lineItem("row-1", "prod-1", 1, 500)))
	assert.True(t, cart.Add(lineItem("row-2", "prod-2", 1, 700)))

	assert.Len(t, cart.Items(), 2)
}

func TestCart_ReplaceAllCopiesInput(t *testing.T) {
	cart := NewCart()
	source := []domain.CartLineItem{lineItem("row-1", "prod-1", 2, 500)}

	cart.ReplaceAll(source)
	source[0].Quantity = 99

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCart_RemoveAbsentIsNoop(t *testing.T) {
	cart := NewCart()
	cart.Add(lineItem("row-1", "prod-1", 1, 500))

	assert.False(t, cart.Remove("ghost"))
	assert.Len(t, cart.Items(), 1)

	assert.True(t, cart.Remove("row-1"))
	assert.Empty(t, cart.Items())
}

func TestCart_IncrementDecrement(t *testing.T) {
	cart := NewCart()
	cart.Add(lineItem("row-1", "prod-1", 2, 500))

	assert.True(t, cart.Increment("row-1"))
	item, ok := cart.Get("row-1")
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)

	assert.True(t, cart.Decrement("row-1"))
	item, _ = cart.Get("row-1")
	assert.Equal(t, 2, item.Quantity)

	assert.False(t, cart.Increment("ghost"))
	assert.False(t, cart.Decrement("ghost"))
}

func TestCart_ResetKeepsCoupon(t *testing.T) {
	cart := NewCart()
	cart.Add(lineItem("row-1", "prod-1", 1, 500))
	cart.SetCoupon(250)

	cart.Reset()

	assert.Empty(t, cart.Items())
	assert.Equal(t, int64(250), cart.Coupon())
}

func TestCart_ViewComputesTotals(t *testing.T) {
	cart := NewCart()
	cart.Add(lineItem("row-1", "prod-1", 2, 1199))
	cart.Add(lineItem("row-2", "prod-2", 1, 3000))

	view := cart.View()

	assert.Equal(t, int64(5398), view.Totals.Subtotal)
	assert.InDelta(t, 971.64, view.Totals.Tax, 0.001)
	assert.Equal(t, int64(6370), view.Totals.Total)
}

func TestCart_ItemsReturnsSnapshot(t *testing.T) {
	cart := NewCart()
	cart.Add(lineItem("row-1", "prod-1", 1, 500))

	items := cart.Items()
	items[0].Quantity = 42

	fresh := cart.Items()
	assert.Equal(t, 1, fresh[0].Quantity)
}

func TestCart_ConcurrentTransitions(t *testing.T) {
	cart := NewCart()
	cart.Add(lineItem("row-1", "prod-1", 100, 500))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cart.Increment("row-1")
		}()
		go func() {
			defer wg.Done()
			cart.Decrement("row-1")
		}()
	}
	wg.Wait()

	item, ok := cart.Get("row-1")
	require.True(t, ok)
	assert.Equal(t, 100, item.Quantity)
}

func TestWishlist_AddDeduplicates(t *testing.T) {
	wl := NewWishlist()

	added := wl.Add(domain.WishlistItem{ID: "row-1", ProductID: "prod-1", UserID: "user-1"})
	assert.True(t, added)

	added = wl.Add(domain.WishlistItem{ID: "row-2", ProductID: "prod-1", UserID: "user-1"})
	assert.False(t, added)

	assert.Len(t, wl.Items(), 1)
}

func TestWishlist_RemoveAbsentIsNoop(t *testing.T) {
	wl := NewWishlist()
	wl.Add(domain.WishlistItem{ID: "row-1", ProductID: "prod-1", UserID: "user-1"})

	assert.False(t, wl.Remove("ghost"))
	assert.True(t, wl.Remove("row-1"))
	assert.Empty(t, wl.Items())
}

func TestRegistry_ForUserConstructsOnce(t *testing.T) {
	registry := NewRegistry()

	first := registry.ForUser("user-1")
	first.Cart.Add(lineItem("row-1", "prod-1", 1, 500))

	second := registry.ForUser("user-1")
	assert.Same(t, first, second)
	assert.Len(t, second.Cart.Items(), 1)
}

func TestRegistry_UsersAreIsolated(t *testing.T) {
	registry := NewRegistry()

	registry.ForUser("user-1").Cart.Add(lineItem("row-1", "prod-1", 1, 500))

	assert.Empty(t, registry.ForUser("user-2").Cart.Items())
}

func TestRegistry_DropDiscardsState(t *testing.T) {
	registry := NewRegistry()
	registry.ForUser("user-1").Cart.Add(lineItem("row-1", "prod-1", 1, 500))

	registry.Drop("user-1")

	assert.Empty(t, registry.ForUser("user-1").Cart.Items())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n%4)
			registry.ForUser(userID).Cart.Add(lineItem(
				fmt.Sprintf("row-%d", n),
				fmt.Sprintf("prod-%d", n),
				1, 100,
			))
		}(i)
	}
	wg.Wait()

	assert.Len(t, registry.ForUser("user-0").Cart.Items(), 5)
}
