package state

import (
	"sync"

	"github.com/glasscart/storefront/internal/domain"
)

// Cart is the in-memory cart state container. It owns the authoritative item
// list and coupon for one user; every other component reads snapshots or
// requests transitions through the methods below, never mutating the
// aggregate directly.
//
// All transitions are synchronous and leave the container valid under rapid
// repeated calls: Add is idempotent per composite key, and absent-ID
// operations are no-ops. Decrement deliberately does not enforce the
// remove-at-zero invariant; the synchronization workflow reroutes a
// decrement-to-zero to the remove path before it ever reaches the container.
type Cart struct {
	mu     sync.Mutex
	items  []domain.CartLineItem
	coupon int64
}

// NewCart returns an empty cart container.
func NewCart() *Cart {
	return &Cart{}
}

// ReplaceAll swaps the item list wholesale. Used after loading a user's
// persisted cart; the source is already deduplicated upstream.
func (c *Cart) ReplaceAll(items []domain.CartLineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]domain.CartLineItem, len(items))
	copy(c.items, items)
}

// Add inserts the item unless a line with the same (productID, userID) key
// already exists. Returns true if the item was inserted.
func (c *Cart) Add(item domain.CartLineItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.items {
		if existing.Key() == item.Key() {
			return false
		}
	}
	c.items = append(c.items, item)
	return true
}

// Remove deletes the line item with the given storage ID. No-op if absent.
func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Increment raises the matching line's quantity by one. No-op if absent.
func (c *Cart) Increment(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity++
			return true
		}
	}
	return false
}

// Decrement lowers the matching line's quantity by one. No-op if absent.
// Callers must route a decrement that would reach zero to Remove instead.
func (c *Cart) Decrement(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity--
			return true
		}
	}
	return false
}

// SetCoupon overwrites the coupon value.
func (c *Cart) SetCoupon(value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = value
}

// Reset empties the item list. The coupon is left as-is.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Get returns the line item with the given storage ID.
func (c *Cart) Get(id string) (domain.CartLineItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.CartLineItem{}, false
}

// Items returns a copy of the item list in stable insertion order.
func (c *Cart) Items() []domain.CartLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]domain.CartLineItem, len(c.items))
	copy(snapshot, c.items)
	return snapshot
}

// Coupon returns the current coupon value.
func (c *Cart) Coupon() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coupon
}

// View builds the derived view state: the item snapshot, the coupon, and
// freshly computed totals.
func (c *Cart) View() domain.CartView {
	items := c.Items()
	return domain.CartView{
		Items:  items,
		Coupon: c.Coupon(),
		Totals: domain.ComputeTotals(items),
	}
}
