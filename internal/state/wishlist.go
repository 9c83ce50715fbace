package state

import (
	"sync"

	"github.com/glasscart/storefront/internal/domain"
)

// Wishlist is the in-memory wishlist state container. It mirrors the cart
// container's dedup and no-op semantics but carries no quantities or coupon.
type Wishlist struct {
	mu    sync.Mutex
	items []domain.WishlistItem
}

// NewWishlist returns an empty wishlist container.
func NewWishlist() *Wishlist {
	return &Wishlist{}
}

// ReplaceAll swaps the item list wholesale.
func (w *Wishlist) ReplaceAll(items []domain.WishlistItem) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = make([]domain.WishlistItem, len(items))
	copy(w.items, items)
}

// Add inserts the item unless a line with the same (productID, userID) key
// already exists. Returns true if the item was inserted.
func (w *Wishlist) Add(item domain.WishlistItem) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.items {
		if existing.Key() == item.Key() {
			return false
		}
	}
	w.items = append(w.items, item)
	return true
}

// Remove deletes the item with the given storage ID. No-op if absent.
func (w *Wishlist) Remove(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, item := range w.items {
		if item.ID == id {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return true
		}
	}
	return false
}

// Reset empties the item list.
func (w *Wishlist) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = nil
}

// Items returns a copy of the item list in stable insertion order.
func (w *Wishlist) Items() []domain.WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	snapshot := make([]domain.WishlistItem, len(w.items))
	copy(snapshot, w.items)
	return snapshot
}
