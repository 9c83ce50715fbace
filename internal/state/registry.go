package state

import "sync"

// UserState bundles one user's cart and wishlist containers.
type UserState struct {
	Cart     *Cart
	Wishlist *Wishlist
}

// Registry holds the per-user state containers. It replaces the original
// design's module-level store: explicitly constructed, injected into the
// workflows, initialized empty, and torn down per user on logout.
type Registry struct {
	mu    sync.Mutex
	users map[string]*UserState
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]*UserState)}
}

// ForUser returns the containers for the given user, constructing empty ones
// on first access.
func (r *Registry) ForUser(userID string) *UserState {
	r.mu.Lock()
	defer r.mu.Unlock()
	us, ok := r.users[userID]
	if !ok {
		us = &UserState{Cart: NewCart(), Wishlist: NewWishlist()}
		r.users[userID] = us
	}
	return us
}

// Drop discards the user's containers. Called on logout so a later session
// starts from a clean slate.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
}
