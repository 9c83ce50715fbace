package session

import (
	"context"
	"time"
)

// Session is the authenticated shopper identity attached to every storefront
// request. It is the source of the user ID that scopes cart and wishlist
// state; a request without one operates on nothing.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider persists sessions keyed by opaque token.
type Provider interface {
	Get(ctx context.Context, token string) (*Session, error)
	Put(ctx context.Context, token string, sess *Session) error
	Delete(ctx context.Context, token string) error
}
