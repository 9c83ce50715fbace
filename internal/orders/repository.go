package orders

import (
	"context"

	"github.com/glasscart/storefront/internal/domain"
)

// Repository persists settled orders. Recording happens after payment
// verification; listing backs the order history view.
type Repository interface {
	Record(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
