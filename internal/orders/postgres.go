package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/pkg/database"
)

// PostgresRepository implements Repository using PostgreSQL. Line items are
// stored denormalized as JSONB on the order row: the history view always
// reads whole orders and the items are immutable once settled.
type PostgresRepository struct {
	pool database.DBTX
}

// NewPostgresRepository creates a new PostgreSQL-backed order repository.
func NewPostgresRepository(pool database.DBTX) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Record inserts a settled order.
func (r *PostgresRepository) Record(ctx context.Context, o *domain.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, payment_id, items, subtotal, tax, total, currency, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		o.ID,
		o.UserID,
		o.PaymentID,
		itemsJSON,
		o.Subtotal,
		o.Tax,
		o.Total,
		o.Currency,
		o.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// ListByUser returns the user's orders, most recent first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, payment_id, items, subtotal, tax, total, currency, placed_at
		FROM orders
		WHERE user_id = $1
		ORDER BY placed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Order, 0)
	for rows.Next() {
		var (
			o         domain.Order
			itemsJSON []byte
		)
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.PaymentID,
			&itemsJSON,
			&o.Subtotal,
			&o.Tax,
			&o.Total,
			&o.Currency,
			&o.PlacedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		if len(itemsJSON) > 0 && string(itemsJSON) != "null" {
			if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
				return nil, fmt.Errorf("unmarshal order items: %w", err)
			}
		} else {
			o.Items = []domain.CartLineItem{}
		}

		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return result, nil
}
