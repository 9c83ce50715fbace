package gateway

import (
	"context"
	"log/slog"
	"sync"

	"github.com/glasscart/storefront/internal/domain"
	apperrors "github.com/glasscart/storefront/pkg/errors"
)

// Bridge connects the hosted gateway widget to the checkout workflow. Open
// registers an order's callbacks; the widget outcome arrives later over HTTP
// and is routed to Success or Dismiss by the handler layer.
//
// Each registered order resolves at most once. The first of Success or Dismiss
// wins, the loser and any repeat delivery get a not-found error, which keeps a
// double-submitted widget callback from settling the same attempt twice.
type Bridge struct {
	mu      sync.Mutex
	pending map[string]*pendingOrder
	logger  *slog.Logger
}

type pendingOrder struct {
	once      sync.Once
	onSuccess SuccessFunc
	onDismiss DismissFunc
}

// NewBridge returns a bridge with no pending orders.
func NewBridge(logger *slog.Logger) *Bridge {
	return &Bridge{
		pending: make(map[string]*pendingOrder),
		logger:  logger,
	}
}

// Open registers the order for outcome delivery. It rejects an order ID that
// is already pending.
func (b *Bridge) Open(ctx context.Context, opts Options, onSuccess SuccessFunc, onDismiss DismissFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.pending[opts.OrderID]; exists {
		return apperrors.Conflict("gateway order already pending: " + opts.OrderID)
	}
	b.pending[opts.OrderID] = &pendingOrder{
		onSuccess: onSuccess,
		onDismiss: onDismiss,
	}

	b.logger.InfoContext(ctx, "gateway widget opened",
		slog.String("order_id", opts.OrderID),
		slog.Int64("amount", opts.Amount),
		slog.String("currency", opts.Currency),
	)
	return nil
}

// Success delivers the payment proof for a pending order.
func (b *Bridge) Success(ctx context.Context, proof domain.PaymentProof) error {
	p, err := b.take(proof.OrderID)
	if err != nil {
		return err
	}
	p.once.Do(func() {
		b.logger.InfoContext(ctx, "gateway payment completed",
			slog.String("order_id", proof.OrderID),
			slog.String("payment_id", proof.PaymentID),
		)
		p.onSuccess(ctx, proof)
	})
	return nil
}

// Dismiss reports that the shopper closed the widget for a pending order.
func (b *Bridge) Dismiss(ctx context.Context, orderID string) error {
	p, err := b.take(orderID)
	if err != nil {
		return err
	}
	p.once.Do(func() {
		b.logger.InfoContext(ctx, "gateway widget dismissed",
			slog.String("order_id", orderID),
		)
		p.onDismiss(ctx)
	})
	return nil
}

// take removes and returns the pending entry for orderID. Removal under the
// lock makes the first outcome the only one that ever sees the entry.
func (b *Bridge) take(orderID string) (*pendingOrder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[orderID]
	if !ok {
		return nil, apperrors.NotFound("gateway order", orderID)
	}
	delete(b.pending, orderID)
	return p, nil
}
