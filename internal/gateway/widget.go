package gateway

import (
	"context"

	"github.com/glasscart/storefront/internal/domain"
)

// Options configures a single widget presentation.
type Options struct {
	OrderID     string
	Amount      int64
	Currency    string
	KeyID       string
	Name        string
	Description string
}

// SuccessFunc receives the gateway proof tokens when the shopper completes
// payment in the widget.
type SuccessFunc func(ctx context.Context, proof domain.PaymentProof)

// DismissFunc runs when the shopper closes the widget without paying.
type DismissFunc func(ctx context.Context)

// Widget is the opaque payment surface. Open hands an order to the gateway UI
// and registers the two possible outcomes. For any one Open call, exactly one
// of onSuccess or onDismiss fires, at most once; the widget never invokes
// both, and late or repeated outcomes are swallowed by the implementation.
type Widget interface {
	Open(ctx context.Context, opts Options, onSuccess SuccessFunc, onDismiss DismissFunc) error
}
