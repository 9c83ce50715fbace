package domain

import "time"

// Checkout attempt phase constants. An attempt moves strictly forward through
// the pipeline and ends in exactly one terminal phase.
const (
	PhaseAwaitingOrderCreation = "awaiting_order_creation"
	PhaseAwaitingGateway       = "awaiting_gateway_interaction"
	PhaseAwaitingVerification  = "awaiting_verification"
	PhaseSettled               = "settled"
	PhaseFailed                = "failed"
	PhaseCancelled             = "cancelled"
)

// CheckoutAttempt tracks a single pass through the payment pipeline.
type CheckoutAttempt struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Phase         string         `json:"phase"`
	OrderID       string         `json:"order_id,omitempty"`
	Receipt       string         `json:"receipt"`
	Amount        int64          `json:"amount"`
	Currency      string         `json:"currency"`
	Items         []CartLineItem `json:"items"`
	PaymentID     string         `json:"payment_id,omitempty"`
	FailureReason string         `json:"failure_reason,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// IsTerminal reports whether the attempt has reached a final phase.
func (a *CheckoutAttempt) IsTerminal() bool {
	return a.Phase == PhaseSettled || a.Phase == PhaseFailed || a.Phase == PhaseCancelled
}

// OrderIntent is the record returned by the backend when a payment order is
// created ahead of opening the gateway widget.
type OrderIntent struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentProof carries the gateway-issued tokens delivered by the widget's
// success callback. The backend validates the signature server-side.
type PaymentProof struct {
	OrderID   string `json:"gateway_order_id"`
	PaymentID string `json:"gateway_payment_id"`
	Signature string `json:"gateway_signature"`
}

// Order is a settled order recorded in the order history after successful
// payment verification.
type Order struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	PaymentID string         `json:"payment_id"`
	Items     []CartLineItem `json:"items"`
	Subtotal  int64          `json:"subtotal"`
	Tax       float64        `json:"tax"`
	Total     int64          `json:"total"`
	Currency  string         `json:"currency"`
	PlacedAt  time.Time      `json:"placed_at"`
}
