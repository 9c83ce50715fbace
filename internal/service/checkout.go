package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/internal/event"
	"github.com/glasscart/storefront/internal/gateway"
	"github.com/glasscart/storefront/internal/orders"
	"github.com/glasscart/storefront/internal/session"
	"github.com/glasscart/storefront/internal/state"
	apperrors "github.com/glasscart/storefront/pkg/errors"
)

// PaymentClient is the subset of the upstream store API the checkout
// pipeline calls.
type PaymentClient interface {
	CreateOrderIntent(ctx context.Context, amount int64, currency, receipt string) (*domain.OrderIntent, error)
	VerifyPayment(ctx context.Context, proof domain.PaymentProof, items []domain.CartLineItem, amount int64) (bool, error)
}

// CheckoutConfig carries the gateway presentation settings.
type CheckoutConfig struct {
	Currency     string
	GatewayKeyID string
	MerchantName string
	Description  string
}

// CheckoutService drives the payment pipeline: snapshot the cart, create a
// backend order, open the gateway widget, verify the proof, record the order,
// and reset the cart. One attempt per user is in flight at a time; a second
// trigger while one is active is rejected, never queued.
//
// The cart is reset only after the backend confirms verification. Every
// failure before that point leaves the cart intact so the shopper can retry.
type CheckoutService struct {
	registry *state.Registry
	payments PaymentClient
	widget   gateway.Widget
	orders   orders.Repository
	producer *event.Producer
	logger   *slog.Logger
	cfg      CheckoutConfig

	mu       sync.Mutex
	attempts map[string]*domain.CheckoutAttempt
	byOrder  map[string]string
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	registry *state.Registry,
	payments PaymentClient,
	widget gateway.Widget,
	orderRepo orders.Repository,
	producer *event.Producer,
	logger *slog.Logger,
	cfg CheckoutConfig,
) *CheckoutService {
	return &CheckoutService{
		registry: registry,
		payments: payments,
		widget:   widget,
		orders:   orderRepo,
		producer: producer,
		logger:   logger,
		cfg:      cfg,
		attempts: make(map[string]*domain.CheckoutAttempt),
		byOrder:  make(map[string]string),
	}
}

// Start begins a checkout attempt for the session's user: it snapshots the
// cart, creates the backend order, and opens the gateway widget. The returned
// attempt is in the awaiting-gateway phase on success.
func (s *CheckoutService) Start(ctx context.Context, sess *session.Session) (*domain.CheckoutAttempt, error) {
	if sess == nil || sess.UserID == "" {
		return nil, apperrors.Unauthorized("session required")
	}

	cart := s.registry.ForUser(sess.UserID).Cart
	snapshot := cart.Items()
	if len(snapshot) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}
	totals := domain.ComputeTotals(snapshot)

	now := time.Now().UTC()
	attempt := &domain.CheckoutAttempt{
		ID:        uuid.New().String(),
		UserID:    sess.UserID,
		Phase:     domain.PhaseAwaitingOrderCreation,
		Receipt:   fmt.Sprintf("receipt_%d", now.UnixMilli()),
		Amount:    totals.Total,
		Currency:  s.cfg.Currency,
		Items:     snapshot,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	if existing, ok := s.attempts[sess.UserID]; ok && !existing.IsTerminal() {
		s.mu.Unlock()
		return nil, apperrors.Conflict("a checkout attempt is already in progress")
	}
	s.attempts[sess.UserID] = attempt
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "checkout started",
		slog.String("attempt_id", attempt.ID),
		slog.String("user_id", sess.UserID),
		slog.Int64("amount", attempt.Amount),
	)

	intent, err := s.payments.CreateOrderIntent(ctx, attempt.Amount, attempt.Currency, attempt.Receipt)
	if err != nil {
		s.fail(ctx, attempt, "order creation failed: "+err.Error())
		return nil, apperrors.PaymentFailed("order creation failed")
	}

	s.mu.Lock()
	attempt.OrderID = intent.OrderID
	attempt.Amount = intent.Amount
	attempt.Currency = intent.Currency
	attempt.Phase = domain.PhaseAwaitingGateway
	attempt.UpdatedAt = time.Now().UTC()
	s.byOrder[intent.OrderID] = sess.UserID
	snapshot2 := *attempt
	s.mu.Unlock()

	opts := gateway.Options{
		OrderID:     intent.OrderID,
		Amount:      intent.Amount,
		Currency:    intent.Currency,
		KeyID:       s.cfg.GatewayKeyID,
		Name:        s.cfg.MerchantName,
		Description: s.cfg.Description,
	}
	if err := s.widget.Open(ctx, opts, s.settle, s.dismissFor(intent.OrderID)); err != nil {
		s.fail(ctx, attempt, "gateway open failed: "+err.Error())
		return nil, fmt.Errorf("open gateway widget: %w", err)
	}

	return &snapshot2, nil
}

// Attempt returns a copy of the user's current checkout attempt.
func (s *CheckoutService) Attempt(ctx context.Context, sess *session.Session) (*domain.CheckoutAttempt, error) {
	if sess == nil || sess.UserID == "" {
		return nil, apperrors.Unauthorized("session required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[sess.UserID]
	if !ok {
		return nil, apperrors.NotFound("checkout attempt", sess.UserID)
	}
	snapshot := *attempt
	return &snapshot, nil
}

// AttemptForOrder returns a copy of the attempt bound to the gateway order.
func (s *CheckoutService) AttemptForOrder(ctx context.Context, orderID string) (*domain.CheckoutAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.byOrder[orderID]
	if !ok {
		return nil, apperrors.NotFound("checkout attempt", orderID)
	}
	attempt, ok := s.attempts[userID]
	if !ok {
		return nil, apperrors.NotFound("checkout attempt", orderID)
	}
	snapshot := *attempt
	return &snapshot, nil
}

// settle is the widget success callback: it verifies the proof with the
// backend, records the order, resets the cart, and marks the attempt settled.
func (s *CheckoutService) settle(ctx context.Context, proof domain.PaymentProof) {
	s.mu.Lock()
	userID, ok := s.byOrder[proof.OrderID]
	if !ok {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "success callback for unknown gateway order",
			slog.String("order_id", proof.OrderID),
		)
		return
	}
	attempt := s.attempts[userID]
	if attempt == nil || attempt.Phase != domain.PhaseAwaitingGateway {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "success callback in unexpected phase",
			slog.String("order_id", proof.OrderID),
		)
		return
	}
	attempt.Phase = domain.PhaseAwaitingVerification
	attempt.PaymentID = proof.PaymentID
	attempt.UpdatedAt = time.Now().UTC()
	items := attempt.Items
	amount := attempt.Amount
	s.mu.Unlock()

	verified, err := s.payments.VerifyPayment(ctx, proof, items, amount)
	if err != nil {
		s.fail(ctx, attempt, "verification failed: "+err.Error())
		return
	}
	if !verified {
		s.fail(ctx, attempt, "payment proof rejected")
		return
	}

	totals := domain.ComputeTotals(items)
	order := &domain.Order{
		ID:        attempt.ID,
		UserID:    attempt.UserID,
		PaymentID: proof.PaymentID,
		Items:     items,
		Subtotal:  totals.Subtotal,
		Tax:       totals.Tax,
		Total:     totals.Total,
		Currency:  attempt.Currency,
		PlacedAt:  time.Now().UTC(),
	}

	// Order history is a side record: a write failure is logged, not
	// propagated, because the payment has already been captured.
	if err := s.orders.Record(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to record settled order",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.registry.ForUser(attempt.UserID).Cart.Reset()

	s.mu.Lock()
	attempt.Phase = domain.PhaseSettled
	attempt.UpdatedAt = time.Now().UTC()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "checkout settled",
		slog.String("attempt_id", attempt.ID),
		slog.String("user_id", attempt.UserID),
		slog.String("payment_id", proof.PaymentID),
		slog.Int64("total", order.Total),
	)

	if err := s.producer.PublishOrderSettled(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.settled event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

// dismissFor builds the widget dismiss callback for the given gateway order.
// Dismissal is a terminal but non-error outcome: the cart stays as it was.
func (s *CheckoutService) dismissFor(orderID string) gateway.DismissFunc {
	return func(ctx context.Context) {
		s.mu.Lock()
		userID, ok := s.byOrder[orderID]
		if !ok {
			s.mu.Unlock()
			return
		}
		attempt := s.attempts[userID]
		if attempt == nil || attempt.IsTerminal() {
			s.mu.Unlock()
			return
		}
		attempt.Phase = domain.PhaseCancelled
		attempt.UpdatedAt = time.Now().UTC()
		s.mu.Unlock()

		s.logger.InfoContext(ctx, "checkout cancelled by shopper",
			slog.String("attempt_id", attempt.ID),
			slog.String("user_id", attempt.UserID),
			slog.String("order_id", orderID),
		)
	}
}

func (s *CheckoutService) fail(ctx context.Context, attempt *domain.CheckoutAttempt, reason string) {
	s.mu.Lock()
	attempt.Phase = domain.PhaseFailed
	attempt.FailureReason = reason
	attempt.UpdatedAt = time.Now().UTC()
	s.mu.Unlock()

	s.logger.ErrorContext(ctx, "checkout failed",
		slog.String("attempt_id", attempt.ID),
		slog.String("user_id", attempt.UserID),
		slog.String("reason", reason),
	)
}
