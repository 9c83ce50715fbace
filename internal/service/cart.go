package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/internal/event"
	"github.com/glasscart/storefront/internal/session"
	"github.com/glasscart/storefront/internal/state"
	apperrors "github.com/glasscart/storefront/pkg/errors"
	"github.com/glasscart/storefront/pkg/httpclient"
	"github.com/glasscart/storefront/pkg/validator"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart line.
	MaxQuantityPerItem = 100
	// MaxPriceSubunits is the maximum unit price (1,000,000.00) allowed per item.
	MaxPriceSubunits = 1_000_000_00
)

// CartStore is the subset of the upstream store API the cart workflow calls.
type CartStore interface {
	FetchCart(ctx context.Context, userID string) ([]domain.CartLineItem, error)
	CreateCartItem(ctx context.Context, item domain.CartLineItem) (string, error)
	PatchCartQuantity(ctx context.Context, id string, quantity int) error
	DeleteCartItem(ctx context.Context, id string) error
}

// AddItemInput holds the parameters for adding an item to the cart.
type AddItemInput struct {
	ProductID    string `json:"product_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	UnitPrice    int64  `json:"unit_price" validate:"gte=0"`
	DisplayPrice int64  `json:"display_price" validate:"gte=0"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
	ImageURL     string `json:"image_url"`
	Category     string `json:"category"`
}

// CartService runs the cart synchronization workflow. Every mutation calls
// the upstream store first and then transitions the in-memory container:
// a backend validation rejection keeps the local state untouched, while an
// unreachable backend still yields the local transition plus a warning notice
// so the shopper keeps a working cart during an outage.
type CartService struct {
	registry *state.Registry
	store    CartStore
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(registry *state.Registry, store CartStore, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		registry: registry,
		store:    store,
		producer: producer,
		logger:   logger,
	}
}

// Load fetches the user's persisted cart and replaces the local container
// with it. Without a session it returns the empty view and skips the fetch.
func (s *CartService) Load(ctx context.Context, sess *session.Session) (domain.CartView, error) {
	if sess == nil || sess.UserID == "" {
		return state.NewCart().View(), nil
	}

	cart := s.registry.ForUser(sess.UserID).Cart

	items, err := s.store.FetchCart(ctx, sess.UserID)
	if err != nil {
		return domain.CartView{}, fmt.Errorf("load cart: %w", err)
	}

	cart.ReplaceAll(items)

	s.logger.DebugContext(ctx, "cart loaded",
		slog.String("user_id", sess.UserID),
		slog.Int("item_count", len(items)),
	)

	return cart.View(), nil
}

// AddItem creates the line item upstream and inserts it locally. Duplicate
// adds for the same (product, user) pair are idempotent on both sides.
func (s *CartService) AddItem(ctx context.Context, sess *session.Session, input AddItemInput) (domain.CartView, *domain.Notice, error) {
	if sess == nil || sess.UserID == "" {
		return domain.CartView{}, nil, apperrors.Unauthorized("session required")
	}
	if err := validator.Validate(input); err != nil {
		return domain.CartView{}, nil, apperrors.InvalidInput(err.Error())
	}
	if input.UnitPrice > MaxPriceSubunits {
		return domain.CartView{}, nil, apperrors.InvalidInput(fmt.Sprintf("unit price must not exceed %d", MaxPriceSubunits))
	}
	if input.Quantity > MaxQuantityPerItem {
		return domain.CartView{}, nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	cart := s.registry.ForUser(sess.UserID).Cart

	item := domain.CartLineItem{
		ProductID:    input.ProductID,
		UserID:       sess.UserID,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		DisplayPrice: input.DisplayPrice,
		Name:         input.Name,
		ImageURL:     input.ImageURL,
		Category:     input.Category,
	}

	var notice *domain.Notice
	id, err := s.store.CreateCartItem(ctx, item)
	switch {
	case err == nil:
		item.ID = id
		cart.Add(item)
	case isValidationRejected(err):
		// The backend refused the write, so the local container stays as it
		// is. The most common cause is a duplicate add, which the local dedup
		// already made a no-op.
		notice = domain.InfoNotice(domain.NoticeCodeAlreadyExists, rejectionMessage(err))
		s.logger.InfoContext(ctx, "cart add rejected by store",
			slog.String("user_id", sess.UserID),
			slog.String("product_id", input.ProductID),
			slog.String("reason", err.Error()),
		)
	default:
		// Store unreachable: apply the transition locally under a synthetic
		// ID so later operations can still address the line.
		item.ID = "local-" + uuid.New().String()
		cart.Add(item)
		notice = domain.WarningNotice(domain.NoticeCodeSyncDegraded, "item added locally; store sync failed")
		s.logger.WarnContext(ctx, "cart add applied locally, store unreachable",
			slog.String("user_id", sess.UserID),
			slog.String("product_id", input.ProductID),
			slog.String("error", err.Error()),
		)
	}

	view := cart.View()
	s.publishCartUpdated(ctx, sess.UserID, view)
	return view, notice, nil
}

// RemoveItem deletes the line item upstream and locally. A failed remote
// delete still removes the line locally with a warning notice.
func (s *CartService) RemoveItem(ctx context.Context, sess *session.Session, id string) (domain.CartView, *domain.Notice, error) {
	if sess == nil || sess.UserID == "" {
		return domain.CartView{}, nil, apperrors.Unauthorized("session required")
	}

	cart := s.registry.ForUser(sess.UserID).Cart

	var notice *domain.Notice
	if err := s.store.DeleteCartItem(ctx, id); err != nil && !isValidationRejected(err) {
		notice = domain.WarningNotice(domain.NoticeCodeSyncDegraded, "item removed locally; store sync failed")
		s.logger.WarnContext(ctx, "cart remove applied locally, store unreachable",
			slog.String("user_id", sess.UserID),
			slog.String("item_id", id),
			slog.String("error", err.Error()),
		)
	}
	cart.Remove(id)

	view := cart.View()
	s.publishCartUpdated(ctx, sess.UserID, view)
	return view, notice, nil
}

// IncrementItem raises the line's quantity by one. Absent IDs are a no-op.
func (s *CartService) IncrementItem(ctx context.Context, sess *session.Session, id string) (domain.CartView, *domain.Notice, error) {
	if sess == nil || sess.UserID == "" {
		return domain.CartView{}, nil, apperrors.Unauthorized("session required")
	}

	cart := s.registry.ForUser(sess.UserID).Cart

	item, ok := cart.Get(id)
	if !ok {
		return cart.View(), nil, nil
	}
	if item.Quantity >= MaxQuantityPerItem {
		return domain.CartView{}, nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	var notice *domain.Notice
	err := s.store.PatchCartQuantity(ctx, id, item.Quantity+1)
	switch {
	case err == nil:
		cart.Increment(id)
	case isValidationRejected(err):
		s.logger.InfoContext(ctx, "cart increment rejected by store",
			slog.String("user_id", sess.UserID),
			slog.String("item_id", id),
			slog.String("reason", err.Error()),
		)
	default:
		cart.Increment(id)
		notice = domain.WarningNotice(domain.NoticeCodeSyncDegraded, "quantity updated locally; store sync failed")
		s.logger.WarnContext(ctx, "cart increment applied locally, store unreachable",
			slog.String("user_id", sess.UserID),
			slog.String("item_id", id),
			slog.String("error", err.Error()),
		)
	}

	view := cart.View()
	s.publishCartUpdated(ctx, sess.UserID, view)
	return view, notice, nil
}

// DecrementItem lowers the line's quantity by one. A decrement that would
// reach zero is rerouted to the remove path so a quantity never goes below
// one. Absent IDs are a no-op.
func (s *CartService) DecrementItem(ctx context.Context, sess *session.Session, id string) (domain.CartView, *domain.Notice, error) {
	if sess == nil || sess.UserID == "" {
		return domain.CartView{}, nil, apperrors.Unauthorized("session required")
	}

	cart := s.registry.ForUser(sess.UserID).Cart

	item, ok := cart.Get(id)
	if !ok {
		return cart.View(), nil, nil
	}

	if item.Quantity <= 1 {
		view, notice, err := s.RemoveItem(ctx, sess, id)
		if err != nil {
			return view, notice, err
		}
		if notice == nil {
			notice = domain.InfoNotice(domain.NoticeCodeItemRemoved, "item removed from cart")
		}
		return view, notice, nil
	}

	var notice *domain.Notice
	err := s.store.PatchCartQuantity(ctx, id, item.Quantity-1)
	switch {
	case err == nil:
		cart.Decrement(id)
	case isValidationRejected(err):
		s.logger.InfoContext(ctx, "cart decrement rejected by store",
			slog.String("user_id", sess.UserID),
			slog.String("item_id", id),
			slog.String("reason", err.Error()),
		)
	default:
		cart.Decrement(id)
		notice = domain.WarningNotice(domain.NoticeCodeSyncDegraded, "quantity updated locally; store sync failed")
		s.logger.WarnContext(ctx, "cart decrement applied locally, store unreachable",
			slog.String("user_id", sess.UserID),
			slog.String("item_id", id),
			slog.String("error", err.Error()),
		)
	}

	view := cart.View()
	s.publishCartUpdated(ctx, sess.UserID, view)
	return view, notice, nil
}

// SetCoupon stores the coupon value on the local container. The coupon is
// display-only and never enters the payable total.
func (s *CartService) SetCoupon(ctx context.Context, sess *session.Session, value int64) (domain.CartView, error) {
	if sess == nil || sess.UserID == "" {
		return domain.CartView{}, apperrors.Unauthorized("session required")
	}
	if value < 0 {
		return domain.CartView{}, apperrors.InvalidInput("coupon must not be negative")
	}

	cart := s.registry.ForUser(sess.UserID).Cart
	cart.SetCoupon(value)
	return cart.View(), nil
}

// View returns the current derived view without touching the store.
func (s *CartService) View(ctx context.Context, sess *session.Session) (domain.CartView, error) {
	if sess == nil || sess.UserID == "" {
		return state.NewCart().View(), nil
	}
	return s.registry.ForUser(sess.UserID).Cart.View(), nil
}

func (s *CartService) publishCartUpdated(ctx context.Context, userID string, view domain.CartView) {
	if err := s.producer.PublishCartUpdated(ctx, userID, view); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// isValidationRejected reports whether the store refused the request as
// invalid, as opposed to being unreachable or broken. Only a structured 4xx
// counts; 503 is grouped with outages even though it carries an AppError.
func isValidationRejected(err error) bool {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return httpclient.IsClientError(appErr.Status)
}

// rejectionMessage extracts the store's message from a validation rejection.
func rejectionMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
