package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/internal/event"
	"github.com/glasscart/storefront/internal/session"
	"github.com/glasscart/storefront/internal/state"
	apperrors "github.com/glasscart/storefront/pkg/errors"
)

// WishlistStore is the subset of the upstream store API the wishlist
// workflow calls.
type WishlistStore interface {
	FetchWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	CreateWishlistItem(ctx context.Context, item domain.WishlistItem) (string, error)
	DeleteWishlistItem(ctx context.Context, id string) error
}

// SaveItemInput holds the parameters for saving an item to the wishlist.
type SaveItemInput struct {
	ProductID    string `json:"product_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	UnitPrice    int64  `json:"unit_price" validate:"gte=0"`
	DisplayPrice int64  `json:"display_price" validate:"gte=0"`
	ImageURL     string `json:"image_url"`
	Category     string `json:"category"`
}

// WishlistService runs the wishlist synchronization workflow under the same
// optimistic policy as the cart: remote write first, local transition after,
// local transition anyway with a warning when the store is unreachable.
type WishlistService struct {
	registry *state.Registry
	store    WishlistStore
	producer *event.Producer
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(registry *state.Registry, store WishlistStore, producer *event.Producer, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		registry: registry,
		store:    store,
		producer: producer,
		logger:   logger,
	}
}

// Load fetches the user's persisted wishlist and replaces the local container.
func (s *WishlistService) Load(ctx context.Context, sess *session.Session) ([]domain.WishlistItem, error) {
	if sess == nil || sess.UserID == "" {
		return []domain.WishlistItem{}, nil
	}

	wishlist := s.registry.ForUser(sess.UserID).Wishlist

	items, err := s.store.FetchWishlist(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}

	wishlist.ReplaceAll(items)
	return wishlist.Items(), nil
}

// SaveItem creates the wishlist item upstream and inserts it locally.
// Duplicate saves for the same (product, user) pair are idempotent.
func (s *WishlistService) SaveItem(ctx context.Context, sess *session.Session, input SaveItemInput) ([]domain.WishlistItem, *domain.Notice, error) {
	if sess == nil || sess.UserID == "" {
		return nil, nil, apperrors.Unauthorized("session required")
	}
	if input.ProductID == "" {
		return nil, nil, apperrors.InvalidInput("product id is required")
	}
	if input.UnitPrice < 0 {
		return nil, nil, apperrors.InvalidInput("unit price must not be negative")
	}

	wishlist := s.registry.ForUser(sess.UserID).Wishlist

	item := domain.WishlistItem{
		ProductID:    input.ProductID,
		UserID:       sess.UserID,
		UnitPrice:    input.UnitPrice,
		DisplayPrice: input.DisplayPrice,
		Name:         input.Name,
		ImageURL:     input.ImageURL,
		Category:     input.Category,
	}

	var notice *domain.Notice
	id, err := s.store.CreateWishlistItem(ctx, item)
	switch {
	case err == nil:
		item.ID = id
		wishlist.Add(item)
	case isValidationRejected(err):
		notice = domain.InfoNotice(domain.NoticeCodeAlreadyExists, rejectionMessage(err))
		s.logger.InfoContext(ctx, "wishlist save rejected by store",
			slog.String("user_id", sess.UserID),
			slog.String("product_id", input.ProductID),
			slog.String("reason", err.Error()),
		)
	default:
		item.ID = "local-" + uuid.New().String()
		wishlist.Add(item)
		notice = domain.WarningNotice(domain.NoticeCodeSyncDegraded, "item saved locally; store sync failed")
		s.logger.WarnContext(ctx, "wishlist save applied locally, store unreachable",
			slog.String("user_id", sess.UserID),
			slog.String("product_id", input.ProductID),
			slog.String("error", err.Error()),
		)
	}

	items := wishlist.Items()
	s.publishWishlistUpdated(ctx, sess.UserID, len(items))
	return items, notice, nil
}

// RemoveItem deletes the wishlist item upstream and locally. A failed remote
// delete still removes the item locally with a warning notice.
func (s *WishlistService) RemoveItem(ctx context.Context, sess *session.Session, id string) ([]domain.WishlistItem, *domain.Notice, error) {
	if sess == nil || sess.UserID == "" {
		return nil, nil, apperrors.Unauthorized("session required")
	}

	wishlist := s.registry.ForUser(sess.UserID).Wishlist

	var notice *domain.Notice
	if err := s.store.DeleteWishlistItem(ctx, id); err != nil && !isValidationRejected(err) {
		notice = domain.WarningNotice(domain.NoticeCodeSyncDegraded, "item removed locally; store sync failed")
		s.logger.WarnContext(ctx, "wishlist remove applied locally, store unreachable",
			slog.String("user_id", sess.UserID),
			slog.String("item_id", id),
			slog.String("error", err.Error()),
		)
	}
	wishlist.Remove(id)

	items := wishlist.Items()
	s.publishWishlistUpdated(ctx, sess.UserID, len(items))
	return items, notice, nil
}

func (s *WishlistService) publishWishlistUpdated(ctx context.Context, userID string, itemCount int) {
	if err := s.producer.PublishWishlistUpdated(ctx, userID, itemCount); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
