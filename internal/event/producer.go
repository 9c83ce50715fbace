package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glasscart/storefront/internal/domain"
	pkgkafka "github.com/glasscart/storefront/pkg/kafka"
)

// Kafka topics for storefront domain events.
var (
	TopicCartUpdated     = pkgkafka.Topic("cart", "updated")
	TopicWishlistUpdated = pkgkafka.Topic("wishlist", "updated")
	TopicOrderSettled    = pkgkafka.Topic("order", "settled")
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
	AggregateTypeOrder    = "order"
)

// Source identifier for events originating from the storefront service.
const SourceStorefront = "storefront-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID    string         `json:"user_id"`
	Items     []CartItemData `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  int64          `json:"subtotal"`
	Total     int64          `json:"total"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	UserID    string `json:"user_id"`
	ItemCount int    `json:"item_count"`
}

// OrderSettledData is the payload for an order.settled event.
type OrderSettledData struct {
	OrderID   string  `json:"order_id"`
	UserID    string  `json:"user_id"`
	PaymentID string  `json:"payment_id"`
	Subtotal  int64   `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Total     int64   `json:"total"`
	Currency  string  `json:"currency"`
	ItemCount int     `json:"item_count"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event from the given view.
func (p *Producer) PublishCartUpdated(ctx context.Context, userID string, view domain.CartView) error {
	items := make([]CartItemData, len(view.Items))
	count := 0
	for i, item := range view.Items {
		items[i] = CartItemData{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
		count += item.Quantity
	}

	data := CartUpdatedData{
		UserID:    userID,
		Items:     items,
		ItemCount: count,
		Subtotal:  view.Totals.Subtotal,
		Total:     view.Totals.Total,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, userID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("user_id", userID),
		slog.Int("item_count", count),
	)

	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, userID string, itemCount int) error {
	data := WishlistUpdatedData{UserID: userID, ItemCount: itemCount}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, userID, AggregateTypeWishlist, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.String("user_id", userID),
		slog.Int("item_count", itemCount),
	)

	return nil
}

// PublishOrderSettled publishes an order.settled event.
func (p *Producer) PublishOrderSettled(ctx context.Context, order *domain.Order) error {
	data := OrderSettledData{
		OrderID:   order.ID,
		UserID:    order.UserID,
		PaymentID: order.PaymentID,
		Subtotal:  order.Subtotal,
		Tax:       order.Tax,
		Total:     order.Total,
		Currency:  order.Currency,
		ItemCount: len(order.Items),
	}

	event, err := pkgkafka.NewEvent(TopicOrderSettled, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.settled event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderSettled, event); err != nil {
		return fmt.Errorf("publish order.settled event: %w", err)
	}

	p.logger.InfoContext(ctx, "published order.settled event",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Int64("total", order.Total),
	)

	return nil
}
