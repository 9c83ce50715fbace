package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/internal/event"
	"github.com/glasscart/storefront/internal/session"
	"github.com/glasscart/storefront/internal/state"
	apperrors "github.com/glasscart/storefront/pkg/errors"
	pkgkafka "github.com/glasscart/storefront/pkg/kafka"
)

// --- Mock Store ---

type mockCartStore struct {
	mock.Mock
}

func (m *mockCartStore) FetchCart(ctx context.Context, userID string) ([]domain.CartLineItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartLineItem), args.Error(1)
}

func (m *mockCartStore) CreateCartItem(ctx context.Context, item domain.CartLineItem) (string, error) {
	args := m.Called(ctx, item)
	return args.String(0), args.Error(1)
}

func (m *mockCartStore) PatchCartQuantity(ctx context.Context, id string, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *mockCartStore) DeleteCartItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProducer() *event.Producer {
	logger := newTestLogger()
	// No real broker in unit tests; publish failures are logged and ignored.
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newTestCartService(store *mockCartStore) (*CartService, *state.Registry) {
	registry := state.NewRegistry()
	svc := NewCartService(registry, store, newTestProducer(), newTestLogger())
	return svc, registry
}

func testSession() *session.Session {
	return &session.Session{UserID: "user-1", Email: "shopper@example.com"}
}

func widgetInput() AddItemInput {
	return AddItemInput{
		ProductID: "prod-1",
		Name:      "Widget",
		UnitPrice: 1199,
		Quantity:  2,
	}
}

// --- Load ---

func TestCartService_Load_NoSession(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)

	view, err := svc.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.Totals.Total)
	store.AssertNotCalled(t, "FetchCart")
}

func TestCartService_Load_ReplacesLocalState(t *testing.T) {
	store := new(mockCartStore)
	svc, registry := newTestCartService(store)
	sess := testSession()

	registry.ForUser(sess.UserID).Cart.Add(domain.CartLineItem{
		ID: "stale", ProductID: "prod-old", UserID: sess.UserID, Quantity: 1, UnitPrice: 100,
	})

	store.On("FetchCart", mock.Anything, sess.UserID).Return([]domain.CartLineItem{
		{ID: "item-1", ProductID: "prod-1", UserID: sess.UserID, Quantity: 2, UnitPrice: 1199},
	}, nil)

	view, err := svc.Load(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "item-1", view.Items[0].ID)
}

func TestCartService_Load_StoreError(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)

	store.On("FetchCart", mock.Anything, "user-1").Return(nil, errors.New("connection refused"))

	_, err := svc.Load(context.Background(), testSession())
	require.Error(t, err)
}

// --- AddItem ---

func TestCartService_AddItem_Success(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)

	store.On("CreateCartItem", mock.Anything, mock.Anything).Return("item-1", nil)

	view, notice, err := svc.AddItem(context.Background(), testSession(), widgetInput())
	require.NoError(t, err)
	assert.Nil(t, notice)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "item-1", view.Items[0].ID)
	assert.Equal(t, "user-1", view.Items[0].UserID)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestCartService_AddItem_DuplicateKeyIsIdempotent(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)
	sess := testSession()

	store.On("CreateCartItem", mock.Anything, mock.Anything).Return("item-1", nil).Once()
	store.On("CreateCartItem", mock.Anything, mock.Anything).
		Return("", apperrors.Conflict("store: item already in cart")).Once()

	_, _, err := svc.AddItem(context.Background(), sess, widgetInput())
	require.NoError(t, err)

	view, notice, err := svc.AddItem(context.Background(), sess, widgetInput())
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeInfo, notice.Level)
	assert.Equal(t, domain.NoticeCodeAlreadyExists, notice.Code)
	assert.Len(t, view.Items, 1, "duplicate add must not create a second line")
}

func TestCartService_AddItem_LocalDedupWithoutRemoteRejection(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)
	sess := testSession()

	// Store accepts both writes; the container still keeps one line per
	// (product, user) key.
	store.On("CreateCartItem", mock.Anything, mock.Anything).Return("item-1", nil).Once()
	store.On("CreateCartItem", mock.Anything, mock.Anything).Return("item-2", nil).Once()

	_, _, err := svc.AddItem(context.Background(), sess, widgetInput())
	require.NoError(t, err)
	view, _, err := svc.AddItem(context.Background(), sess, widgetInput())
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestCartService_AddItem_StoreUnreachableAppliesLocally(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)

	store.On("CreateCartItem", mock.Anything, mock.Anything).Return("", errors.New("dial tcp: connection refused"))

	view, notice, err := svc.AddItem(context.Background(), testSession(), widgetInput())
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeWarning, notice.Level)
	assert.Equal(t, domain.NoticeCodeSyncDegraded, notice.Code)
	require.Len(t, view.Items, 1, "local transition must still happen")
	assert.Contains(t, view.Items[0].ID, "local-")
}

func TestCartService_AddItem_Validation(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)

	tests := []struct {
		name  string
		sess  *session.Session
		input AddItemInput
	}{
		{"no session", nil, widgetInput()},
		{"missing product id", testSession(), AddItemInput{Name: "Widget", UnitPrice: 100}},
		{"missing name", testSession(), AddItemInput{ProductID: "p", UnitPrice: 100}},
		{"negative price", testSession(), AddItemInput{ProductID: "p", Name: "Widget", UnitPrice: -1}},
		{"negative quantity", testSession(), AddItemInput{ProductID: "p", Name: "Widget", UnitPrice: 1, Quantity: -2}},
		{"excess quantity", testSession(), AddItemInput{ProductID: "p", Name: "Widget", UnitPrice: 1, Quantity: 500}},
		{"excess price", testSession(), AddItemInput{ProductID: "p", Name: "Widget", UnitPrice: MaxPriceSubunits + 1, Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.AddItem(context.Background(), tt.sess, tt.input)
			require.Error(t, err)
		})
	}
	store.AssertNotCalled(t, "CreateCartItem")
}

func TestCartService_AddItem_DefaultsQuantityToOne(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)

	store.On("CreateCartItem", mock.Anything, mock.MatchedBy(func(item domain.CartLineItem) bool {
		return item.Quantity == 1
	})).Return("item-1", nil)

	input := widgetInput()
	input.Quantity = 0
	view, _, err := svc.AddItem(context.Background(), testSession(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

// --- RemoveItem ---

func TestCartService_RemoveItem_Success(t *testing.T) {
	store := new(mockCartStore)
	svc, registry := newTestCartService(store)
	sess := testSession()

	registry.ForUser(sess.UserID).Cart.Add(domain.CartLineItem{
		ID: "item-1", ProductID: "prod-1", UserID: sess.UserID, Quantity: 1, UnitPrice: 1199,
	})
	store.On("DeleteCartItem", mock.Anything, "item-1").Return(nil)

	view, notice, err := svc.RemoveItem(context.Background(), sess, "item-1")
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Empty(t, view.Items)
}

func TestCartService_RemoveItem_StoreUnreachableStillRemoves(t *testing.T) {
	store := new(mockCartStore)
	svc, registry := newTestCartService(store)
	sess := testSession()

	registry.ForUser(sess.UserID).Cart.Add(domain.CartLineItem{
		ID: "item-1", ProductID: "prod-1", UserID: sess.UserID, Quantity: 1, UnitPrice: 1199,
	})
	store.On("DeleteCartItem", mock.Anything, "item-1").Return(errors.New("timeout"))

	view, notice, err := svc.RemoveItem(context.Background(), sess, "item-1")
	require.NoError(t, err)
	require.NotNil(t, notice, "degraded removal must be distinguishable from clean success")
	assert.Equal(t, domain.NoticeWarning, notice.Level)
	assert.Empty(t, view.Items)
}

func TestCartService_RemoveItem_AbsentIDIsNoOp(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)

	store.On("DeleteCartItem", mock.Anything, "ghost").Return(nil)

	view, _, err := svc.RemoveItem(context.Background(), testSession(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

// --- Increment / Decrement ---

func seedLine(registry *state.Registry, userID string, quantity int) {
	registry.ForUser(userID).Cart.Add(domain.CartLineItem{
		ID: "item-1", ProductID: "prod-1", UserID: userID, Quantity: quantity, UnitPrice: 1199,
	})
}

func TestCartService_IncrementItem_Success(t *testing.T) {
	store := new(mockCartStore)
	svc, registry := newTestCartService(store)
	sess := testSession()
	seedLine(registry, sess.UserID, 2)

	store.On("PatchCartQuantity", mock.Anything, "item-1", 3).Return(nil)

	view, notice, err := svc.IncrementItem(context.Background(), sess, "item-1")
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Equal(t, 3, view.Items[0].Quantity)
}

func TestCartService_IncrementItem_AbsentIDIsNoOp(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)

	view, notice, err := svc.IncrementItem(context.Background(), testSession(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Empty(t, view.Items)
	store.AssertNotCalled(t, "PatchCartQuantity")
}

func TestCartService_DecrementItem_Success(t *testing.T) {
	store := new(mockCartStore)
	svc, registry := newTestCartService(store)
	sess := testSession()
	seedLine(registry, sess.UserID, 3)

	store.On("PatchCartQuantity", mock.Anything, "item-1", 2).Return(nil)

	view, _, err := svc.DecrementItem(context.Background(), sess, "item-1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestCartService_DecrementItem_AtOneRoutesToRemoval(t *testing.T) {
	store := new(mockCartStore)
	svc, registry := newTestCartService(store)
	sess := testSession()
	seedLine(registry, sess.UserID, 1)

	store.On("DeleteCartItem", mock.Anything, "item-1").Return(nil)

	view, notice, err := svc.DecrementItem(context.Background(), sess, "item-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items, "quantity must never reach zero; the line is removed instead")
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeCodeItemRemoved, notice.Code)
	store.AssertNotCalled(t, "PatchCartQuantity")
}

func TestCartService_DecrementItem_StoreUnreachableAppliesLocally(t *testing.T) {
	store := new(mockCartStore)
	svc, registry := newTestCartService(store)
	sess := testSession()
	seedLine(registry, sess.UserID, 3)

	store.On("PatchCartQuantity", mock.Anything, "item-1", 2).Return(errors.New("timeout"))

	view, notice, err := svc.DecrementItem(context.Background(), sess, "item-1")
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeCodeSyncDegraded, notice.Code)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

// --- Totals ---

func TestCartService_Totals(t *testing.T) {
	store := new(mockCartStore)
	svc, registry := newTestCartService(store)
	sess := testSession()

	cart := registry.ForUser(sess.UserID).Cart
	cart.Add(domain.CartLineItem{ID: "a", ProductID: "p1", UserID: sess.UserID, Quantity: 2, UnitPrice: 1199})
	cart.Add(domain.CartLineItem{ID: "b", ProductID: "p2", UserID: sess.UserID, Quantity: 1, UnitPrice: 3000})

	view, err := svc.View(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, int64(5398), view.Totals.Subtotal)
	assert.InDelta(t, 971.64, view.Totals.Tax, 0.001)
	assert.Equal(t, int64(6370), view.Totals.Total)
}

func TestCartService_SetCoupon_DoesNotAffectTotal(t *testing.T) {
	store := new(mockCartStore)
	svc, registry := newTestCartService(store)
	sess := testSession()
	registry.ForUser(sess.UserID).Cart.Add(domain.CartLineItem{
		ID: "a", ProductID: "p1", UserID: sess.UserID, Quantity: 1, UnitPrice: 1000,
	})

	view, err := svc.SetCoupon(context.Background(), sess, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), view.Coupon)
	assert.Equal(t, int64(1180), view.Totals.Total, "coupon is display-only")
}

func TestCartService_SetCoupon_Negative(t *testing.T) {
	store := new(mockCartStore)
	svc, _ := newTestCartService(store)

	_, err := svc.SetCoupon(context.Background(), testSession(), -1)
	require.Error(t, err)
}
