package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/internal/state"
	apperrors "github.com/glasscart/storefront/pkg/errors"
)

type mockWishlistStore struct {
	mock.Mock
}

func (m *mockWishlistStore) FetchWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WishlistItem), args.Error(1)
}

func (m *mockWishlistStore) CreateWishlistItem(ctx context.Context, item domain.WishlistItem) (string, error) {
	args := m.Called(ctx, item)
	return args.String(0), args.Error(1)
}

func (m *mockWishlistStore) DeleteWishlistItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestWishlistService(store *mockWishlistStore) (*WishlistService, *state.Registry) {
	registry := state.NewRegistry()
	svc := NewWishlistService(registry, store, newTestProducer(), newTestLogger())
	return svc, registry
}

func gadgetInput() SaveItemInput {
	return SaveItemInput{ProductID: "prod-9", Name: "Gadget", UnitPrice: 3000}
}

func TestWishlistService_Load_NoSession(t *testing.T) {
	store := new(mockWishlistStore)
	svc, _ := newTestWishlistService(store)

	items, err := svc.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	store.AssertNotCalled(t, "FetchWishlist")
}

func TestWishlistService_Load_ReplacesLocalState(t *testing.T) {
	store := new(mockWishlistStore)
	svc, registry := newTestWishlistService(store)
	sess := testSession()

	registry.ForUser(sess.UserID).Wishlist.Add(domain.WishlistItem{
		ID: "stale", ProductID: "prod-old", UserID: sess.UserID,
	})
	store.On("FetchWishlist", mock.Anything, sess.UserID).Return([]domain.WishlistItem{
		{ID: "w-1", ProductID: "prod-9", UserID: sess.UserID, UnitPrice: 3000},
	}, nil)

	items, err := svc.Load(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "w-1", items[0].ID)
}

func TestWishlistService_SaveItem_Success(t *testing.T) {
	store := new(mockWishlistStore)
	svc, _ := newTestWishlistService(store)

	store.On("CreateWishlistItem", mock.Anything, mock.Anything).Return("w-1", nil)

	items, notice, err := svc.SaveItem(context.Background(), testSession(), gadgetInput())
	require.NoError(t, err)
	assert.Nil(t, notice)
	require.Len(t, items, 1)
	assert.Equal(t, "w-1", items[0].ID)
}

func TestWishlistService_SaveItem_DuplicateIsIdempotent(t *testing.T) {
	store := new(mockWishlistStore)
	svc, _ := newTestWishlistService(store)
	sess := testSession()

	store.On("CreateWishlistItem", mock.Anything, mock.Anything).Return("w-1", nil).Once()
	store.On("CreateWishlistItem", mock.Anything, mock.Anything).
		Return("", apperrors.Conflict("store: already saved")).Once()

	_, _, err := svc.SaveItem(context.Background(), sess, gadgetInput())
	require.NoError(t, err)

	items, notice, err := svc.SaveItem(context.Background(), sess, gadgetInput())
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeCodeAlreadyExists, notice.Code)
	assert.Len(t, items, 1)
}

func TestWishlistService_SaveItem_StoreUnreachableAppliesLocally(t *testing.T) {
	store := new(mockWishlistStore)
	svc, _ := newTestWishlistService(store)

	store.On("CreateWishlistItem", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	items, notice, err := svc.SaveItem(context.Background(), testSession(), gadgetInput())
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeWarning, notice.Level)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].ID, "local-")
}

func TestWishlistService_RemoveItem_StoreUnreachableStillRemoves(t *testing.T) {
	store := new(mockWishlistStore)
	svc, registry := newTestWishlistService(store)
	sess := testSession()

	registry.ForUser(sess.UserID).Wishlist.Add(domain.WishlistItem{
		ID: "w-1", ProductID: "prod-9", UserID: sess.UserID,
	})
	store.On("DeleteWishlistItem", mock.Anything, "w-1").Return(errors.New("timeout"))

	items, notice, err := svc.RemoveItem(context.Background(), sess, "w-1")
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeCodeSyncDegraded, notice.Code)
	assert.Empty(t, items)
}

func TestWishlistService_SaveItem_Validation(t *testing.T) {
	store := new(mockWishlistStore)
	svc, _ := newTestWishlistService(store)

	_, _, err := svc.SaveItem(context.Background(), nil, gadgetInput())
	require.Error(t, err)

	_, _, err = svc.SaveItem(context.Background(), testSession(), SaveItemInput{Name: "x"})
	require.Error(t, err)
	store.AssertNotCalled(t, "CreateWishlistItem")
}
