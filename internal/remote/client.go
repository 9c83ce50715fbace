package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/pkg/httpclient"
)

// Doer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// StoreClient wraps the upstream store REST API: cart and wishlist
// persistence plus the payment order/verify endpoints. It shapes requests and
// maps error responses; it holds no state and applies no business rules.
type StoreClient struct {
	http    Doer
	baseURL string
	logger  *slog.Logger
}

// NewStoreClient creates a store API client rooted at baseURL.
func NewStoreClient(doer Doer, baseURL string, logger *slog.Logger) *StoreClient {
	return &StoreClient{
		http:    doer,
		baseURL: baseURL,
		logger:  logger,
	}
}

// FetchCart retrieves the user's persisted cart line items.
func (c *StoreClient) FetchCart(ctx context.Context, userID string) ([]domain.CartLineItem, error) {
	var items []domain.CartLineItem
	if err := c.getJSON(ctx, c.baseURL+"/cart/"+userID, &items); err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	return items, nil
}

// CreateCartItem persists a new cart line item and returns the store-assigned ID.
func (c *StoreClient) CreateCartItem(ctx context.Context, item domain.CartLineItem) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/cart", item, &created); err != nil {
		return "", fmt.Errorf("create cart item: %w", err)
	}
	return created.ID, nil
}

// PatchCartQuantity updates the quantity of a persisted cart line item.
func (c *StoreClient) PatchCartQuantity(ctx context.Context, id string, quantity int) error {
	body, err := json.Marshal(map[string]int{"quantity": quantity})
	if err != nil {
		return fmt.Errorf("marshal quantity patch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/cart/"+id, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create patch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("patch cart quantity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "store")
	}

	c.logger.DebugContext(ctx, "cart quantity patched",
		slog.String("item_id", id),
		slog.Int("quantity", quantity),
	)
	return nil
}

// DeleteCartItem removes a persisted cart line item.
func (c *StoreClient) DeleteCartItem(ctx context.Context, id string) error {
	if err := c.delete(ctx, c.baseURL+"/cart/"+id); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// FetchWishlist retrieves the user's persisted wishlist items.
func (c *StoreClient) FetchWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	if err := c.getJSON(ctx, c.baseURL+"/wishlist/"+userID, &items); err != nil {
		return nil, fmt.Errorf("fetch wishlist: %w", err)
	}
	return items, nil
}

// CreateWishlistItem persists a new wishlist item and returns the store-assigned ID.
func (c *StoreClient) CreateWishlistItem(ctx context.Context, item domain.WishlistItem) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/wishlist", item, &created); err != nil {
		return "", fmt.Errorf("create wishlist item: %w", err)
	}
	return created.ID, nil
}

// DeleteWishlistItem removes a persisted wishlist item.
func (c *StoreClient) DeleteWishlistItem(ctx context.Context, id string) error {
	if err := c.delete(ctx, c.baseURL+"/wishlist/"+id); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}

// CreateOrderIntent asks the backend payment service to create a gateway
// order for the given amount. Amount is in integer currency subunits.
func (c *StoreClient) CreateOrderIntent(ctx context.Context, amount int64, currency, receipt string) (*domain.OrderIntent, error) {
	payload := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	var intent struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/payment/create-order", payload, &intent); err != nil {
		return nil, fmt.Errorf("create order intent: %w", err)
	}

	c.logger.InfoContext(ctx, "order intent created",
		slog.String("order_id", intent.ID),
		slog.Int64("amount", intent.Amount),
		slog.String("currency", intent.Currency),
	)

	return &domain.OrderIntent{
		OrderID:  intent.ID,
		Amount:   intent.Amount,
		Currency: intent.Currency,
	}, nil
}

// VerifyPayment forwards the gateway proof tokens plus the cart snapshot and
// amount to the backend verification endpoint. It returns whether the backend
// confirmed the payment as valid.
func (c *StoreClient) VerifyPayment(ctx context.Context, proof domain.PaymentProof, items []domain.CartLineItem, amount int64) (bool, error) {
	payload := map[string]any{
		"gateway_order_id":   proof.OrderID,
		"gateway_payment_id": proof.PaymentID,
		"gateway_signature":  proof.Signature,
		"cart":               items,
		"amount":             amount,
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/payment/verify", payload, &result); err != nil {
		return false, fmt.Errorf("verify payment: %w", err)
	}
	return result.Success, nil
}

// getJSON performs a GET and decodes a 200 response body into out.
func (c *StoreClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create GET request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "store")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// postJSON performs a POST with a JSON body and decodes a 2xx response into
// out when out is non-nil.
func (c *StoreClient) postJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return httpclient.ParseResponseError(resp, "store")
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *StoreClient) delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create DELETE request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "store")
	}

	c.logger.DebugContext(ctx, "resource deleted", slog.String("url", url))
	return nil
}
