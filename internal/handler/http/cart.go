package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/internal/service"
	"github.com/glasscart/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	Name         string `json:"name" validate:"required,min=1,max=500"`
	UnitPrice    int64  `json:"unit_price" validate:"gte=0"`
	DisplayPrice int64  `json:"display_price" validate:"gte=0"`
	Quantity     int    `json:"quantity" validate:"gte=0,lte=100"`
	ImageURL     string `json:"image_url"`
	Category     string `json:"category"`
}

// SetCouponRequest is the JSON request body for setting the coupon value.
type SetCouponRequest struct {
	Coupon int64 `json:"coupon" validate:"gte=0"`
}

// Load handles GET /api/v1/cart
func (h *CartHandler) Load(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	view, err := h.service.Load(r.Context(), sess)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: view})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.AddItemInput{
		ProductID:    req.ProductID,
		Name:         req.Name,
		UnitPrice:    req.UnitPrice,
		DisplayPrice: req.DisplayPrice,
		Quantity:     req.Quantity,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
	}

	view, notice, err := h.service.AddItem(r.Context(), sess, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: view, Notice: notice})
}

// RemoveItem handles DELETE /api/v1/cart/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	itemID := chi.URLParam(r, "itemId")
	if itemID == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "itemId is required"},
		})
		return
	}

	view, notice, err := h.service.RemoveItem(r.Context(), sess, itemID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: view, Notice: notice})
}

// IncrementItem handles POST /api/v1/cart/items/{itemId}/increment
func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	itemID := chi.URLParam(r, "itemId")
	view, notice, err := h.service.IncrementItem(r.Context(), sess, itemID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: view, Notice: notice})
}

// DecrementItem handles POST /api/v1/cart/items/{itemId}/decrement
func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	itemID := chi.URLParam(r, "itemId")
	view, notice, err := h.service.DecrementItem(r.Context(), sess, itemID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: view, Notice: notice})
}

// PaymentSummary is the totals box shown on the payment page.
type PaymentSummary struct {
	ItemCount int           `json:"item_count"`
	Coupon    int64         `json:"coupon"`
	Totals    domain.Totals `json:"totals"`
}

// Summary handles GET /api/v1/cart/summary
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	view, err := h.service.View(r.Context(), sess)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	count := 0
	for _, item := range view.Items {
		count += item.Quantity
	}

	writeJSON(w, http.StatusOK, response{Data: PaymentSummary{
		ItemCount: count,
		Coupon:    view.Coupon,
		Totals:    view.Totals,
	}})
}

// SetCoupon handles PUT /api/v1/cart/coupon
func (h *CartHandler) SetCoupon(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	var req SetCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	view, err := h.service.SetCoupon(r.Context(), sess, req.Coupon)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: view})
}
