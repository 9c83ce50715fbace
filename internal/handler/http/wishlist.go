package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glasscart/storefront/internal/service"
	"github.com/glasscart/storefront/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// SaveItemRequest is the JSON request body for saving an item to the wishlist.
type SaveItemRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	Name         string `json:"name" validate:"required,min=1,max=500"`
	UnitPrice    int64  `json:"unit_price" validate:"gte=0"`
	DisplayPrice int64  `json:"display_price" validate:"gte=0"`
	ImageURL     string `json:"image_url"`
	Category     string `json:"category"`
}

// Load handles GET /api/v1/wishlist
func (h *WishlistHandler) Load(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	items, err := h.service.Load(r.Context(), sess)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: items})
}

// SaveItem handles POST /api/v1/wishlist/items
func (h *WishlistHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	var req SaveItemRequest
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

	input := service.SaveItemInput{
		ProductID:    req.ProductID,
		Name:         req.Name,
		UnitPrice:    req.UnitPrice,
		DisplayPrice: req.DisplayPrice,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
	}

	items, notice, err := h.service.SaveItem(r.Context(), sess, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: items, Notice: notice})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{itemId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	itemID := chi.URLParam(r, "itemId")
	if itemID == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "itemId is required"},
		})
		return
	}

	items, notice, err := h.service.RemoveItem(r.Context(), sess, itemID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: items, Notice: notice})
}
