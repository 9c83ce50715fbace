package http

import (
	"log/slog"
	"net/http"

	"github.com/glasscart/storefront/internal/orders"
)

// OrdersHandler handles HTTP requests for the order history.
type OrdersHandler struct {
	repo   orders.Repository
	logger *slog.Logger
}

// NewOrdersHandler creates a new order history HTTP handler.
func NewOrdersHandler(repo orders.Repository, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		repo:   repo,
		logger: logger,
	}
}

// List handles GET /api/v1/orders
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
		})
		return
	}

	list, err := h.repo.ListByUser(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: list})
}
