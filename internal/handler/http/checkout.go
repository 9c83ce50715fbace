package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/internal/gateway"
	"github.com/glasscart/storefront/internal/service"
	apperrors "github.com/glasscart/storefront/pkg/errors"
	"github.com/glasscart/storefront/pkg/validator"
)

// CheckoutHandler handles HTTP requests for the payment pipeline. The
// callback and dismiss endpoints are hit by the storefront frontend when the
// hosted gateway widget resolves; they feed the bridge, which routes the
// outcome into the checkout workflow.
type CheckoutHandler struct {
	service *service.CheckoutService
	bridge  *gateway.Bridge
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, bridge *gateway.Bridge, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		bridge:  bridge,
		logger:  logger,
	}
}

// CallbackRequest is the JSON request body delivered by the widget's success
// handler.
type CallbackRequest struct {
	OrderID   string `json:"gateway_order_id" validate:"required"`
	PaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature string `json:"gateway_signature" validate:"required"`
}

// DismissRequest is the JSON request body delivered when the widget closes
// without payment.
type DismissRequest struct {
	OrderID string `json:"gateway_order_id" validate:"required"`
}

// Start handles POST /api/v1/checkout
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	attempt, err := h.service.Start(r.Context(), sess)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: attempt})
}

// Status handles GET /api/v1/checkout
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	attempt, err := h.service.Attempt(r.Context(), sess)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: attempt})
}

// Callback handles POST /api/v1/checkout/callback
func (h *CheckoutHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
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

	sess, _ := sessionFromContext(r.Context())
	if err := h.authorizeOrder(r.Context(), sess.UserID, req.OrderID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	proof := domain.PaymentProof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	}

	if err := h.bridge.Success(r.Context(), proof); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	attempt, err := h.service.AttemptForOrder(r.Context(), req.OrderID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if attempt.Phase == domain.PhaseFailed {
		writeJSON(w, http.StatusUnprocessableEntity, response{
			Data:  attempt,
			Error: &errorResponse{Code: "PAYMENT_FAILED", Message: attempt.FailureReason},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: attempt})
}

// Dismiss handles POST /api/v1/checkout/dismiss
func (h *CheckoutHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	var req DismissRequest
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

	sess, _ := sessionFromContext(r.Context())
	if err := h.authorizeOrder(r.Context(), sess.UserID, req.OrderID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.bridge.Dismiss(r.Context(), req.OrderID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	attempt, err := h.service.AttemptForOrder(r.Context(), req.OrderID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: attempt})
}

// authorizeOrder confirms the pending order belongs to the calling user
// before the gateway outcome is delivered. Widget callbacks carry the order
// ID in the body, so any session could otherwise settle or dismiss another
// shopper's attempt.
func (h *CheckoutHandler) authorizeOrder(ctx context.Context, userID, orderID string) error {
	attempt, err := h.service.AttemptForOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if attempt.UserID != userID {
		h.logger.WarnContext(ctx, "gateway callback for another user's order",
			slog.String("order_id", orderID),
			slog.String("caller", userID),
		)
		return apperrors.Forbidden("order does not belong to the current session")
	}
	return nil
}
