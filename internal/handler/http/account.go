package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/glasscart/storefront/internal/service"
	"github.com/glasscart/storefront/pkg/validator"
)

// AccountHandler handles HTTP requests for session lifecycle.
type AccountHandler struct {
	service *service.AccountService
	logger  *slog.Logger
}

// NewAccountHandler creates a new account HTTP handler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service: svc,
		logger:  logger,
	}
}

// LoginRequest is the JSON request body for opening a session.
type LoginRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"max=200"`
}

// LoginResponse is the JSON response for a successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Login handles POST /api/v1/session
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
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

	token, sess, err := h.service.Login(r.Context(), service.LoginInput{
		UserID: req.UserID,
		Email:  req.Email,
		Name:   req.Name,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: LoginResponse{
		Token:  token,
		UserID: sess.UserID,
	}})
}

// Logout handles DELETE /api/v1/session
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	token := tokenFromContext(r.Context())

	if err := h.service.Logout(r.Context(), token, sess); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
