package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glasscart/storefront/internal/session"
	"github.com/glasscart/storefront/internal/state"
	apperrors "github.com/glasscart/storefront/pkg/errors"
)

// LoginInput holds the parameters for opening a session.
type LoginInput struct {
	UserID string `json:"user_id" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name"`
}

// AccountService manages session lifecycle. Logout tears down the user's
// in-memory containers so a later session starts from a clean slate.
type AccountService struct {
	sessions session.Provider
	registry *state.Registry
	logger   *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(sessions session.Provider, registry *state.Registry, logger *slog.Logger) *AccountService {
	return &AccountService{
		sessions: sessions,
		registry: registry,
		logger:   logger,
	}
}

// Login opens a session and returns the opaque token.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (string, *session.Session, error) {
	if input.UserID == "" {
		return "", nil, apperrors.InvalidInput("user id is required")
	}
	if input.Email == "" {
		return "", nil, apperrors.InvalidInput("email is required")
	}

	sess := &session.Session{
		UserID:    input.UserID,
		Email:     input.Email,
		Name:      input.Name,
		CreatedAt: time.Now().UTC(),
	}

	token := uuid.New().String()
	if err := s.sessions.Put(ctx, token, sess); err != nil {
		return "", nil, apperrors.Wrap(err, "store session")
	}

	s.logger.InfoContext(ctx, "session opened", slog.String("user_id", sess.UserID))
	return token, sess, nil
}

// Logout deletes the session and drops the user's local state.
func (s *AccountService) Logout(ctx context.Context, token string, sess *session.Session) error {
	if sess == nil || sess.UserID == "" {
		return apperrors.Unauthorized("session required")
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperrors.Wrap(err, "delete session")
	}
	s.registry.Drop(sess.UserID)

	s.logger.InfoContext(ctx, "session closed", slog.String("user_id", sess.UserID))
	return nil
}
