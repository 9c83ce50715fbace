package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/glasscart/storefront/internal/session"
	"github.com/glasscart/storefront/pkg/logger"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	sessionKey contextKey = "session"
	tokenKey   contextKey = "session_token"
)

// Authenticate resolves the X-Session-Token header against the session
// provider and stores the session in the request context. Requests without a
// valid session are rejected with 401 Unauthorized.
func Authenticate(provider session.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Session-Token")
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, response{
					Error: &errorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
				})
				return
			}

			sess, err := provider.Get(r.Context(), token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, response{
					Error: &errorResponse{Code: "UNAUTHORIZED", Message: "session expired or unknown"},
				})
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			ctx = context.WithValue(ctx, tokenKey, token)
			ctx = logger.WithUserID(ctx, sess.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromContext extracts the authenticated session from the request
// context.
func sessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok && sess != nil
}

// tokenFromContext extracts the raw session token from the request context.
func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
