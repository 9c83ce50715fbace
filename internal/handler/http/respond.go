package http

import (
	"log/slog"
	"net/http"

	"github.com/glasscart/storefront/internal/domain"
	"github.com/glasscart/storefront/pkg/httputil"
)

// response extends the shared envelope with the Notice a synchronization
// workflow attached to an otherwise successful transition.
type response struct {
	Data   any            `json:"data,omitempty"`
	Notice *domain.Notice `json:"notice,omitempty"`
	Error  *errorResponse `json:"error,omitempty"`
}

type errorResponse = httputil.ErrorResponse

func writeJSON(w http.ResponseWriter, status int, v any) {
	httputil.WriteJSON(w, status, v)
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	httputil.WriteError(w, r, err, logger)
}

func writeValidationError(w http.ResponseWriter, err error) {
	httputil.WriteValidationError(w, err)
}
