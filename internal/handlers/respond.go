// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/handlers/middleware"
)

// msgTipExhausted is surfaced when the tip generator kept rate-limiting
// until the retry budget ran out.
const msgTipExhausted = "Failed to generate tip/fact after multiple retries. Please try again later."

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"notice": domain.ErrorNotice(message),
	})
}

// respondDomainError maps sentinel errors from the core onto HTTP
// statuses and user-facing messages. Unknown errors become opaque 500s;
// the handler logs the detail separately.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrScopeNotReady):
		respondError(w, http.StatusServiceUnavailable, "Session not ready yet. Please retry.")
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrOutOfStock):
		respondError(w, http.StatusConflict, "Item is out of stock")
	case errors.Is(err, domain.ErrNotBorrowable):
		respondError(w, http.StatusConflict, "Record is not eligible for return")
	case errors.Is(err, domain.ErrTipRetriesExhausted):
		respondError(w, http.StatusServiceUnavailable, msgTipExhausted)
	case errors.Is(err, domain.ErrTipUnavailable):
		respondError(w, http.StatusBadGateway, "Tip generator unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// sessionFrom pulls the resolved session off the request context.
func sessionFrom(r *http.Request) domain.Session {
	return middleware.SessionFromContext(r.Context())
}
