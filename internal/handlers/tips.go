// internal/handlers/tips.go
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/reusehub/reuse-be/internal/core/ports"
)

// TipHandler serves generated usage tips for items.
type TipHandler struct {
	service ports.TipService
	logger  *slog.Logger
}

// NewTipHandler creates a new tip handler.
func NewTipHandler(service ports.TipService, logger *slog.Logger) *TipHandler {
	return &TipHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "tips")),
	}
}

// Generate handles GET /api/v1/tips?item={name}
func (h *TipHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemName := strings.TrimSpace(r.URL.Query().Get("item"))
	if itemName == "" {
		respondError(w, http.StatusBadRequest, "item query parameter is required")
		return
	}

	tip, err := h.service.GenerateTip(ctx, itemName)
	if err != nil {
		h.logger.WarnContext(ctx, "tip generation failed",
			slog.String("item", itemName),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"item": itemName,
		"tip":  tip,
	})
}
