// internal/handlers/borrow.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/core/ports"
)

// BorrowHandler handles the borrow and return endpoints.
type BorrowHandler struct {
	service ports.BorrowService
	logger  *slog.Logger
}

// NewBorrowHandler creates a new borrow handler.
func NewBorrowHandler(service ports.BorrowService, logger *slog.Logger) *BorrowHandler {
	return &BorrowHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "borrow")),
	}
}

// BorrowRequest is the payload for POST /api/v1/borrow.
type BorrowRequest struct {
	ItemID uuid.UUID `json:"item_id"`
}

// Validate checks the request payload.
func (req *BorrowRequest) Validate() error {
	if req.ItemID == uuid.Nil {
		return fmt.Errorf("item_id is required")
	}
	return nil
}

// Borrow handles POST /api/v1/borrow
func (h *BorrowHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BorrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.service.Borrow(ctx, sessionFrom(r), req.ItemID)
	if err != nil {
		h.logger.WarnContext(ctx, "borrow rejected",
			slog.String("item_id", req.ItemID.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, outcome)
}

// Return handles POST /api/v1/returns/{recordID}
func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, err := uuid.Parse(r.PathValue("recordID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid record ID")
		return
	}

	outcome, err := h.service.Return(ctx, sessionFrom(r), recordID)
	if err != nil {
		h.logger.WarnContext(ctx, "return rejected",
			slog.String("record_id", recordID.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

// ListRecords handles GET /api/v1/borrows
func (h *BorrowHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := ports.BorrowQueryParams{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		if limit > 100 {
			limit = 100
		}
		params.PageSize = limit
	}
	if active, err := strconv.ParseBool(r.URL.Query().Get("active")); err == nil {
		params.ActiveOnly = active
	}

	// Borrow records are always scoped to the caller.
	sess := sessionFrom(r)
	params.UserID = sess.UserID

	records, err := h.service.ListRecords(ctx, sess, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list borrow records",
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}
