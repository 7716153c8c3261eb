// internal/handlers/items.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// maxImageUploadBytes caps the multipart body accepted by AttachImage.
const maxImageUploadBytes = 10 << 20

// ItemHandler handles inventory item endpoints.
type ItemHandler struct {
	service ports.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new item handler.
func NewItemHandler(service ports.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "items")),
	}
}

// CreateItemRequest is the payload for POST /api/v1/items.
type CreateItemRequest struct {
	Name          string `json:"name"`
	TotalQuantity int    `json:"total_quantity"`
	ImageURL      string `json:"image_url,omitempty"`
}

// Validate checks the request payload.
func (req *CreateItemRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if req.TotalQuantity < 1 {
		return fmt.Errorf("total_quantity must be at least 1")
	}
	return nil
}

// ToDomain converts the request to a domain item.
func (req *CreateItemRequest) ToDomain() *domain.Item {
	return &domain.Item{
		Name:          strings.TrimSpace(req.Name),
		TotalQuantity: req.TotalQuantity,
		ImageURL:      req.ImageURL,
	}
}

// Create handles POST /api/v1/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := req.ToDomain()
	if err := h.service.Create(ctx, sessionFrom(r), item); err != nil {
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("name", req.Name),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"item":   item,
		"notice": domain.SuccessNotice(fmt.Sprintf("Added %s to the hub!", item.Name)),
	})
}

// Get handles GET /api/v1/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	item, err := h.service.GetByID(ctx, sessionFrom(r), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// List handles GET /api/v1/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := parseListParams(r)

	result, err := h.service.List(ctx, sessionFrom(r), params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /api/v1/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.service.Delete(ctx, sessionFrom(r), id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"notice": domain.SuccessNotice("Item deleted successfully!"),
	})
}

// AttachImage handles POST /api/v1/items/{id}/image
func (h *ItemHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	item, err := h.service.AttachImage(ctx, sessionFrom(r), id, header.Filename, file)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to attach image",
			slog.String("item_id", id.String()),
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// parseListParams extracts pagination and filter parameters from the
// query string.
func parseListParams(r *http.Request) ports.ListParams {
	params := ports.ListParams{
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

	params.Search = r.URL.Query().Get("search")
	params.SortBy = r.URL.Query().Get("sort")
	params.SortOrder = r.URL.Query().Get("order")

	if avail, err := strconv.ParseBool(r.URL.Query().Get("available")); err == nil {
		params.AvailableOnly = avail
	}

	return params
}
