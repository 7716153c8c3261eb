// internal/core/ports/item_service.go
package ports

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/core/domain"
)

// ItemService defines the application service port for inventory
// management. Every operation takes the caller's session explicitly;
// implementations return domain.ErrScopeNotReady for unresolved scopes.
type ItemService interface {
	Create(ctx context.Context, sess domain.Session, item *domain.Item) error
	GetByID(ctx context.Context, sess domain.Session, id uuid.UUID) (*domain.Item, error)
	List(ctx context.Context, sess domain.Session, params ListParams) (*ListResult, error)
	Delete(ctx context.Context, sess domain.Session, id uuid.UUID) error
	AttachImage(ctx context.Context, sess domain.Session, id uuid.UUID, filename string, data io.Reader) (*domain.Item, error)
}

// ListParams holds parameters for listing items.
type ListParams struct {
	Search        string
	AvailableOnly bool
	SortBy        string
	SortOrder     string
	Page          int
	PageSize      int
}

// ListResult holds the result of listing items.
type ListResult struct {
	Items      []*domain.Item `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalCount int64          `json:"total_count"`
	TotalPages int            `json:"total_pages"`
}
