// internal/core/ports/item_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/core/domain"
)

// ItemRepository defines the persistence port for inventory items.
// All lookups are tenant-scoped by appID. FindByID returns (nil, nil)
// when the item does not exist.
type ItemRepository interface {
	Save(ctx context.Context, item *domain.Item) error
	SaveBatch(ctx context.Context, items []domain.Item) error
	FindByID(ctx context.Context, appID string, id uuid.UUID) (*domain.Item, error)
	FindAll(ctx context.Context, appID string, params ItemQueryParams) ([]*domain.Item, int64, error)
	SetImageURL(ctx context.Context, appID string, id uuid.UUID, imageURL string) error
	Delete(ctx context.Context, appID string, id uuid.UUID) error
	Count(ctx context.Context, appID string) (int64, error)
	Exists(ctx context.Context, appID string, id uuid.UUID) (bool, error)
}

// ItemQueryParams holds filters for listing items.
type ItemQueryParams struct {
	Search        string
	AvailableOnly bool
	SortBy        string
	SortOrder     string
	Page          int
	PageSize      int
}
