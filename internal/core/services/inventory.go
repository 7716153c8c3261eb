// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// ItemService handles inventory business logic: validation, persistence,
// image attachment, and change notification for the inventory feed.
type ItemService struct {
	repo   ports.ItemRepository
	images ports.ImageStore
	bus    ports.EventPublisher
	logger *slog.Logger
}

// Statically assert that *ItemService implements the ItemService interface.
var _ ports.ItemService = (*ItemService)(nil)

// NewItemService creates a new inventory service
func NewItemService(repo ports.ItemRepository, images ports.ImageStore, bus ports.EventPublisher, logger *slog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		images: images,
		bus:    bus,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// Create validates and persists a new item, then announces the change on
// the inventory feed.
func (s *ItemService) Create(ctx context.Context, sess domain.Session, item *domain.Item) error {
	if !sess.Resolved() {
		return domain.ErrScopeNotReady
	}

	item.AppID = sess.AppID
	item.PrepareForStorage()

	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.InfoContext(ctx, "created item",
		slog.String("item_id", item.ID.String()),
		slog.String("app_id", item.AppID),
		slog.String("name", item.Name))

	s.publishChange(ctx, sess.AppID)
	return nil
}

// GetByID retrieves a single item by ID within the caller's tenant.
func (s *ItemService) GetByID(ctx context.Context, sess domain.Session, id uuid.UUID) (*domain.Item, error) {
	if !sess.Resolved() {
		return nil, domain.ErrScopeNotReady
	}

	item, err := s.repo.FindByID(ctx, sess.AppID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}

	return item, nil
}

// List retrieves items with filtering and pagination.
func (s *ItemService) List(ctx context.Context, sess domain.Session, params ports.ListParams) (*ports.ListResult, error) {
	if !sess.Resolved() {
		return nil, domain.ErrScopeNotReady
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 50
	}

	items, totalCount, err := s.repo.FindAll(ctx, sess.AppID, ports.ItemQueryParams{
		Search:        params.Search,
		AvailableOnly: params.AvailableOnly,
		SortBy:        params.SortBy,
		SortOrder:     params.SortOrder,
		Page:          params.Page,
		PageSize:      params.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	totalPages := int(totalCount) / params.PageSize
	if int(totalCount)%params.PageSize > 0 {
		totalPages++
	}

	return &ports.ListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// Delete removes an item from inventory. Ledger rows referencing the
// item are kept; returns against them later surface a warning instead of
// failing. Stored images are cleaned up best-effort.
func (s *ItemService) Delete(ctx context.Context, sess domain.Session, id uuid.UUID) error {
	if !sess.Resolved() {
		return domain.ErrScopeNotReady
	}

	if err := s.repo.Delete(ctx, sess.AppID, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if s.images != nil {
		if err := s.images.DeleteItemImages(ctx, sess.AppID, id.String()); err != nil {
			s.logger.WarnContext(ctx, "failed to delete item images",
				slog.String("item_id", id.String()),
				slog.Any("error", err))
		}
	}

	s.logger.InfoContext(ctx, "deleted item",
		slog.String("item_id", id.String()),
		slog.String("app_id", sess.AppID))

	s.publishChange(ctx, sess.AppID)
	return nil
}

// AttachImage stores an uploaded image for the item and records its URL.
func (s *ItemService) AttachImage(ctx context.Context, sess domain.Session, id uuid.UUID, filename string, data io.Reader) (*domain.Item, error) {
	if !sess.Resolved() {
		return nil, domain.ErrScopeNotReady
	}
	if s.images == nil {
		return nil, fmt.Errorf("image storage not configured")
	}

	exists, err := s.repo.Exists(ctx, sess.AppID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check item existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}

	imageURL, err := s.images.UploadItemImage(ctx, sess.AppID, id.String(), filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	if err := s.repo.SetImageURL(ctx, sess.AppID, id, imageURL); err != nil {
		return nil, fmt.Errorf("failed to record image url: %w", err)
	}

	item, err := s.repo.FindByID(ctx, sess.AppID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload item: %w", err)
	}

	s.logger.InfoContext(ctx, "attached item image",
		slog.String("item_id", id.String()),
		slog.String("image_url", imageURL))

	s.publishChange(ctx, sess.AppID)
	return item, nil
}

// publishChange announces an inventory mutation. Feed delivery is
// best-effort: a publish failure never rolls back the committed write.
func (s *ItemService) publishChange(ctx context.Context, appID string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishChange(ctx, appID, domain.CollectionInventory); err != nil {
		s.logger.WarnContext(ctx, "failed to publish inventory change",
			slog.String("app_id", appID),
			slog.Any("error", err))
	}
}
