// internal/adapters/db/item_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// itemRepository implements ports.ItemRepository
type itemRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *Database, logger *slog.Logger) ports.ItemRepository {
	return &itemRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "items")),
	}
}

// Save creates a new item row
func (r *itemRepository) Save(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (
			id, app_id, name, total_quantity, available_quantity, image_url
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING created_at`

	var imageURL *string
	if item.ImageURL != "" {
		imageURL = &item.ImageURL
	}

	err := r.db.QueryRow(ctx, query,
		item.ID, item.AppID, item.Name,
		item.TotalQuantity, item.AvailableQuantity, imageURL,
	).Scan(&item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	r.logger.DebugContext(ctx, "item saved",
		slog.String("item_id", item.ID.String()),
		slog.String("app_id", item.AppID))

	return nil
}

// SaveBatch saves multiple items in a single transaction
func (r *itemRepository) SaveBatch(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}

		query := `
			INSERT INTO items (
				id, app_id, name, total_quantity, available_quantity, image_url
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at`

		for i := range items {
			var imageURL *string
			if items[i].ImageURL != "" {
				imageURL = &items[i].ImageURL
			}
			batch.Queue(query,
				items[i].ID, items[i].AppID, items[i].Name,
				items[i].TotalQuantity, items[i].AvailableQuantity, imageURL,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range items {
			if err := br.QueryRow().Scan(&items[i].CreatedAt); err != nil {
				return fmt.Errorf("failed to save item %d: %w", i, err)
			}
		}

		return nil
	})
}

// FindByID retrieves an item by ID within a tenant. Returns (nil, nil)
// when the item does not exist.
func (r *itemRepository) FindByID(ctx context.Context, appID string, id uuid.UUID) (*domain.Item, error) {
	query := `
		SELECT id, app_id, name, total_quantity, available_quantity, image_url, created_at
		FROM items
		WHERE app_id = $1 AND id = $2`

	item := &domain.Item{}
	var imageURL sql.NullString

	err := r.db.QueryRow(ctx, query, appID, id).Scan(
		&item.ID, &item.AppID, &item.Name,
		&item.TotalQuantity, &item.AvailableQuantity,
		&imageURL, &item.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	item.ImageURL = imageURL.String
	return item, nil
}

// FindAll retrieves items matching the query params, with the total
// count of matches before pagination.
func (r *itemRepository) FindAll(ctx context.Context, appID string, params ports.ItemQueryParams) ([]*domain.Item, int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	base := psql.
		Select("id", "app_id", "name", "total_quantity", "available_quantity", "image_url", "created_at").
		From("items").
		Where(squirrel.Eq{"app_id": appID})

	countQ := psql.Select("COUNT(*)").From("items").Where(squirrel.Eq{"app_id": appID})

	if params.Search != "" {
		like := squirrel.ILike{"name": "%" + params.Search + "%"}
		base = base.Where(like)
		countQ = countQ.Where(like)
	}
	if params.AvailableOnly {
		avail := squirrel.Gt{"available_quantity": 0}
		base = base.Where(avail)
		countQ = countQ.Where(avail)
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	orderBy := "created_at DESC"
	switch params.SortBy {
	case "name", "created_at", "available_quantity", "total_quantity":
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}
		orderBy = params.SortBy + " " + direction
	}
	base = base.OrderBy(orderBy)

	if params.PageSize > 0 {
		offset := 0
		if params.Page > 1 {
			offset = (params.Page - 1) * params.PageSize
		}
		base = base.Limit(uint64(params.PageSize)).Offset(uint64(offset))
	}

	querySQL, queryArgs, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}

	items, err := ScanMany(rows, scanItem)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan items: %w", err)
	}

	return items, totalCount, nil
}

// SetImageURL updates the stored image URL for an item
func (r *itemRepository) SetImageURL(ctx context.Context, appID string, id uuid.UUID, imageURL string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE items SET image_url = $3 WHERE app_id = $1 AND id = $2`,
		appID, id, imageURL)
	if err != nil {
		return fmt.Errorf("failed to set image url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete hard-deletes an item. Borrow records are left untouched; they
// reference items weakly.
func (r *itemRepository) Delete(ctx context.Context, appID string, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM items WHERE app_id = $1 AND id = $2`, appID, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	r.logger.DebugContext(ctx, "item deleted",
		slog.String("item_id", id.String()),
		slog.String("app_id", appID))

	return nil
}

// Count returns the number of items in a tenant
func (r *itemRepository) Count(ctx context.Context, appID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM items WHERE app_id = $1`, appID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// Exists checks whether an item exists in a tenant
func (r *itemRepository) Exists(ctx context.Context, appID string, id uuid.UUID) (bool, error) {
	exists, err := r.db.Exists(ctx,
		`SELECT 1 FROM items WHERE app_id = $1 AND id = $2`, appID, id)
	if err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", err)
	}
	return exists, nil
}

func scanItem(rows pgx.Rows) (*domain.Item, error) {
	item := &domain.Item{}
	var imageURL sql.NullString

	err := rows.Scan(
		&item.ID, &item.AppID, &item.Name,
		&item.TotalQuantity, &item.AvailableQuantity,
		&imageURL, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.ImageURL = imageURL.String
	return item, nil
}
