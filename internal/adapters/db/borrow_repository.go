// internal/adapters/db/borrow_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// borrowRepository implements ports.BorrowRepository
type borrowRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewBorrowRepository creates a new borrow ledger repository
func NewBorrowRepository(db *Database, logger *slog.Logger) ports.BorrowRepository {
	return &borrowRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "borrows")),
	}
}

// Borrow takes one unit of an item and records it in the ledger, all in
// one transaction. The decrement is conditional on availability, so two
// concurrent borrows of the last unit resolve to exactly one success:
// the loser's UPDATE matches zero rows and nothing is mutated.
func (r *borrowRepository) Borrow(ctx context.Context, appID string, itemID uuid.UUID, userID string) (*domain.BorrowRecord, error) {
	var record *domain.BorrowRecord

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		var name string
		err := tx.QueryRow(ctx, `
			UPDATE items
			SET available_quantity = available_quantity - 1
			WHERE app_id = $1 AND id = $2 AND available_quantity > 0
			RETURNING name`,
			appID, itemID,
		).Scan(&name)

		if err != nil {
			if err != pgx.ErrNoRows {
				return fmt.Errorf("failed to decrement availability: %w", err)
			}
			// Zero rows: either the item is gone or it is fully
			// borrowed. Distinguish for the error taxonomy.
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM items WHERE app_id = $1 AND id = $2)`,
				appID, itemID,
			).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check item existence: %w", err)
			}
			if !exists {
				return domain.ErrNotFound
			}
			return domain.ErrOutOfStock
		}

		record = &domain.BorrowRecord{
			ID:       uuid.New(),
			AppID:    appID,
			ItemID:   itemID,
			ItemName: name,
			UserID:   userID,
			Status:   domain.StatusBorrowed,
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO borrow_records (
				id, app_id, item_id, item_name, user_id, status
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING borrow_date`,
			record.ID, record.AppID, record.ItemID,
			record.ItemName, record.UserID, record.Status,
		).Scan(&record.BorrowDate)
		if err != nil {
			return fmt.Errorf("failed to insert borrow record: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "borrow recorded",
		slog.String("record_id", record.ID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("user_id", userID))

	return record, nil
}

// Return flips an active record to returned and gives the unit back to
// the item, in one transaction. The status flip is conditional on the
// record being active and owned by the caller. If the item row was
// deleted the increment is skipped, the return still commits, and
// itemGone is reported so the caller can warn.
func (r *borrowRepository) Return(ctx context.Context, appID string, recordID uuid.UUID, userID string) (*domain.BorrowRecord, bool, error) {
	record := &domain.BorrowRecord{}
	var itemGone bool

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		var returnDate time.Time
		err := tx.QueryRow(ctx, `
			UPDATE borrow_records
			SET status = $4, return_date = now()
			WHERE app_id = $1 AND id = $2 AND user_id = $3 AND status = $5
			RETURNING item_id, item_name, borrow_date, return_date`,
			appID, recordID, userID, domain.StatusReturned, domain.StatusBorrowed,
		).Scan(&record.ItemID, &record.ItemName, &record.BorrowDate, &returnDate)

		if err != nil {
			if err == pgx.ErrNoRows {
				return domain.ErrNotBorrowable
			}
			return fmt.Errorf("failed to update borrow record: %w", err)
		}

		record.ID = recordID
		record.AppID = appID
		record.UserID = userID
		record.Status = domain.StatusReturned
		record.ReturnDate = &returnDate

		// The counter never climbs past total_quantity, even if the
		// ledger and counter have drifted.
		tag, err := tx.Exec(ctx, `
			UPDATE items
			SET available_quantity = LEAST(available_quantity + 1, total_quantity)
			WHERE app_id = $1 AND id = $2`,
			appID, record.ItemID)
		if err != nil {
			return fmt.Errorf("failed to increment availability: %w", err)
		}
		itemGone = tag.RowsAffected() == 0

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if itemGone {
		r.logger.WarnContext(ctx, "returned record references deleted item",
			slog.String("record_id", recordID.String()),
			slog.String("item_id", record.ItemID.String()))
	}

	return record, itemGone, nil
}

// FindByID retrieves a borrow record by ID within a tenant. Returns
// (nil, nil) when the record does not exist.
func (r *borrowRepository) FindByID(ctx context.Context, appID string, id uuid.UUID) (*domain.BorrowRecord, error) {
	query := `
		SELECT id, app_id, item_id, item_name, user_id, borrow_date, return_date, status
		FROM borrow_records
		WHERE app_id = $1 AND id = $2`

	row := r.db.QueryRow(ctx, query, appID, id)
	record, err := scanBorrowRecordRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find borrow record: %w", err)
	}

	return record, nil
}

// FindAll retrieves borrow records matching the query params
func (r *borrowRepository) FindAll(ctx context.Context, appID string, params ports.BorrowQueryParams) ([]*domain.BorrowRecord, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	q := psql.
		Select("id", "app_id", "item_id", "item_name", "user_id", "borrow_date", "return_date", "status").
		From("borrow_records").
		Where(squirrel.Eq{"app_id": appID}).
		OrderBy("borrow_date DESC")

	if params.UserID != "" {
		q = q.Where(squirrel.Eq{"user_id": params.UserID})
	}
	if params.ItemID != uuid.Nil {
		q = q.Where(squirrel.Eq{"item_id": params.ItemID})
	}
	if params.ActiveOnly {
		q = q.Where(squirrel.Eq{"status": domain.StatusBorrowed})
	}
	if params.PageSize > 0 {
		offset := 0
		if params.Page > 1 {
			offset = (params.Page - 1) * params.PageSize
		}
		q = q.Limit(uint64(params.PageSize)).Offset(uint64(offset))
	}

	querySQL, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ledger query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrow records: %w", err)
	}

	records, err := ScanMany(rows, scanBorrowRecord)
	if err != nil {
		return nil, fmt.Errorf("failed to scan borrow records: %w", err)
	}

	return records, nil
}

// CountActiveByItem returns how many units of an item are currently out
func (r *borrowRepository) CountActiveByItem(ctx context.Context, appID string, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM borrow_records
		WHERE app_id = $1 AND item_id = $2 AND status = $3`,
		appID, itemID, domain.StatusBorrowed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active borrows: %w", err)
	}
	return count, nil
}

func scanBorrowRecord(rows pgx.Rows) (*domain.BorrowRecord, error) {
	return scanBorrowRecordRow(rows)
}

func scanBorrowRecordRow(row pgx.Row) (*domain.BorrowRecord, error) {
	record := &domain.BorrowRecord{}
	var returnDate *time.Time

	err := row.Scan(
		&record.ID, &record.AppID, &record.ItemID, &record.ItemName,
		&record.UserID, &record.BorrowDate, &returnDate, &record.Status,
	)
	if err != nil {
		return nil, err
	}

	record.ReturnDate = returnDate
	return record, nil
}
