// internal/core/ports/borrow_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/core/domain"
)

// BorrowRepository defines the persistence port for the borrow ledger.
//
// Borrow and Return each run as a single database transaction so the
// availability counter and the ledger can never diverge: Borrow pairs a
// conditional decrement of items.available_quantity with the INSERT of
// the ledger row, Return pairs the status flip with the conditional
// increment. Borrow returns domain.ErrOutOfStock when a concurrent
// borrow takes the last unit first, and domain.ErrNotFound when the item
// does not exist in the tenant. Return reports itemGone=true when the
// item row was deleted; the return itself still commits.
type BorrowRepository interface {
	Borrow(ctx context.Context, appID string, itemID uuid.UUID, userID string) (*domain.BorrowRecord, error)
	Return(ctx context.Context, appID string, recordID uuid.UUID, userID string) (rec *domain.BorrowRecord, itemGone bool, err error)
	FindByID(ctx context.Context, appID string, id uuid.UUID) (*domain.BorrowRecord, error)
	FindAll(ctx context.Context, appID string, params BorrowQueryParams) ([]*domain.BorrowRecord, error)
	CountActiveByItem(ctx context.Context, appID string, itemID uuid.UUID) (int64, error)
}

// BorrowQueryParams holds filters for listing borrow records.
type BorrowQueryParams struct {
	UserID     string
	ItemID     uuid.UUID
	ActiveOnly bool
	Page       int
	PageSize   int
}
