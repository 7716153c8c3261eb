// internal/core/ports/borrow_service.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/core/domain"
)

// BorrowService defines the application service port for the borrow and
// return workflows.
type BorrowService interface {
	Borrow(ctx context.Context, sess domain.Session, itemID uuid.UUID) (*BorrowOutcome, error)
	Return(ctx context.Context, sess domain.Session, recordID uuid.UUID) (*BorrowOutcome, error)
	ListRecords(ctx context.Context, sess domain.Session, params BorrowQueryParams) ([]*domain.BorrowRecord, error)
}

// BorrowOutcome pairs the affected ledger record with the notice shown
// to the user. Notice may be a warning on an otherwise successful
// operation, e.g. returning a record whose item was deleted.
type BorrowOutcome struct {
	Record *domain.BorrowRecord `json:"record"`
	Notice *domain.Notice       `json:"notice,omitempty"`
}
