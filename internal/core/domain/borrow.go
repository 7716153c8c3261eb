// internal/core/domain/borrow.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BorrowStatus represents the lifecycle state of a borrow record.
// The transition is monotonic: borrowed -> returned.
type BorrowStatus string

const (
	StatusBorrowed BorrowStatus = "borrowed"
	StatusReturned BorrowStatus = "returned"
)

// BorrowRecord is one entry in the borrow ledger. ItemID is a weak
// reference: the item row may have been deleted by an admin, and the
// record survives it. ItemName is a snapshot taken at borrow time and is
// never re-dereferenced against the items table.
type BorrowRecord struct {
	ID         uuid.UUID    `json:"id"`
	AppID      string       `json:"app_id"`
	ItemID     uuid.UUID    `json:"item_id"`
	ItemName   string       `json:"item_name"`
	UserID     string       `json:"user_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
}

// NewBorrowRecord builds the ledger entry for a fresh borrow of the
// given item by the given user.
func NewBorrowRecord(item *Item, userID string) *BorrowRecord {
	return &BorrowRecord{
		ID:         uuid.New(),
		AppID:      item.AppID,
		ItemID:     item.ID,
		ItemName:   item.Name,
		UserID:     userID,
		BorrowDate: time.Now(),
		Status:     StatusBorrowed,
	}
}

// Validate performs domain validation on the borrow record.
func (b *BorrowRecord) Validate() error {
	if b.ItemID == uuid.Nil {
		return fmt.Errorf("item_id is required")
	}
	if b.ItemName == "" {
		return fmt.Errorf("item_name is required")
	}
	if b.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	switch b.Status {
	case StatusBorrowed, StatusReturned:
	default:
		return fmt.Errorf("invalid status: %s", b.Status)
	}
	if b.Status == StatusBorrowed && b.ReturnDate != nil {
		return fmt.Errorf("active borrow cannot carry a return_date")
	}
	return nil
}

// IsActive reports whether the record still holds a unit of the item.
func (b *BorrowRecord) IsActive() bool {
	return b.Status == StatusBorrowed
}

// MarkReturned transitions the record to returned with the given
// timestamp. Returning an already returned record is rejected.
func (b *BorrowRecord) MarkReturned(at time.Time) error {
	if b.Status == StatusReturned {
		return fmt.Errorf("record %s already returned", b.ID)
	}
	b.Status = StatusReturned
	b.ReturnDate = &at
	return nil
}
