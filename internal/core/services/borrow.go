// internal/core/services/borrow.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// User-facing notice wordings for the borrow and return workflows.
const (
	msgBorrowSuccess = "You have successfully borrowed a %s!"
	msgReturnSuccess = "You have successfully returned the %s!"
	msgItemGone      = "Could not find the original item in inventory. Please contact support."
)

// BorrowService orchestrates the borrow and return workflows on top of
// the transactional ledger repository, translating outcomes into notices
// and announcing changes on both feeds.
type BorrowService struct {
	repo   ports.BorrowRepository
	bus    ports.EventPublisher
	logger *slog.Logger
}

// Statically assert that *BorrowService implements the BorrowService interface.
var _ ports.BorrowService = (*BorrowService)(nil)

// NewBorrowService creates a new borrow service
func NewBorrowService(repo ports.BorrowRepository, bus ports.EventPublisher, logger *slog.Logger) *BorrowService {
	return &BorrowService{
		repo:   repo,
		bus:    bus,
		logger: logger.With(slog.String("service", "borrow")),
	}
}

// Borrow takes one unit of the item for the session's user. The decrement
// and the ledger insert commit atomically; under contention for the last
// unit exactly one caller wins and the rest get domain.ErrOutOfStock.
func (s *BorrowService) Borrow(ctx context.Context, sess domain.Session, itemID uuid.UUID) (*ports.BorrowOutcome, error) {
	if !sess.Resolved() {
		return nil, domain.ErrScopeNotReady
	}

	record, err := s.repo.Borrow(ctx, sess.AppID, itemID, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrOutOfStock) {
			return nil, err
		}
		return nil, fmt.Errorf("borrow failed: %w", err)
	}

	s.logger.InfoContext(ctx, "item borrowed",
		slog.String("record_id", record.ID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("user_id", sess.UserID))

	s.publishChange(ctx, sess.AppID, domain.CollectionInventory)
	s.publishChange(ctx, sess.AppID, domain.CollectionBorrowed)

	return &ports.BorrowOutcome{
		Record: record,
		Notice: domain.SuccessNotice(fmt.Sprintf(msgBorrowSuccess, record.ItemName)),
	}, nil
}

// Return closes the user's borrow record and puts the unit back on the
// shelf. When the item row was deleted since the borrow, the return still
// commits and the outcome carries a warning notice instead of a success.
func (s *BorrowService) Return(ctx context.Context, sess domain.Session, recordID uuid.UUID) (*ports.BorrowOutcome, error) {
	if !sess.Resolved() {
		return nil, domain.ErrScopeNotReady
	}

	record, itemGone, err := s.repo.Return(ctx, sess.AppID, recordID, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotBorrowable) {
			return nil, err
		}
		return nil, fmt.Errorf("return failed: %w", err)
	}

	s.logger.InfoContext(ctx, "item returned",
		slog.String("record_id", record.ID.String()),
		slog.String("user_id", sess.UserID),
		slog.Bool("item_gone", itemGone))

	s.publishChange(ctx, sess.AppID, domain.CollectionBorrowed)

	notice := domain.SuccessNotice(fmt.Sprintf(msgReturnSuccess, record.ItemName))
	if itemGone {
		notice = domain.WarningNotice(msgItemGone)
	} else {
		s.publishChange(ctx, sess.AppID, domain.CollectionInventory)
	}

	return &ports.BorrowOutcome{Record: record, Notice: notice}, nil
}

// ListRecords lists borrow records in the caller's tenant.
func (s *BorrowService) ListRecords(ctx context.Context, sess domain.Session, params ports.BorrowQueryParams) ([]*domain.BorrowRecord, error) {
	if !sess.Resolved() {
		return nil, domain.ErrScopeNotReady
	}

	records, err := s.repo.FindAll(ctx, sess.AppID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrow records: %w", err)
	}

	return records, nil
}

func (s *BorrowService) publishChange(ctx context.Context, appID, collection string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishChange(ctx, appID, collection); err != nil {
		s.logger.WarnContext(ctx, "failed to publish change",
			slog.String("app_id", appID),
			slog.String("collection", collection),
			slog.Any("error", err))
	}
}
