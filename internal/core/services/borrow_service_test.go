// internal/core/services/borrow_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
	"github.com/reusehub/reuse-be/internal/core/services"
	"github.com/reusehub/reuse-be/test/helpers"
	"github.com/reusehub/reuse-be/test/mocks"
)

func newBorrowService(t *testing.T) (*services.BorrowService, *mocks.MockBorrowRepository, *mocks.MockEventPublisher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBorrowRepository(ctrl)
	bus := mocks.NewMockEventPublisher(ctrl)

	svc := services.NewBorrowService(repo, bus, helpers.TestLogger())
	return svc, repo, bus
}

func TestBorrowService_Borrow(t *testing.T) {
	sess := helpers.TestSession()
	itemID := uuid.New()

	t.Run("successful_borrow_notifies_both_feeds", func(t *testing.T) {
		svc, repo, bus := newBorrowService(t)

		record := helpers.CreateTestBorrowRecord(func(r *domain.BorrowRecord) {
			r.ItemID = itemID
			r.ItemName = "Projector"
		})

		repo.EXPECT().
			Borrow(gomock.Any(), sess.AppID, itemID, sess.UserID).
			Return(record, nil)
		bus.EXPECT().PublishChange(gomock.Any(), sess.AppID, domain.CollectionInventory).Return(nil)
		bus.EXPECT().PublishChange(gomock.Any(), sess.AppID, domain.CollectionBorrowed).Return(nil)

		outcome, err := svc.Borrow(context.Background(), sess, itemID)
		require.NoError(t, err)

		assert.Equal(t, record, outcome.Record)
		require.NotNil(t, outcome.Notice)
		assert.Equal(t, domain.NoticeSuccess, outcome.Notice.Kind)
		assert.Equal(t, "You have successfully borrowed a Projector!", outcome.Notice.Message)
	})

	t.Run("unresolved_session_is_deferred", func(t *testing.T) {
		svc, _, _ := newBorrowService(t)

		_, err := svc.Borrow(context.Background(), domain.Session{}, itemID)
		assert.ErrorIs(t, err, domain.ErrScopeNotReady)
	})

	t.Run("out_of_stock_passes_through", func(t *testing.T) {
		svc, repo, _ := newBorrowService(t)

		repo.EXPECT().
			Borrow(gomock.Any(), sess.AppID, itemID, sess.UserID).
			Return(nil, domain.ErrOutOfStock)

		_, err := svc.Borrow(context.Background(), sess, itemID)
		assert.ErrorIs(t, err, domain.ErrOutOfStock)
	})

	t.Run("unknown_item_passes_through", func(t *testing.T) {
		svc, repo, _ := newBorrowService(t)

		repo.EXPECT().
			Borrow(gomock.Any(), sess.AppID, itemID, sess.UserID).
			Return(nil, domain.ErrNotFound)

		_, err := svc.Borrow(context.Background(), sess, itemID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("database_failure_is_wrapped", func(t *testing.T) {
		svc, repo, _ := newBorrowService(t)

		repo.EXPECT().
			Borrow(gomock.Any(), sess.AppID, itemID, sess.UserID).
			Return(nil, errors.New("deadlock detected"))

		_, err := svc.Borrow(context.Background(), sess, itemID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "borrow failed")
	})
}

func TestBorrowService_Return(t *testing.T) {
	sess := helpers.TestSession()
	recordID := uuid.New()

	t.Run("successful_return_notifies_both_feeds", func(t *testing.T) {
		svc, repo, bus := newBorrowService(t)

		record := helpers.CreateTestBorrowRecord(func(r *domain.BorrowRecord) {
			r.ID = recordID
			r.ItemName = "Desk Lamp"
			r.Status = domain.StatusReturned
		})

		repo.EXPECT().
			Return(gomock.Any(), sess.AppID, recordID, sess.UserID).
			Return(record, false, nil)
		bus.EXPECT().PublishChange(gomock.Any(), sess.AppID, domain.CollectionBorrowed).Return(nil)
		bus.EXPECT().PublishChange(gomock.Any(), sess.AppID, domain.CollectionInventory).Return(nil)

		outcome, err := svc.Return(context.Background(), sess, recordID)
		require.NoError(t, err)

		require.NotNil(t, outcome.Notice)
		assert.Equal(t, domain.NoticeSuccess, outcome.Notice.Kind)
		assert.Equal(t, "You have successfully returned the Desk Lamp!", outcome.Notice.Message)
	})

	t.Run("deleted_item_returns_warning_and_skips_inventory_feed", func(t *testing.T) {
		svc, repo, bus := newBorrowService(t)

		record := helpers.CreateTestBorrowRecord(func(r *domain.BorrowRecord) {
			r.ID = recordID
			r.Status = domain.StatusReturned
		})

		repo.EXPECT().
			Return(gomock.Any(), sess.AppID, recordID, sess.UserID).
			Return(record, true, nil)
		bus.EXPECT().PublishChange(gomock.Any(), sess.AppID, domain.CollectionBorrowed).Return(nil)

		outcome, err := svc.Return(context.Background(), sess, recordID)
		require.NoError(t, err, "the return itself still commits")

		require.NotNil(t, outcome.Notice)
		assert.Equal(t, domain.NoticeWarning, outcome.Notice.Kind)
		assert.Equal(t, "Could not find the original item in inventory. Please contact support.", outcome.Notice.Message)
	})

	t.Run("not_borrowable_passes_through", func(t *testing.T) {
		svc, repo, _ := newBorrowService(t)

		repo.EXPECT().
			Return(gomock.Any(), sess.AppID, recordID, sess.UserID).
			Return(nil, false, domain.ErrNotBorrowable)

		_, err := svc.Return(context.Background(), sess, recordID)
		assert.ErrorIs(t, err, domain.ErrNotBorrowable)
	})

	t.Run("unresolved_session_is_deferred", func(t *testing.T) {
		svc, _, _ := newBorrowService(t)

		_, err := svc.Return(context.Background(), domain.Session{}, recordID)
		assert.ErrorIs(t, err, domain.ErrScopeNotReady)
	})
}

func TestBorrowService_ListRecords(t *testing.T) {
	sess := helpers.TestSession()

	svc, repo, _ := newBorrowService(t)

	expected := []*domain.BorrowRecord{
		helpers.CreateTestBorrowRecord(),
		helpers.CreateTestBorrowRecord(),
	}

	repo.EXPECT().
		FindAll(gomock.Any(), sess.AppID, ports.BorrowQueryParams{UserID: sess.UserID, ActiveOnly: true}).
		Return(expected, nil)

	records, err := svc.ListRecords(context.Background(), sess, ports.BorrowQueryParams{
		UserID:     sess.UserID,
		ActiveOnly: true,
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
