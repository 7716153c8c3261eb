// internal/handlers/export_handler_test.go
package handlers_test

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/handlers"
	"github.com/reusehub/reuse-be/test/helpers"
	"github.com/reusehub/reuse-be/test/mocks"
)

func TestExportHandler_ExportItems(t *testing.T) {
	sess := helpers.TestSession()

	newHandler := func(ctrl *gomock.Controller) (*handlers.ExportHandler, *mocks.MockItemRepository, *mocks.MockBorrowRepository) {
		items := mocks.NewMockItemRepository(ctrl)
		borrows := mocks.NewMockBorrowRepository(ctrl)
		return handlers.NewExportHandler(items, borrows, helpers.TestLogger()), items, borrows
	}

	t.Run("exports items as xlsx by default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		handler, items, _ := newHandler(ctrl)
		items.EXPECT().FindAll(gomock.Any(), sess.AppID, gomock.Any()).
			Return([]*domain.Item{
				helpers.CreateTestItem(func(i *domain.Item) { i.Name = "Projector" }),
			}, int64(1), nil)

		req := withSession(httptest.NewRequest("GET", "/api/v1/export/items", nil), sess)
		w := httptest.NewRecorder()
		handler.ExportItems(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "items_export_")

		wb, err := xlsx.OpenBinary(w.Body.Bytes())
		require.NoError(t, err)
		require.Len(t, wb.Sheets, 1)
		assert.Equal(t, "Inventory", wb.Sheets[0].Name)
		assert.Equal(t, 2, wb.Sheets[0].MaxRow)

		nameCell, err := wb.Sheets[0].Cell(1, 1)
		require.NoError(t, err)
		assert.Equal(t, "Projector", nameCell.String())
	})

	t.Run("exports items as csv", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		handler, items, _ := newHandler(ctrl)
		items.EXPECT().FindAll(gomock.Any(), sess.AppID, gomock.Any()).
			Return([]*domain.Item{
				helpers.CreateTestItem(func(i *domain.Item) {
					i.Name = "Bike Pump"
					i.TotalQuantity = 2
					i.AvailableQuantity = 1
				}),
			}, int64(1), nil)

		req := withSession(httptest.NewRequest("GET", "/api/v1/export/items?format=csv", nil), sess)
		w := httptest.NewRecorder()
		handler.ExportItems(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

		records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Name", records[0][1])
		assert.Equal(t, "Bike Pump", records[1][1])
		assert.Equal(t, "2", records[1][2])
		assert.Equal(t, "1", records[1][3])
	})

	t.Run("defers when session is unresolved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		handler, _, _ := newHandler(ctrl)

		req := withSession(httptest.NewRequest("GET", "/api/v1/export/items", nil), domain.Session{})
		w := httptest.NewRecorder()
		handler.ExportItems(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestExportHandler_ExportLedger(t *testing.T) {
	sess := helpers.TestSession()

	t.Run("exports ledger as csv with return dates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		items := mocks.NewMockItemRepository(ctrl)
		borrows := mocks.NewMockBorrowRepository(ctrl)
		handler := handlers.NewExportHandler(items, borrows, helpers.TestLogger())

		returnedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		borrows.EXPECT().FindAll(gomock.Any(), sess.AppID, gomock.Any()).
			Return([]*domain.BorrowRecord{
				helpers.CreateTestBorrowRecord(func(r *domain.BorrowRecord) {
					r.Status = domain.StatusReturned
					r.ReturnDate = &returnedAt
				}),
				helpers.CreateTestBorrowRecord(),
			}, nil)

		req := withSession(httptest.NewRequest("GET", "/api/v1/export/ledger?format=csv", nil), sess)
		w := httptest.NewRecorder()
		handler.ExportLedger(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, string(domain.StatusReturned), records[1][4])
		assert.Equal(t, returnedAt.Format(time.RFC3339), records[1][6])
		assert.Empty(t, records[2][6])
	})

	t.Run("exports ledger as json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		items := mocks.NewMockItemRepository(ctrl)
		borrows := mocks.NewMockBorrowRepository(ctrl)
		handler := handlers.NewExportHandler(items, borrows, helpers.TestLogger())

		borrows.EXPECT().FindAll(gomock.Any(), sess.AppID, gomock.Any()).
			Return([]*domain.BorrowRecord{helpers.CreateTestBorrowRecord()}, nil)

		req := withSession(httptest.NewRequest("GET", "/api/v1/export/ledger?format=json", nil), sess)
		w := httptest.NewRecorder()
		handler.ExportLedger(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.Contains(t, w.Body.String(), `"total_records":1`)
	})
}
