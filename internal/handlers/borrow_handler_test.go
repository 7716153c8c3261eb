// internal/handlers/borrow_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
	"github.com/reusehub/reuse-be/internal/handlers"
	"github.com/reusehub/reuse-be/test/helpers"
	"github.com/reusehub/reuse-be/test/mocks"
)

func TestBorrowHandler_Borrow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockBorrowService(ctrl)
	handler := handlers.NewBorrowHandler(service, helpers.TestLogger())
	sess := helpers.TestSession()

	t.Run("borrows item", func(t *testing.T) {
		rec := helpers.CreateTestBorrowRecord()
		service.EXPECT().
			Borrow(gomock.Any(), sess, rec.ItemID).
			Return(&ports.BorrowOutcome{
				Record: rec,
				Notice: domain.SuccessNotice("You have successfully borrowed a Desk Lamp!"),
			}, nil)

		body, _ := json.Marshal(handlers.BorrowRequest{ItemID: rec.ItemID})
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/borrow", bytes.NewReader(body)), sess)
		w := httptest.NewRecorder()

		handler.Borrow(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var outcome ports.BorrowOutcome
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
		assert.Equal(t, rec.ID, outcome.Record.ID)
		assert.Equal(t, "You have successfully borrowed a Desk Lamp!", outcome.Notice.Message)
	})

	t.Run("rejects missing item_id", func(t *testing.T) {
		body, _ := json.Marshal(handlers.BorrowRequest{})
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/borrow", bytes.NewReader(body)), sess)
		w := httptest.NewRecorder()

		handler.Borrow(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps out of stock to 409", func(t *testing.T) {
		itemID := uuid.New()
		service.EXPECT().
			Borrow(gomock.Any(), sess, itemID).
			Return(nil, domain.ErrOutOfStock)

		body, _ := json.Marshal(handlers.BorrowRequest{ItemID: itemID})
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/borrow", bytes.NewReader(body)), sess)
		w := httptest.NewRecorder()

		handler.Borrow(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "out of stock")
	})

	t.Run("maps missing item to 404", func(t *testing.T) {
		itemID := uuid.New()
		service.EXPECT().
			Borrow(gomock.Any(), sess, itemID).
			Return(nil, domain.ErrNotFound)

		body, _ := json.Marshal(handlers.BorrowRequest{ItemID: itemID})
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/borrow", bytes.NewReader(body)), sess)
		w := httptest.NewRecorder()

		handler.Borrow(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBorrowHandler_Return(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockBorrowService(ctrl)
	handler := handlers.NewBorrowHandler(service, helpers.TestLogger())
	sess := helpers.TestSession()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/returns/{recordID}", handler.Return)

	t.Run("returns item", func(t *testing.T) {
		rec := helpers.CreateTestBorrowRecord()
		service.EXPECT().
			Return(gomock.Any(), sess, rec.ID).
			Return(&ports.BorrowOutcome{
				Record: rec,
				Notice: domain.SuccessNotice("You have successfully returned the Desk Lamp!"),
			}, nil)

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/returns/"+rec.ID.String(), nil), sess)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "successfully returned")
	})

	t.Run("surfaces orphan warning", func(t *testing.T) {
		rec := helpers.CreateTestBorrowRecord()
		service.EXPECT().
			Return(gomock.Any(), sess, rec.ID).
			Return(&ports.BorrowOutcome{
				Record: rec,
				Notice: domain.WarningNotice("Could not find the original item in inventory. Please contact support."),
			}, nil)

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/returns/"+rec.ID.String(), nil), sess)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var outcome ports.BorrowOutcome
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
		assert.Equal(t, domain.NoticeWarning, outcome.Notice.Kind)
		assert.Equal(t, "Could not find the original item in inventory. Please contact support.", outcome.Notice.Message)
	})

	t.Run("maps double return to 409", func(t *testing.T) {
		id := uuid.New()
		service.EXPECT().
			Return(gomock.Any(), sess, id).
			Return(nil, domain.ErrNotBorrowable)

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/returns/"+id.String(), nil), sess)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects malformed record id", func(t *testing.T) {
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/returns/nope", nil), sess)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBorrowHandler_ListRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockBorrowService(ctrl)
	handler := handlers.NewBorrowHandler(service, helpers.TestLogger())
	sess := helpers.TestSession()

	t.Run("scopes listing to caller", func(t *testing.T) {
		service.EXPECT().
			ListRecords(gomock.Any(), sess, ports.BorrowQueryParams{
				UserID:     sess.UserID,
				ActiveOnly: true,
				Page:       1,
				PageSize:   50,
			}).
			Return([]*domain.BorrowRecord{helpers.CreateTestBorrowRecord()}, nil)

		req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/borrows?active=true", nil), sess)
		w := httptest.NewRecorder()

		handler.ListRecords(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
	})
}
