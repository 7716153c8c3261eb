// internal/handlers/items_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
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
	"github.com/reusehub/reuse-be/internal/handlers/middleware"
	"github.com/reusehub/reuse-be/test/helpers"
	"github.com/reusehub/reuse-be/test/mocks"
)

func withSession(r *http.Request, sess domain.Session) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

func TestItemHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockItemService(ctrl)
	handler := handlers.NewItemHandler(service, helpers.TestLogger())
	sess := helpers.TestSession()

	t.Run("creates item", func(t *testing.T) {
		service.EXPECT().
			Create(gomock.Any(), sess, gomock.Any()).
			DoAndReturn(func(_ interface{}, _ domain.Session, item *domain.Item) error {
				item.ID = uuid.New()
				item.AppID = sess.AppID
				item.AvailableQuantity = item.TotalQuantity
				return nil
			})

		body, _ := json.Marshal(handlers.CreateItemRequest{Name: "Desk Lamp", TotalQuantity: 3})
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewReader(body)), sess)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Item   domain.Item   `json:"item"`
			Notice domain.Notice `json:"notice"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Desk Lamp", resp.Item.Name)
		assert.Equal(t, domain.NoticeSuccess, resp.Notice.Kind)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewReader([]byte("{not json"))), sess)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		body, _ := json.Marshal(handlers.CreateItemRequest{Name: "  ", TotalQuantity: 1})
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewReader(body)), sess)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "name is required")
	})

	t.Run("maps unresolved session to 503", func(t *testing.T) {
		service.EXPECT().
			Create(gomock.Any(), domain.Session{}, gomock.Any()).
			Return(domain.ErrScopeNotReady)

		body, _ := json.Marshal(handlers.CreateItemRequest{Name: "Kettle", TotalQuantity: 1})
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewReader(body)), domain.Session{})
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestItemHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockItemService(ctrl)
	handler := handlers.NewItemHandler(service, helpers.TestLogger())
	sess := helpers.TestSession()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/items/{id}", handler.Get)

	t.Run("returns item", func(t *testing.T) {
		item := helpers.CreateTestItem()
		service.EXPECT().
			GetByID(gomock.Any(), sess, item.ID).
			Return(item, nil)

		req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/items/"+item.ID.String(), nil), sess)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, item.ID, got.ID)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/items/not-a-uuid", nil), sess)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps missing item to 404", func(t *testing.T) {
		id := uuid.New()
		service.EXPECT().
			GetByID(gomock.Any(), sess, id).
			Return(nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound))

		req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/items/"+id.String(), nil), sess)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestItemHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockItemService(ctrl)
	handler := handlers.NewItemHandler(service, helpers.TestLogger())
	sess := helpers.TestSession()

	t.Run("parses query parameters", func(t *testing.T) {
		service.EXPECT().
			List(gomock.Any(), sess, ports.ListParams{
				Search:        "lamp",
				AvailableOnly: true,
				SortBy:        "name",
				SortOrder:     "asc",
				Page:          2,
				PageSize:      25,
			}).
			Return(&ports.ListResult{Page: 2, PageSize: 25}, nil)

		req := withSession(httptest.NewRequest(http.MethodGet,
			"/api/v1/items?page=2&limit=25&search=lamp&sort=name&order=asc&available=true", nil), sess)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("caps page size at 100", func(t *testing.T) {
		service.EXPECT().
			List(gomock.Any(), sess, gomock.Any()).
			DoAndReturn(func(_ interface{}, _ domain.Session, params ports.ListParams) (*ports.ListResult, error) {
				assert.Equal(t, 100, params.PageSize)
				return &ports.ListResult{}, nil
			})

		req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/items?limit=5000", nil), sess)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestItemHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockItemService(ctrl)
	handler := handlers.NewItemHandler(service, helpers.TestLogger())
	sess := helpers.TestSession()

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/items/{id}", handler.Delete)

	t.Run("deletes and confirms", func(t *testing.T) {
		id := uuid.New()
		service.EXPECT().Delete(gomock.Any(), sess, id).Return(nil)

		req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/items/"+id.String(), nil), sess)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Item deleted successfully!")
	})

	t.Run("maps missing item to 404", func(t *testing.T) {
		id := uuid.New()
		service.EXPECT().Delete(gomock.Any(), sess, id).Return(domain.ErrNotFound)

		req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/items/"+id.String(), nil), sess)
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestItemHandler_AttachImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := mocks.NewMockItemService(ctrl)
	handler := handlers.NewItemHandler(service, helpers.TestLogger())
	sess := helpers.TestSession()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/items/{id}/image", handler.AttachImage)

	t.Run("uploads image", func(t *testing.T) {
		item := helpers.CreateTestItem()
		service.EXPECT().
			AttachImage(gomock.Any(), sess, item.ID, "lamp.png", gomock.Any()).
			Return(item, nil)

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("image", "lamp.png")
		require.NoError(t, err)
		part.Write([]byte("fake-png-bytes"))
		require.NoError(t, mw.Close())

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/items/"+item.ID.String()+"/image", &body), sess)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects missing file field", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		mw.WriteField("name", "lamp")
		require.NoError(t, mw.Close())

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/items/"+uuid.NewString()+"/image", &body), sess)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
