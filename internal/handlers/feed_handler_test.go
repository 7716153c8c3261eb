// internal/handlers/feed_handler_test.go
package handlers_test

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
	"github.com/reusehub/reuse-be/internal/core/services"
	"github.com/reusehub/reuse-be/internal/handlers"
	"github.com/reusehub/reuse-be/internal/handlers/middleware"
	"github.com/reusehub/reuse-be/test/helpers"
	"github.com/reusehub/reuse-be/test/mocks"
)

func newFeedTestServer(t *testing.T, sess domain.Session) (*httptest.Server, *mocks.MockItemRepository, *mocks.MockBorrowRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	items := mocks.NewMockItemRepository(ctrl)
	borrows := mocks.NewMockBorrowRepository(ctrl)
	subscriber := mocks.NewMockEventSubscriber(ctrl)

	events := make(chan ports.ChangeEvent)
	subscriber.EXPECT().
		SubscribeChanges(gomock.Any(), gomock.Any(), gomock.Any()).
		Return((<-chan ports.ChangeEvent)(events), nil).
		AnyTimes()

	feed := services.NewFeedService(items, borrows, subscriber, helpers.TestLogger())
	handler := handlers.NewFeedHandler(feed, helpers.TestLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/feed/{collection}", func(w http.ResponseWriter, r *http.Request) {
		handler.Stream(w, r.WithContext(middleware.WithSession(r.Context(), sess)))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, items, borrows
}

// readSSEEvent reads one complete event from the stream, skipping
// heartbeat comments.
func readSSEEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()

	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && data != "":
			return event, data
		}
	}
}

func TestFeedHandler_StreamsInitialSnapshot(t *testing.T) {
	sess := helpers.TestSession()
	server, items, _ := newFeedTestServer(t, sess)

	stock := []*domain.Item{helpers.CreateTestItem()}
	items.EXPECT().
		FindAll(gomock.Any(), sess.AppID, gomock.Any()).
		Return(stock, int64(1), nil).
		AnyTimes()

	resp, err := http.Get(server.URL + "/api/v1/feed/inventory")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	event, data := readSSEEvent(t, bufio.NewReader(resp.Body))
	assert.Equal(t, "snapshot", event)

	var snap services.Snapshot
	require.NoError(t, json.Unmarshal([]byte(data), &snap))
	assert.Equal(t, domain.CollectionInventory, snap.Collection)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, stock[0].ID, snap.Items[0].ID)
}

func TestFeedHandler_StreamsBorrowedRecords(t *testing.T) {
	sess := helpers.TestSession()
	server, _, borrows := newFeedTestServer(t, sess)

	rec := helpers.CreateTestBorrowRecord()
	borrows.EXPECT().
		FindAll(gomock.Any(), sess.AppID, gomock.Any()).
		Return([]*domain.BorrowRecord{rec}, nil).
		AnyTimes()

	resp, err := http.Get(server.URL + "/api/v1/feed/borrowed_items?filter=mine")
	require.NoError(t, err)
	defer resp.Body.Close()

	event, data := readSSEEvent(t, bufio.NewReader(resp.Body))
	assert.Equal(t, "snapshot", event)

	var snap services.Snapshot
	require.NoError(t, json.Unmarshal([]byte(data), &snap))
	assert.Equal(t, domain.CollectionBorrowed, snap.Collection)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, rec.ID, snap.Records[0].ID)
}

func TestFeedHandler_RejectsUnknownCollection(t *testing.T) {
	sess := helpers.TestSession()
	server, _, _ := newFeedTestServer(t, sess)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(server.URL + "/api/v1/feed/wishlists")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedHandler_RejectsUnresolvedSession(t *testing.T) {
	server, _, _ := newFeedTestServer(t, domain.Session{})

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(server.URL + "/api/v1/feed/inventory")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
