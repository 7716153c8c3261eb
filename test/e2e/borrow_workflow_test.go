//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/reusehub/reuse-be/internal/adapters/db"
	redis_a "github.com/reusehub/reuse-be/internal/adapters/redis_adapter"
	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/services"
	"github.com/reusehub/reuse-be/internal/handlers"
	"github.com/reusehub/reuse-be/internal/handlers/middleware"
	"github.com/reusehub/reuse-be/test/helpers"
)

type BorrowWorkflowE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis

	// sessionToken is minted on the first request and reused afterwards
	// so every call in a test runs as the same user.
	sessionToken string
}

func (s *BorrowWorkflowE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())

	s.server = s.startTestServer()
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api/v1"
}

func (s *BorrowWorkflowE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *BorrowWorkflowE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	s.sessionToken = ""
}

func (s *BorrowWorkflowE2ESuite) startTestServer() *httptest.Server {
	slogger := helpers.TestLogger()

	itemRepo := db.NewItemRepository(s.testDB.Database, slogger)
	borrowRepo := db.NewBorrowRepository(s.testDB.Database, slogger)

	cache := redis_a.NewCache(s.testRedis.Client, time.Hour, slogger)
	bus := redis_a.NewFeedBus(s.testRedis.Client, slogger)

	sessions := services.NewSessionService(cache, time.Hour, slogger)
	itemService := services.NewItemService(itemRepo, nil, bus, slogger)
	borrowService := services.NewBorrowService(borrowRepo, bus, slogger)

	itemHandler := handlers.NewItemHandler(itemService, slogger)
	borrowHandler := handlers.NewBorrowHandler(borrowService, slogger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/items", itemHandler.Create)
	mux.HandleFunc("GET /api/v1/items/{id}", itemHandler.Get)
	mux.HandleFunc("DELETE /api/v1/items/{id}", itemHandler.Delete)
	mux.HandleFunc("POST /api/v1/borrow", borrowHandler.Borrow)
	mux.HandleFunc("POST /api/v1/returns/{recordID}", borrowHandler.Return)
	mux.HandleFunc("GET /api/v1/borrows", borrowHandler.ListRecords)

	handler := middleware.Session(sessions, middleware.SessionConfig{
		TokenHeader: "X-Session-Token",
		AppIDHeader: "X-App-ID",
	}, slogger)(mux)

	return httptest.NewServer(handler)
}

func (s *BorrowWorkflowE2ESuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-ID", domain.DefaultAppID)
	if s.sessionToken != "" {
		req.Header.Set("X-Session-Token", s.sessionToken)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)

	if token := resp.Header.Get("X-Session-Token"); token != "" {
		s.sessionToken = token
	}

	return resp
}

func (s *BorrowWorkflowE2ESuite) decodeResponse(resp *http.Response, dest interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(dest))
}

func (s *BorrowWorkflowE2ESuite) createItem(name string, quantity int) string {
	resp := s.makeRequest("POST", "/items", map[string]interface{}{
		"name":           name,
		"total_quantity": quantity,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
	}
	s.decodeResponse(resp, &created)
	s.Require().NotEmpty(created.Item.ID)
	return created.Item.ID
}

func (s *BorrowWorkflowE2ESuite) TestBorrowUntilOutOfStock() {
	itemID := s.createItem("Camping Tent", 2)

	// Both units can be taken.
	for i := 0; i < 2; i++ {
		resp := s.makeRequest("POST", "/borrow", map[string]string{"item_id": itemID})
		s.Equal(http.StatusCreated, resp.StatusCode)

		var outcome struct {
			Notice struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			} `json:"notice"`
		}
		s.decodeResponse(resp, &outcome)
		s.Equal("success", outcome.Notice.Kind)
		s.Equal("You have successfully borrowed a Camping Tent!", outcome.Notice.Message)
	}

	// The third attempt hits an empty shelf.
	resp := s.makeRequest("POST", "/borrow", map[string]string{"item_id": itemID})
	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp struct {
		Error string `json:"error"`
	}
	s.decodeResponse(resp, &errResp)
	s.Equal("Item is out of stock", errResp.Error)

	// The item itself reports zero availability.
	resp = s.makeRequest("GET", fmt.Sprintf("/items/%s", itemID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var item struct {
		AvailableQuantity int `json:"available_quantity"`
		TotalQuantity     int `json:"total_quantity"`
	}
	s.decodeResponse(resp, &item)
	s.Equal(0, item.AvailableQuantity)
	s.Equal(2, item.TotalQuantity)
}

func (s *BorrowWorkflowE2ESuite) TestConcurrentBorrowSingleWinner() {
	itemID := s.createItem("Folding Ladder", 1)

	// Prime the session before racing so every goroutine reuses it.
	resp := s.makeRequest("GET", "/borrows", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	const attempts = 8
	statuses := make([]int, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			data, _ := json.Marshal(map[string]string{"item_id": itemID})
			req, err := http.NewRequest("POST", s.baseURL+"/borrow", bytes.NewReader(data))
			if err != nil {
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-App-ID", domain.DefaultAppID)
			req.Header.Set("X-Session-Token", s.sessionToken)

			resp, err := s.client.Do(req)
			if err != nil {
				return
			}
			defer resp.Body.Close()
			io.Copy(io.Discard, resp.Body)
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, code := range statuses {
		switch code {
		case http.StatusCreated:
			wins++
		case http.StatusConflict:
			conflicts++
		}
	}
	s.Equal(1, wins, "exactly one concurrent borrow should take the last unit")
	s.Equal(attempts-1, conflicts)
}

func (s *BorrowWorkflowE2ESuite) TestReturnRestoresAvailability() {
	itemID := s.createItem("Projector", 1)

	resp := s.makeRequest("POST", "/borrow", map[string]string{"item_id": itemID})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var outcome struct {
		Record struct {
			ID string `json:"id"`
		} `json:"record"`
	}
	s.decodeResponse(resp, &outcome)
	s.Require().NotEmpty(outcome.Record.ID)

	resp = s.makeRequest("POST", fmt.Sprintf("/returns/%s", outcome.Record.ID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var returned struct {
		Record struct {
			Status     string  `json:"status"`
			ReturnDate *string `json:"return_date"`
		} `json:"record"`
		Notice struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"notice"`
	}
	s.decodeResponse(resp, &returned)
	s.Equal("returned", returned.Record.Status)
	s.NotNil(returned.Record.ReturnDate)
	s.Equal("You have successfully returned the Projector!", returned.Notice.Message)

	// The unit is back on the shelf.
	resp = s.makeRequest("GET", fmt.Sprintf("/items/%s", itemID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var item struct {
		AvailableQuantity int `json:"available_quantity"`
	}
	s.decodeResponse(resp, &item)
	s.Equal(1, item.AvailableQuantity)

	// Returning the same record twice is rejected.
	resp = s.makeRequest("POST", fmt.Sprintf("/returns/%s", outcome.Record.ID), nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func (s *BorrowWorkflowE2ESuite) TestReturnAfterItemDeleted() {
	itemID := s.createItem("Electric Kettle", 3)

	resp := s.makeRequest("POST", "/borrow", map[string]string{"item_id": itemID})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var outcome struct {
		Record struct {
			ID string `json:"id"`
		} `json:"record"`
	}
	s.decodeResponse(resp, &outcome)

	// Remove the catalog row while the loan is open.
	resp = s.makeRequest("DELETE", fmt.Sprintf("/items/%s", itemID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The return still commits but warns that the item is gone.
	resp = s.makeRequest("POST", fmt.Sprintf("/returns/%s", outcome.Record.ID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var returned struct {
		Notice struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"notice"`
	}
	s.decodeResponse(resp, &returned)
	s.Equal("warning", returned.Notice.Kind)
	s.Equal("Could not find the original item in inventory. Please contact support.", returned.Notice.Message)
}

func (s *BorrowWorkflowE2ESuite) TestLedgerListsUserRecords() {
	itemID := s.createItem("Board Game: Settlers", 4)

	for i := 0; i < 2; i++ {
		resp := s.makeRequest("POST", "/borrow", map[string]string{"item_id": itemID})
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.makeRequest("GET", "/borrows?active=true", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var list struct {
		Records []struct {
			ItemName string `json:"item_name"`
			Status   string `json:"status"`
		} `json:"records"`
		Count int `json:"count"`
	}
	s.decodeResponse(resp, &list)
	s.Equal(2, list.Count)
	for _, record := range list.Records {
		s.Equal("Board Game: Settlers", record.ItemName)
		s.Equal("borrowed", record.Status)
	}
}

func (s *BorrowWorkflowE2ESuite) TestUnresolvedSessionIsDeferred() {
	// When the session store is down, resolution fails and requests run
	// with an unresolved scope. Handlers answer with a retryable 503
	// instead of failing hard.
	s.testRedis.Server.SetError("session store unavailable")
	defer s.testRedis.Server.SetError("")

	resp := s.makeRequest("GET", "/borrows", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)

	var errResp struct {
		Error string `json:"error"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Session not ready yet. Please retry.", errResp.Error)
}

func TestBorrowWorkflowE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(BorrowWorkflowE2ESuite))
}
