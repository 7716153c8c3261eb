// internal/core/services/tips_test.go
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/test/helpers"
)

func tipResponse(text string) []byte {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			},
		}},
	})
	return body
}

// newTipServiceForTest wires the service at a fake upstream and records
// the backoff delays instead of sleeping.
func newTipServiceForTest(t *testing.T, handler http.HandlerFunc) (*TipService, *[]time.Duration) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewTipService(TipServiceConfig{
		Endpoint: server.URL,
		Model:    "test-model",
		APIKey:   "test-key",
		Timeout:  2 * time.Second,
	}, helpers.TestLogger())

	var delays []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	return svc, &delays
}

func TestTipService_GenerateTip_Success(t *testing.T) {
	var prompts []string
	svc, delays := newTipServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompts = append(prompts, req.Contents[0].Parts[0].Text)
		w.Write(tipResponse("Borrow, don't buy: one shared ladder serves a whole dorm."))
	})

	tip, err := svc.GenerateTip(context.Background(), "Ladder")
	require.NoError(t, err)

	assert.Equal(t, "Borrow, don't buy: one shared ladder serves a whole dorm.", tip)
	assert.Empty(t, *delays, "no backoff on first-attempt success")

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], `"Ladder"`)
	assert.Contains(t, prompts[0], "university reuse hub")
}

func TestTipService_GenerateTip_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	svc, delays := newTipServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(tipResponse("Reuse keeps items in circulation."))
	})

	tip, err := svc.GenerateTip(context.Background(), "Desk Lamp")
	require.NoError(t, err)

	assert.Equal(t, "Reuse keeps items in circulation.", tip)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *delays, "delay doubles per retry")
}

func TestTipService_GenerateTip_ExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	svc, delays := newTipServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.GenerateTip(context.Background(), "Desk Lamp")

	assert.ErrorIs(t, err, domain.ErrTipRetriesExhausted)
	assert.Equal(t, int32(3), calls.Load(), "exactly three attempts")
	assert.Len(t, *delays, 2, "no sleep after the final attempt")
}

func TestTipService_GenerateTip_ServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	svc, delays := newTipServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.GenerateTip(context.Background(), "Desk Lamp")

	assert.ErrorIs(t, err, domain.ErrTipUnavailable)
	assert.Equal(t, int32(1), calls.Load(), "only rate limiting is retried")
	assert.Empty(t, *delays)
}

func TestTipService_GenerateTip_EmptyResponseNotRetried(t *testing.T) {
	svc, _ := newTipServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := svc.GenerateTip(context.Background(), "Desk Lamp")
	assert.ErrorIs(t, err, domain.ErrTipUnavailable)
}

func TestTipService_GenerateTip_BlankItemName(t *testing.T) {
	svc, _ := newTipServiceForTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected for a blank item name")
	})

	_, err := svc.GenerateTip(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrTipUnavailable)
}
