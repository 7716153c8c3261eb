// internal/handlers/feed.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/reusehub/reuse-be/internal/core/services"
)

// feedHeartbeatInterval is how often an SSE comment line is written to
// keep intermediaries from closing an idle stream.
const feedHeartbeatInterval = 25 * time.Second

// FeedHandler streams live collection snapshots over Server-Sent Events.
type FeedHandler struct {
	feed   *services.FeedService
	logger *slog.Logger
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feed *services.FeedService, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{
		feed:   feed,
		logger: logger.With(slog.String("handler", "feed")),
	}
}

// Stream handles GET /api/v1/feed/{collection}
//
// The client receives one `snapshot` event immediately and a fresh one
// after every committed write to the collection. The optional `filter`
// query parameter narrows the set: `available` for in-stock items,
// `mine` for the caller's active borrow records.
func (h *FeedHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	collection := r.PathValue("collection")
	filter := services.FeedFilter(r.URL.Query().Get("filter"))

	sub, err := h.feed.Subscribe(ctx, sessionFrom(r), collection, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "feed subscription rejected",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(feedHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case snap, open := <-sub.Updates():
			if !open {
				return
			}
			if err := writeSSE(w, "snapshot", snap); err != nil {
				return
			}
			flusher.Flush()

		case err, open := <-sub.Errs():
			if !open {
				return
			}
			h.logger.ErrorContext(ctx, "feed refresh failed",
				slog.String("collection", collection),
				slog.String("error", err.Error()))
			writeSSE(w, "error", map[string]string{"error": "refresh failed"})
			flusher.Flush()

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
