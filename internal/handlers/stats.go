// internal/handlers/stats.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/reusehub/reuse-be/internal/adapters/redis_adapter"
	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// statsCacheTTL bounds how stale the tenant stats may be.
const statsCacheTTL = 30 * time.Second

// TenantStats summarizes a tenant's inventory and ledger.
type TenantStats struct {
	ItemCount      int64     `json:"item_count"`
	TotalUnits     int       `json:"total_units"`
	AvailableUnits int       `json:"available_units"`
	ActiveBorrows  int       `json:"active_borrows"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// StatsHandler serves aggregate counters for the caller's tenant.
type StatsHandler struct {
	items   ports.ItemRepository
	borrows ports.BorrowRepository
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(items ports.ItemRepository, borrows ports.BorrowRepository, cache ports.CacheRepository, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		items:   items,
		borrows: borrows,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "stats")),
	}
}

// Stats handles GET /api/v1/stats
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := sessionFrom(r)
	if !sess.Resolved() {
		respondDomainError(w, domain.ErrScopeNotReady)
		return
	}

	cacheKey := redis_a.BuildKey(redis_a.PrefixStats, sess.AppID)

	var stats TenantStats
	err := h.cache.GetOrSet(ctx, cacheKey, &stats, func() (interface{}, error) {
		return h.computeStats(r, sess)
	}, statsCacheTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute tenant stats",
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) computeStats(r *http.Request, sess domain.Session) (*TenantStats, error) {
	ctx := r.Context()

	count, err := h.items.Count(ctx, sess.AppID)
	if err != nil {
		return nil, err
	}

	items, _, err := h.items.FindAll(ctx, sess.AppID, ports.ItemQueryParams{Page: 1, PageSize: 1000})
	if err != nil {
		return nil, err
	}

	stats := &TenantStats{
		ItemCount:   count,
		GeneratedAt: time.Now(),
	}
	for _, item := range items {
		stats.TotalUnits += item.TotalQuantity
		stats.AvailableUnits += item.AvailableQuantity
	}

	active, err := h.borrows.FindAll(ctx, sess.AppID, ports.BorrowQueryParams{ActiveOnly: true, Page: 1, PageSize: 1000})
	if err != nil {
		return nil, err
	}
	stats.ActiveBorrows = len(active)

	return stats, nil
}
