// internal/handlers/health.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/reusehub/reuse-be/internal/adapters/db"
	"github.com/reusehub/reuse-be/internal/pkg/config"
)

const healthProbeTimeout = 5 * time.Second

// HealthHandler reports liveness and readiness of the API and its
// backing services.
type HealthHandler struct {
	db        *db.Database
	redis     *redis.Client
	asynq     *asynq.Inspector
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(
	database *db.Database,
	redisClient *redis.Client,
	asynqInspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:        database,
		redis:     redisClient,
		asynq:     asynqInspector,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// CheckResult is the outcome of probing one dependency.
type CheckResult struct {
	Status  string                 `json:"status"`
	Latency string                 `json:"latency,omitempty"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the aggregate health report.
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Checks      map[string]CheckResult `json:"checks"`
	Runtime     runtimeStats           `json:"runtime"`
}

type runtimeStats struct {
	GoVersion     string `json:"go_version"`
	Goroutines    int    `json:"goroutines"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

// Health handles the /health endpoint. Any failing probe degrades the
// overall status to 503 so load balancers rotate the instance out.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	probes := map[string]func(context.Context) CheckResult{
		"database": h.checkDatabase,
		"redis":    h.checkRedis,
	}
	if h.asynq != nil {
		probes["queues"] = h.checkQueues
	}

	report := HealthStatus{
		Status:      "healthy",
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Checks:      make(map[string]CheckResult, len(probes)),
		Runtime:     collectRuntimeStats(),
	}

	for name, probe := range probes {
		result := probe(ctx)
		report.Checks[name] = result
		if result.Status != "healthy" {
			report.Status = "degraded"
		}
	}

	status := http.StatusOK
	if report.Status == "degraded" {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(w, status, report)
}

// Readiness handles the /ready endpoint. It only verifies the stores the
// API cannot serve without.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	details := make(map[string]string, 2)
	ready := true

	if err := h.db.Ping(ctx); err != nil {
		ready = false
		details["database"] = "not ready"
	} else {
		details["database"] = "ready"
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		ready = false
		details["redis"] = "not ready"
	} else {
		details["redis"] = "ready"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(w, status, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckResult {
	start := time.Now()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database health check failed",
			slog.String("error", err.Error()))
		return CheckResult{Status: "unhealthy", Message: err.Error()}
	}

	details := make(map[string]interface{})
	for k, v := range h.db.Health(ctx) {
		details[k] = v
	}

	return CheckResult{
		Status:  "healthy",
		Latency: time.Since(start).String(),
		Details: details,
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) CheckResult {
	start := time.Now()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.ErrorContext(ctx, "redis health check failed",
			slog.String("error", err.Error()))
		return CheckResult{Status: "unhealthy", Message: err.Error()}
	}

	poolStats := h.redis.PoolStats()
	return CheckResult{
		Status:  "healthy",
		Latency: time.Since(start).String(),
		Details: map[string]interface{}{
			"total_conns": poolStats.TotalConns,
			"idle_conns":  poolStats.IdleConns,
		},
	}
}

// checkQueues reports backlog depth for the worker queues so a stuck
// reconciliation run shows up in /health before it shows up in the data.
func (h *HealthHandler) checkQueues(ctx context.Context) CheckResult {
	start := time.Now()

	queues, err := h.asynq.Queues()
	if err != nil {
		h.logger.ErrorContext(ctx, "queue health check failed",
			slog.String("error", err.Error()))
		return CheckResult{Status: "unhealthy", Message: err.Error()}
	}

	depths := make(map[string]interface{}, len(queues))
	for _, queue := range queues {
		info, err := h.asynq.GetQueueInfo(queue)
		if err != nil {
			continue
		}
		depths[queue] = map[string]interface{}{
			"pending": info.Pending,
			"active":  info.Active,
			"retry":   info.Retry,
		}
	}

	return CheckResult{
		Status:  "healthy",
		Latency: time.Since(start).String(),
		Details: map[string]interface{}{"queues": depths},
	}
}

func collectRuntimeStats() runtimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return runtimeStats{
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		MemoryAllocMB: mem.Alloc / 1024 / 1024,
		NumGC:         mem.NumGC,
	}
}
