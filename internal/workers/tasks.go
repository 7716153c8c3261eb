// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/reusehub/reuse-be/internal/core/ports"
)

// Task type names
const (
	TypeReconcile        = "reconcile:availability"
	TypeLedgerExport     = "export:ledger"
	TypePurgeAudits      = "cleanup:audits"
	TypeCleanupTempFiles = "cleanup:temp_files"
)

// tenantPayload is the payload shared by all tenant-scoped tasks.
type tenantPayload struct {
	AppID string `json:"app_id"`
}

// TaskClient enqueues background jobs onto the asynq queues.
type TaskClient struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewTaskClient creates a task client over the given Redis connection.
func NewTaskClient(opt asynq.RedisClientOpt, logger *slog.Logger) *TaskClient {
	return &TaskClient{
		client: asynq.NewClient(opt),
		logger: logger.With(slog.String("component", "task_client")),
	}
}

// Close releases the underlying Redis connection.
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// EnqueueReconcile queues an availability reconciliation run for the
// tenant.
func (c *TaskClient) EnqueueReconcile(ctx context.Context, appID string) error {
	return c.enqueue(ctx, TypeReconcile, appID,
		asynq.Queue("critical"),
		asynq.MaxRetry(3),
		asynq.Unique(10*time.Minute))
}

// EnqueueLedgerExport queues a ledger spreadsheet export for the tenant.
func (c *TaskClient) EnqueueLedgerExport(ctx context.Context, appID string) error {
	return c.enqueue(ctx, TypeLedgerExport, appID,
		asynq.Queue("default"),
		asynq.MaxRetry(5),
		asynq.Timeout(5*time.Minute))
}

func (c *TaskClient) enqueue(ctx context.Context, taskType, appID string, opts ...asynq.Option) error {
	payload, err := json.Marshal(tenantPayload{AppID: appID})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, payload), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}

	c.logger.InfoContext(ctx, "task enqueued",
		slog.String("type", taskType),
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue),
		slog.String("app_id", appID))

	return nil
}

func parseTenantPayload(t *asynq.Task) (tenantPayload, error) {
	var payload tenantPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.AppID == "" {
		return payload, fmt.Errorf("payload missing app_id")
	}
	return payload, nil
}

var _ ports.TaskEnqueuer = (*TaskClient)(nil)
