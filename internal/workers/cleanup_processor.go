// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/reusehub/reuse-be/internal/adapters/db"
	"github.com/reusehub/reuse-be/internal/pkg/config"
)

// tempFileMaxAge is how long scratch files from uploads and exports may
// linger before the periodic cleanup removes them.
const tempFileMaxAge = 24 * time.Hour

// CleanupProcessor handles periodic housekeeping tasks.
type CleanupProcessor struct {
	db     *db.Database
	config *config.Config
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor.
func NewCleanupProcessor(database *db.Database, cfg *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		db:     database,
		config: cfg,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// PurgeAudits removes availability audit rows older than the configured
// retention window.
func (p *CleanupProcessor) PurgeAudits(ctx context.Context, t *asynq.Task) error {
	retention := p.config.Asynq.AuditRetention

	p.logger.InfoContext(ctx, "purging old availability audits",
		slog.Duration("retention", retention))

	result, err := p.db.Exec(ctx,
		`DELETE FROM availability_audits WHERE detected_at < now() - make_interval(secs => $1)`,
		retention.Seconds())
	if err != nil {
		return fmt.Errorf("failed to purge availability audits: %w", err)
	}

	p.logger.InfoContext(ctx, "old audits purged",
		slog.Int64("rows_deleted", result.RowsAffected()))

	return nil
}

// CleanupTempFiles removes stale scratch files.
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, t *asynq.Task) error {
	tempDir := filepath.Join(os.TempDir(), "reusehub")

	p.logger.InfoContext(ctx, "cleaning up temp files",
		slog.String("dir", tempDir))

	var deletedCount int
	err := filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > tempFileMaxAge {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete temp file",
					slog.String("file", path),
					slog.String("error", err.Error()))
			} else {
				deletedCount++
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk temp directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
