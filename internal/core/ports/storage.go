// internal/core/ports/storage.go
package ports

import (
	"context"
	"io"
)

// ImageStore persists item images in object storage and returns the
// public URL of the stored object.
type ImageStore interface {
	UploadItemImage(ctx context.Context, appID, itemID, filename string, data io.Reader) (string, error)
	DeleteItemImages(ctx context.Context, appID, itemID string) error
}

// TaskEnqueuer schedules background jobs without exposing the queue
// implementation to the core.
type TaskEnqueuer interface {
	EnqueueReconcile(ctx context.Context, appID string) error
	EnqueueLedgerExport(ctx context.Context, appID string) error
}
