// internal/core/services/types.go
package services

import (
	"time"

	"github.com/reusehub/reuse-be/internal/core/domain"
)

// FeedFilter selects which subset of a collection a feed subscription
// carries. Filters are evaluated server-side on every refresh, so a
// subscriber only ever sees rows that match.
type FeedFilter string

const (
	// FilterNone streams the whole collection.
	FilterNone FeedFilter = ""
	// FilterAvailable restricts inventory snapshots to items with at
	// least one unit on the shelf.
	FilterAvailable FeedFilter = "available"
	// FilterMine restricts borrowed_items snapshots to the subscriber's
	// own active records.
	FilterMine FeedFilter = "mine"
)

// Snapshot is one full refresh of a feed subscription. Exactly one of
// Items or Records is populated, depending on the collection.
type Snapshot struct {
	Collection string                 `json:"collection"`
	Items      []*domain.Item         `json:"items,omitempty"`
	Records    []*domain.BorrowRecord `json:"records,omitempty"`
	At         time.Time              `json:"at"`
}
