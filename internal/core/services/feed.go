// internal/core/services/feed.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// FeedService serves live, filtered views of the tenant collections.
// Each subscription gets an initial snapshot immediately, then a fresh
// snapshot after every committed change to its collection. Snapshots are
// full re-queries, so a subscriber that misses an intermediate event
// still converges on the current state.
type FeedService struct {
	items   ports.ItemRepository
	borrows ports.BorrowRepository
	events  ports.EventSubscriber
	logger  *slog.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(items ports.ItemRepository, borrows ports.BorrowRepository, events ports.EventSubscriber, logger *slog.Logger) *FeedService {
	return &FeedService{
		items:   items,
		borrows: borrows,
		events:  events,
		logger:  logger.With(slog.String("service", "feed")),
	}
}

// Subscription is one live view over a collection. Updates carries
// snapshots, latest wins: if the consumer is slow, intermediate snapshots
// are replaced rather than queued. Close is idempotent.
type Subscription struct {
	updates chan Snapshot
	errs    chan error
	cancel  context.CancelFunc
	once    sync.Once
}

// Updates returns the snapshot channel. It is closed when the
// subscription ends.
func (s *Subscription) Updates() <-chan Snapshot { return s.updates }

// Errs returns the channel carrying refresh failures. The subscription
// survives individual failures; consumers may surface or ignore them.
func (s *Subscription) Errs() <-chan error { return s.errs }

// Close tears down the subscription and releases its pub/sub resources.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// Subscribe opens a live view of the given collection for the session,
// restricted by filter. The subscription stays open until Close is called
// or ctx is cancelled.
func (s *FeedService) Subscribe(ctx context.Context, sess domain.Session, collection string, filter FeedFilter) (*Subscription, error) {
	if !sess.Resolved() {
		return nil, domain.ErrScopeNotReady
	}
	if collection != domain.CollectionInventory && collection != domain.CollectionBorrowed {
		return nil, fmt.Errorf("unknown collection %q: %w", collection, domain.ErrNotFound)
	}

	subCtx, cancel := context.WithCancel(ctx)

	events, err := s.events.SubscribeChanges(subCtx, sess.AppID, collection)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	sub := &Subscription{
		updates: make(chan Snapshot, 1),
		errs:    make(chan error, 1),
		cancel:  cancel,
	}

	go s.run(subCtx, sub, sess, collection, filter, events)

	s.logger.DebugContext(ctx, "feed subscription opened",
		slog.String("app_id", sess.AppID),
		slog.String("collection", collection),
		slog.String("filter", string(filter)))

	return sub, nil
}

func (s *FeedService) run(ctx context.Context, sub *Subscription, sess domain.Session, collection string, filter FeedFilter, events <-chan ports.ChangeEvent) {
	defer close(sub.updates)
	defer close(sub.errs)

	s.refresh(ctx, sub, sess, collection, filter)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			// Coalesce bursts: drain whatever queued up, one re-query
			// covers them all.
			for drained := true; drained; {
				select {
				case _, ok = <-events:
					if !ok {
						return
					}
				default:
					drained = false
				}
			}
			s.refresh(ctx, sub, sess, collection, filter)
		}
	}
}

func (s *FeedService) refresh(ctx context.Context, sub *Subscription, sess domain.Session, collection string, filter FeedFilter) {
	snapshot, err := s.query(ctx, sess, collection, filter)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.ErrorContext(ctx, "feed refresh failed",
			slog.String("app_id", sess.AppID),
			slog.String("collection", collection),
			slog.Any("error", err))
		select {
		case sub.errs <- err:
		default:
		}
		return
	}

	// Latest wins: replace an unconsumed snapshot instead of blocking.
	select {
	case <-sub.updates:
	default:
	}
	select {
	case sub.updates <- snapshot:
	case <-ctx.Done():
	}
}

func (s *FeedService) query(ctx context.Context, sess domain.Session, collection string, filter FeedFilter) (Snapshot, error) {
	snapshot := Snapshot{Collection: collection, At: time.Now().UTC()}

	switch collection {
	case domain.CollectionInventory:
		items, _, err := s.items.FindAll(ctx, sess.AppID, ports.ItemQueryParams{
			AvailableOnly: filter == FilterAvailable,
			Page:          1,
			PageSize:      1000,
		})
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to query inventory: %w", err)
		}
		snapshot.Items = items

	case domain.CollectionBorrowed:
		params := ports.BorrowQueryParams{Page: 1, PageSize: 1000}
		if filter == FilterMine {
			params.UserID = sess.UserID
			params.ActiveOnly = true
		}
		records, err := s.borrows.FindAll(ctx, sess.AppID, params)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to query borrow records: %w", err)
		}
		snapshot.Records = records
	}

	return snapshot, nil
}
