// internal/adapters/redis_adapter/feed_bus.go
package redis_a

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/reusehub/reuse-be/internal/core/ports"
)

// FeedBus carries collection change events over Redis pub/sub. Every
// committed write publishes one event on the (tenant, collection)
// channel; subscribers re-query the full matching set on receipt, so
// events need no payload beyond the scope they describe.
type FeedBus struct {
	client *redis.Client
	logger *slog.Logger
}

var (
	_ ports.EventPublisher  = (*FeedBus)(nil)
	_ ports.EventSubscriber = (*FeedBus)(nil)
)

// NewFeedBus creates a feed bus over the given Redis client
func NewFeedBus(client *redis.Client, logger *slog.Logger) *FeedBus {
	return &FeedBus{
		client: client,
		logger: logger.With(slog.String("component", "feed_bus")),
	}
}

// FeedChannel returns the pub/sub channel name for a tenant collection
func FeedChannel(appID, collection string) string {
	return fmt.Sprintf("feed:%s:%s", appID, collection)
}

// PublishChange announces that a collection was mutated
func (b *FeedBus) PublishChange(ctx context.Context, appID, collection string) error {
	event := ports.ChangeEvent{AppID: appID, Collection: collection}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	channel := FeedChannel(appID, collection)
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		b.logger.ErrorContext(ctx, "failed to publish change event",
			slog.String("channel", channel),
			slog.Any("error", err))
		return fmt.Errorf("redis publish error: %w", err)
	}

	b.logger.DebugContext(ctx, "change event published",
		slog.String("channel", channel))

	return nil
}

// SubscribeChanges subscribes to change events for a tenant collection.
// The returned channel is closed when ctx is cancelled.
func (b *FeedBus) SubscribeChanges(ctx context.Context, appID, collection string) (<-chan ports.ChangeEvent, error) {
	channel := FeedChannel(appID, collection)
	sub := b.client.Subscribe(ctx, channel)

	// Block until the subscription is confirmed so callers never miss
	// events published right after Subscribe returns.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe error: %w", err)
	}

	events := make(chan ports.ChangeEvent, 16)

	go func() {
		defer close(events)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event ports.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.WarnContext(ctx, "dropping malformed change event",
						slog.String("channel", channel),
						slog.Any("error", err))
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	b.logger.DebugContext(ctx, "subscribed to change events",
		slog.String("channel", channel))

	return events, nil
}
