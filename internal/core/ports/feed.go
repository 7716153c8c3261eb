// internal/core/ports/feed.go
package ports

import "context"

// ChangeEvent announces that a tenant collection was mutated. Events
// carry no payload; subscribers re-query the full matching set.
type ChangeEvent struct {
	AppID      string `json:"app_id"`
	Collection string `json:"collection"`
}

// EventPublisher is the write side of the live feed. Implementations
// publish one event per committed write on the (tenant, collection)
// channel.
type EventPublisher interface {
	PublishChange(ctx context.Context, appID, collection string) error
}

// EventSubscriber is the read side of the live feed. The returned
// channel is closed when ctx is cancelled; unsubscribe errors after
// cancellation are swallowed.
type EventSubscriber interface {
	SubscribeChanges(ctx context.Context, appID, collection string) (<-chan ChangeEvent, error)
}
