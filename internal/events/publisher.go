// Package events publishes domain events for every reservation and billing
// state change. Consumers read them from a durable RabbitMQ queue.
package events

import (
	"context"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/logger"
)

// Publisher delivers a domain event. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that only logs, used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, event domain.Event) error {
	logger.Debug("Event dropped, no broker configured", "type", event.Type, "entity_id", event.EntityID)
	return nil
}

func (noopPublisher) Close() error { return nil }
