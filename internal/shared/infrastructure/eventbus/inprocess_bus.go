package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/felixgeelhaar/taskhive/internal/shared/domain"
)

// InProcessEventBus delivers events synchronously to registered consumers.
// It backs the single-process deployment where mutations fan out to the
// notification dispatcher and activity recorder inline: dispatch failures
// are logged and swallowed so they can never fail the publishing operation.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
}

// NewInProcessEventBus creates a new in-process event bus.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer registers an event consumer.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish unmarshals the payload and dispatches it to all registered
// consumers. Always returns nil: projection is best-effort.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event := &ConsumedEvent{}
	if err := json.Unmarshal(payload, event); err != nil {
		b.logger.Error("failed to unmarshal event payload",
			"routing_key", routingKey,
			"error", err,
		)
		return nil
	}

	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}

	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Error("event dispatch failed",
			"routing_key", routingKey,
			"event_id", event.EventID,
			"error", err,
		)
	}

	return nil
}

// PublishDomainEvent serializes a domain event and dispatches it.
func (b *InProcessEventBus) PublishDomainEvent(ctx context.Context, event domain.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	consumed := &ConsumedEvent{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
		Metadata: EventMetadata{
			UserID:        event.Metadata().UserID,
			CorrelationID: event.Metadata().CorrelationID.String(),
			CausationID:   event.Metadata().CausationID.String(),
		},
	}

	if err := b.registry.Dispatch(ctx, consumed); err != nil {
		b.logger.Error("event dispatch failed",
			"routing_key", consumed.RoutingKey,
			"event_id", consumed.EventID,
			"error", err,
		)
	}
	return nil
}

// Registry returns the underlying consumer registry.
func (b *InProcessEventBus) Registry() *ConsumerRegistry {
	return b.registry
}

// Close is a no-op for the in-process bus.
func (b *InProcessEventBus) Close() error {
	return nil
}
