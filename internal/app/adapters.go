package app

import (
	"context"
	"encoding/json"
	"errors"

	identityDomain "github.com/felixgeelhaar/taskhive/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// taskDirectory adapts the task repository to the narrow task interfaces
// the other contexts depend on (time tracking's TaskTracker, comments'
// TaskChecker).
type taskDirectory struct {
	tasks taskingDomain.Repository
}

func (d *taskDirectory) Exists(ctx context.Context, taskID uuid.UUID) (bool, error) {
	if _, err := d.tasks.FindByID(ctx, taskID); err != nil {
		if errors.Is(err, sharedDomain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (d *taskDirectory) IncrementTimeTracked(ctx context.Context, taskID uuid.UUID, minutes int) error {
	return d.tasks.IncrementTimeTracked(ctx, taskID, minutes)
}

// adminDirectory adapts the user repository for the notification
// dispatcher, which only needs admin IDs.
type adminDirectory struct {
	users identityDomain.Repository
}

func (d *adminDirectory) FindAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	admins, err := d.users.FindAdmins(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(admins))
	for _, admin := range admins {
		ids = append(ids, admin.ID())
	}
	return ids, nil
}

// busPublisher bridges the outbox processor to the in-process event bus.
// PublishEnvelope hands consumers the full outbox envelope, so the
// dispatcher and recorder see the event identity and actor metadata
// that the raw payload bytes do not carry.
type busPublisher struct {
	bus *eventbus.InProcessEventBus
}

func (p *busPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	return p.bus.Publish(ctx, routingKey, payload)
}

func (p *busPublisher) PublishEnvelope(ctx context.Context, msg *outbox.Message) error {
	var meta sharedDomain.EventMetadata
	if len(msg.Metadata) > 0 {
		if err := json.Unmarshal(msg.Metadata, &meta); err != nil {
			return err
		}
	}

	event := &eventbus.ConsumedEvent{
		EventID:       msg.EventID,
		AggregateID:   msg.AggregateID,
		AggregateType: msg.AggregateType,
		RoutingKey:    msg.RoutingKey,
		OccurredAt:    msg.CreatedAt,
		Payload:       msg.Payload,
		Metadata: eventbus.EventMetadata{
			UserID:        meta.UserID,
			CorrelationID: meta.CorrelationID.String(),
			CausationID:   meta.CausationID.String(),
		},
	}

	return p.bus.Registry().Dispatch(ctx, event)
}

func (p *busPublisher) Close() error {
	return p.bus.Close()
}

// relayPublisher dispatches events in-process and additionally forwards
// them to the broker when one is configured.
type relayPublisher struct {
	local  *busPublisher
	broker eventbus.Publisher
}

func (p *relayPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	if err := p.local.Publish(ctx, routingKey, payload); err != nil {
		return err
	}
	return p.broker.Publish(ctx, routingKey, payload)
}

func (p *relayPublisher) PublishEnvelope(ctx context.Context, msg *outbox.Message) error {
	if err := p.local.PublishEnvelope(ctx, msg); err != nil {
		return err
	}
	return p.broker.Publish(ctx, msg.RoutingKey, msg.Payload)
}

func (p *relayPublisher) Close() error {
	err := p.local.Close()
	if brokerErr := p.broker.Close(); err == nil {
		err = brokerErr
	}
	return err
}
