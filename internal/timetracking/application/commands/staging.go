package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// TaskTracker exposes the task-side operations time tracking needs,
// without importing the tasking context directly.
type TaskTracker interface {
	// Exists reports whether the task is present in the store.
	Exists(ctx context.Context, taskID uuid.UUID) (bool, error)

	// IncrementTimeTracked atomically adds minutes to the task's total.
	IncrementTimeTracked(ctx context.Context, taskID uuid.UUID, minutes int) error
}

var errTaskMissing = sharedDomain.NotFoundf("task not found")

func ensureTaskExists(ctx context.Context, tasks TaskTracker, taskID uuid.UUID) error {
	exists, err := tasks.Exists(ctx, taskID)
	if err != nil {
		return err
	}
	if !exists {
		return errTaskMissing
	}
	return nil
}

func stageEvents(ctx context.Context, outboxRepo outbox.Repository, events []sharedDomain.DomainEvent, actorID uuid.UUID) error {
	if len(events) == 0 {
		return nil
	}

	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(actorID))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return outboxRepo.SaveBatch(ctx, msgs)
}
