// Package commands contains the write-side handlers for comments.
package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// TaskChecker verifies a task exists before a comment is attached to it.
type TaskChecker interface {
	Exists(ctx context.Context, taskID uuid.UUID) (bool, error)
}

var errTaskMissing = sharedDomain.NotFoundf("task not found")

func ensureTaskExists(ctx context.Context, tasks TaskChecker, taskID uuid.UUID) error {
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
