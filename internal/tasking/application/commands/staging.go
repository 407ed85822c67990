package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// ChecklistItem is the command-side shape of a checklist entry.
type ChecklistItem struct {
	Text      string
	Completed bool
}

func toDomainChecklist(items []ChecklistItem) []domain.ChecklistItem {
	if items == nil {
		return nil
	}
	checklist := make([]domain.ChecklistItem, len(items))
	for i, item := range items {
		checklist[i] = domain.ChecklistItem{Text: item.Text, Completed: item.Completed}
	}
	return checklist
}

// stageEvents stamps the actor onto the aggregate's uncommitted events
// and writes them to the outbox within the current transaction.
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
