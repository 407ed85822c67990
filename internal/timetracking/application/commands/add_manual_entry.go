package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/google/uuid"
)

// AddManualEntryCommand records a completed work span after the fact.
// The duration counts toward the task's tracked-time total immediately.
type AddManualEntryCommand struct {
	TaskID          uuid.UUID
	UserID          uuid.UUID
	DurationMinutes int
	Description     string
	Category        string
	StartTime       time.Time
}

// AddManualEntryResult contains the result of adding a manual entry.
type AddManualEntryResult struct {
	EntryID uuid.UUID
}

// AddManualEntryHandler handles the AddManualEntryCommand.
type AddManualEntryHandler struct {
	entryRepo  domain.Repository
	tasks      TaskTracker
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewAddManualEntryHandler creates a new AddManualEntryHandler.
func NewAddManualEntryHandler(entryRepo domain.Repository, tasks TaskTracker, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *AddManualEntryHandler {
	return &AddManualEntryHandler{
		entryRepo:  entryRepo,
		tasks:      tasks,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the AddManualEntryCommand.
func (h *AddManualEntryHandler) Handle(ctx context.Context, cmd AddManualEntryCommand) (*AddManualEntryResult, error) {
	var result *AddManualEntryResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := ensureTaskExists(txCtx, h.tasks, cmd.TaskID); err != nil {
			return err
		}

		entry, err := domain.NewManualEntry(cmd.TaskID, cmd.UserID, cmd.DurationMinutes, cmd.Description, domain.Category(cmd.Category), cmd.StartTime)
		if err != nil {
			return err
		}

		if err := h.entryRepo.Save(txCtx, entry); err != nil {
			return err
		}

		if err := h.tasks.IncrementTimeTracked(txCtx, cmd.TaskID, cmd.DurationMinutes); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, entry.DomainEvents(), cmd.UserID); err != nil {
			return err
		}

		result = &AddManualEntryResult{EntryID: entry.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
