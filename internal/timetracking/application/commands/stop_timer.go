package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/google/uuid"
)

// StopTimerCommand stops a running timer and rolls its duration into
// the task's tracked-time total.
type StopTimerCommand struct {
	EntryID   uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
}

// StopTimerResult contains the result of stopping a timer.
type StopTimerResult struct {
	EntryID         uuid.UUID
	DurationMinutes int
}

// StopTimerHandler handles the StopTimerCommand.
type StopTimerHandler struct {
	entryRepo  domain.Repository
	tasks      TaskTracker
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewStopTimerHandler creates a new StopTimerHandler.
func NewStopTimerHandler(entryRepo domain.Repository, tasks TaskTracker, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *StopTimerHandler {
	return &StopTimerHandler{
		entryRepo:  entryRepo,
		tasks:      tasks,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the StopTimerCommand. The stop and the task total
// increment commit together or not at all.
func (h *StopTimerHandler) Handle(ctx context.Context, cmd StopTimerCommand) (*StopTimerResult, error) {
	var result *StopTimerResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		entry, err := h.entryRepo.FindByID(txCtx, cmd.EntryID)
		if err != nil {
			return err
		}

		if !entry.IsOwnedBy(cmd.ActorID) && !sharedApplication.IsAdmin(cmd.ActorRole) {
			return sharedDomain.Forbiddenf("not allowed to stop this timer")
		}

		minutes, err := entry.Stop(time.Now().UTC())
		if err != nil {
			return err
		}

		if err := h.entryRepo.Save(txCtx, entry); err != nil {
			return err
		}

		if minutes > 0 {
			if err := h.tasks.IncrementTimeTracked(txCtx, entry.TaskID(), minutes); err != nil {
				return err
			}
		}

		if err := stageEvents(txCtx, h.outboxRepo, entry.DomainEvents(), cmd.ActorID); err != nil {
			return err
		}

		result = &StopTimerResult{EntryID: entry.ID(), DurationMinutes: minutes}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
