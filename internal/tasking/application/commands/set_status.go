package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// SetStatusCommand forces a task into the given status.
type SetStatusCommand struct {
	TaskID  uuid.UUID
	ActorID uuid.UUID
	Status  string
}

// SetStatusResult contains the result of a status transition.
type SetStatusResult struct {
	TaskID   uuid.UUID
	Status   domain.Status
	Progress int
}

// SetStatusHandler handles the SetStatusCommand.
type SetStatusHandler struct {
	taskRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewSetStatusHandler creates a new SetStatusHandler.
func NewSetStatusHandler(taskRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SetStatusHandler {
	return &SetStatusHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the SetStatusCommand.
func (h *SetStatusHandler) Handle(ctx context.Context, cmd SetStatusCommand) (*SetStatusResult, error) {
	var result *SetStatusResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if err := task.SetStatus(domain.Status(cmd.Status)); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, task.DomainEvents(), cmd.ActorID); err != nil {
			return err
		}

		result = &SetStatusResult{
			TaskID:   task.ID(),
			Status:   task.Status(),
			Progress: task.Progress(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
