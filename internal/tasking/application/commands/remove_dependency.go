package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// RemoveDependencyCommand unlinks a dependency. Removing an absent
// dependency succeeds silently.
type RemoveDependencyCommand struct {
	TaskID      uuid.UUID
	DependsOnID uuid.UUID
	ActorID     uuid.UUID
}

// RemoveDependencyHandler handles the RemoveDependencyCommand.
type RemoveDependencyHandler struct {
	taskRepo domain.Repository
	uow      sharedApplication.UnitOfWork
}

// NewRemoveDependencyHandler creates a new RemoveDependencyHandler.
func NewRemoveDependencyHandler(taskRepo domain.Repository, uow sharedApplication.UnitOfWork) *RemoveDependencyHandler {
	return &RemoveDependencyHandler{
		taskRepo: taskRepo,
		uow:      uow,
	}
}

// Handle executes the RemoveDependencyCommand.
func (h *RemoveDependencyHandler) Handle(ctx context.Context, cmd RemoveDependencyCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		task.RemoveDependency(cmd.DependsOnID)

		return h.taskRepo.Save(txCtx, task)
	})
}
