package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// MarkViewedCommand records that a user viewed a task. Pure
// bookkeeping; no event is emitted.
type MarkViewedCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// MarkViewedHandler handles the MarkViewedCommand.
type MarkViewedHandler struct {
	taskRepo domain.Repository
	uow      sharedApplication.UnitOfWork
}

// NewMarkViewedHandler creates a new MarkViewedHandler.
func NewMarkViewedHandler(taskRepo domain.Repository, uow sharedApplication.UnitOfWork) *MarkViewedHandler {
	return &MarkViewedHandler{
		taskRepo: taskRepo,
		uow:      uow,
	}
}

// Handle executes the MarkViewedCommand.
func (h *MarkViewedHandler) Handle(ctx context.Context, cmd MarkViewedCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		task.MarkViewed(cmd.UserID, time.Now().UTC())

		return h.taskRepo.Save(txCtx, task)
	})
}
