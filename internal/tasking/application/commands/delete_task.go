package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// CommentPurger removes all comments attached to a task. Satisfied by
// the comments repository; declared here so the tasking context does
// not depend on the comments package.
type CommentPurger interface {
	DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error)
}

// DeleteTaskCommand removes a task permanently. Admin only.
type DeleteTaskCommand struct {
	TaskID    uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo   domain.Repository
	comments   CommentPurger
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo domain.Repository, comments CommentPurger, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteTaskHandler {
	return &DeleteTaskHandler{
		taskRepo:   taskRepo,
		comments:   comments,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the DeleteTaskCommand. Deleting cascades to the
// task's comments; time entries, notifications and activity records
// are kept.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	if cmd.ActorRole != sharedApplication.RoleAdmin {
		return sharedDomain.Forbiddenf("only admins may delete tasks")
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		task.MarkDeleted()

		if _, err := h.comments.DeleteByTask(txCtx, task.ID()); err != nil {
			return err
		}
		if err := h.taskRepo.Delete(txCtx, task.ID()); err != nil {
			return err
		}

		return stageEvents(txCtx, h.outboxRepo, task.DomainEvents(), cmd.ActorID)
	})
}
