package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// ReplaceChecklistCommand replaces a task's checklist wholesale.
type ReplaceChecklistCommand struct {
	TaskID    uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
	Checklist []ChecklistItem
}

// ReplaceChecklistResult contains the result of a checklist replacement.
type ReplaceChecklistResult struct {
	TaskID   uuid.UUID
	Status   domain.Status
	Progress int
}

// ReplaceChecklistHandler handles the ReplaceChecklistCommand.
type ReplaceChecklistHandler struct {
	taskRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewReplaceChecklistHandler creates a new ReplaceChecklistHandler.
func NewReplaceChecklistHandler(taskRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ReplaceChecklistHandler {
	return &ReplaceChecklistHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the ReplaceChecklistCommand. The actor must be an
// assignee of the task or an admin.
func (h *ReplaceChecklistHandler) Handle(ctx context.Context, cmd ReplaceChecklistCommand) (*ReplaceChecklistResult, error) {
	var result *ReplaceChecklistResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if !task.IsAssignedTo(cmd.ActorID) && !sharedApplication.IsAdmin(cmd.ActorRole) {
			return sharedDomain.Forbiddenf("not authorized to update checklist")
		}

		task.ReplaceChecklist(toDomainChecklist(cmd.Checklist))

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, task.DomainEvents(), cmd.ActorID); err != nil {
			return err
		}

		result = &ReplaceChecklistResult{
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
