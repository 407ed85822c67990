package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// UpdateTaskCommand merges the provided fields into an existing task.
// Zero-valued fields are left unchanged, including fields explicitly
// provided as empty. That shallow-merge quirk is part of the contract:
// there is no way to blank a title or description through this command.
// Slices distinguish nil (no change) from empty (replace with empty).
type UpdateTaskCommand struct {
	TaskID      uuid.UUID
	ActorID     uuid.UUID
	Title       string
	Description string
	Priority    string
	DueDate     time.Time
	Checklist   []ChecklistItem
	Attachments []string
	AssignedTo  []uuid.UUID
}

// UpdateTaskResult contains the result of updating a task.
type UpdateTaskResult struct {
	TaskID        uuid.UUID
	Status        domain.Status
	Progress      int
	NewAssignees  []uuid.UUID
	ChangedFields []string
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the UpdateTaskCommand.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*UpdateTaskResult, error) {
	var result *UpdateTaskResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		var changed []string

		if cmd.Title != "" {
			if err := task.SetTitle(cmd.Title); err != nil {
				return err
			}
			changed = append(changed, "title")
		}
		if cmd.Description != "" {
			task.SetDescription(cmd.Description)
			changed = append(changed, "description")
		}
		if cmd.Priority != "" {
			if err := task.SetPriority(domain.Priority(cmd.Priority)); err != nil {
				return err
			}
			changed = append(changed, "priority")
		}
		if !cmd.DueDate.IsZero() {
			if err := task.SetDueDate(cmd.DueDate); err != nil {
				return err
			}
			changed = append(changed, "dueDate")
		}
		if cmd.Checklist != nil {
			task.ReplaceChecklist(toDomainChecklist(cmd.Checklist))
			changed = append(changed, "todoChecklist")
		}
		if cmd.Attachments != nil {
			task.SetAttachments(cmd.Attachments)
			changed = append(changed, "attachments")
		}

		var newAssignees []uuid.UUID
		if cmd.AssignedTo != nil {
			newAssignees = task.SetAssignees(cmd.AssignedTo)
			changed = append(changed, "assignedTo")
		}

		task.MarkUpdated(changed)

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, task.DomainEvents(), cmd.ActorID); err != nil {
			return err
		}

		result = &UpdateTaskResult{
			TaskID:        task.ID(),
			Status:        task.Status(),
			Progress:      task.Progress(),
			NewAssignees:  newAssignees,
			ChangedFields: changed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
