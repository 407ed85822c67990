package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	Title       string
	Description string
	Priority    string
	DueDate     time.Time
	AssignedTo  []uuid.UUID
	Checklist   []ChecklistItem
	CreatorID   uuid.UUID
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID   uuid.UUID
	Status   domain.Status
	Progress int
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	var result *CreateTaskResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := domain.NewTask(
			cmd.Title,
			cmd.Description,
			domain.Priority(cmd.Priority),
			cmd.DueDate,
			cmd.AssignedTo,
			toDomainChecklist(cmd.Checklist),
			cmd.CreatorID,
		)
		if err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, task.DomainEvents(), cmd.CreatorID); err != nil {
			return err
		}

		result = &CreateTaskResult{
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
