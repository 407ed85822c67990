package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// AddDependencyCommand links a task to another task it depends on.
type AddDependencyCommand struct {
	TaskID      uuid.UUID
	DependsOnID uuid.UUID
	Type        string
	ActorID     uuid.UUID
}

// AddDependencyHandler handles the AddDependencyCommand.
type AddDependencyHandler struct {
	taskRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewAddDependencyHandler creates a new AddDependencyHandler.
func NewAddDependencyHandler(taskRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *AddDependencyHandler {
	return &AddDependencyHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the AddDependencyCommand. The depended-on task must
// exist; no cycle detection is performed.
func (h *AddDependencyHandler) Handle(ctx context.Context, cmd AddDependencyCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if _, err := h.taskRepo.FindByID(txCtx, cmd.DependsOnID); err != nil {
			return err
		}

		if err := task.AddDependency(cmd.DependsOnID, domain.DependencyType(cmd.Type)); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return err
		}

		return stageEvents(txCtx, h.outboxRepo, task.DomainEvents(), cmd.ActorID)
	})
}
