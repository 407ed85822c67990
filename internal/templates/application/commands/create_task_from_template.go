package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/felixgeelhaar/taskhive/internal/templates/domain"
	"github.com/google/uuid"
)

// CreateTaskFromTemplateCommand instantiates a task from a template.
// The template supplies title, description, priority, checklist and the
// due date offset. Assignees come from the command.
type CreateTaskFromTemplateCommand struct {
	TemplateID uuid.UUID
	AssignedTo []uuid.UUID
	ActorID    uuid.UUID
	ActorRole  string
}

// CreateTaskFromTemplateResult contains the result of instantiating a template.
type CreateTaskFromTemplateResult struct {
	TaskID  uuid.UUID
	DueDate time.Time
}

// CreateTaskFromTemplateHandler handles the CreateTaskFromTemplateCommand.
type CreateTaskFromTemplateHandler struct {
	templateRepo domain.Repository
	taskRepo     taskingDomain.Repository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// NewCreateTaskFromTemplateHandler creates a new CreateTaskFromTemplateHandler.
func NewCreateTaskFromTemplateHandler(
	templateRepo domain.Repository,
	taskRepo taskingDomain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CreateTaskFromTemplateHandler {
	return &CreateTaskFromTemplateHandler{
		templateRepo: templateRepo,
		taskRepo:     taskRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle executes the CreateTaskFromTemplateCommand.
func (h *CreateTaskFromTemplateHandler) Handle(ctx context.Context, cmd CreateTaskFromTemplateCommand) (*CreateTaskFromTemplateResult, error) {
	var result *CreateTaskFromTemplateResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		template, err := h.templateRepo.FindByID(txCtx, cmd.TemplateID)
		if err != nil {
			return err
		}

		if !template.IsAccessibleBy(cmd.ActorID, sharedApplication.IsAdmin(cmd.ActorRole)) {
			return sharedDomain.Forbiddenf("not allowed to use this template")
		}

		dueDate := template.DueDateFrom(time.Now().UTC())
		task, err := taskingDomain.NewTask(
			template.Name(),
			template.Description(),
			template.DefaultPriority(),
			dueDate,
			cmd.AssignedTo,
			template.TodoChecklist(),
			cmd.ActorID,
		)
		if err != nil {
			return err
		}
		task.SetTemplateID(template.ID())

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return err
		}

		if err := h.templateRepo.IncrementUsage(txCtx, template.ID()); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, task.DomainEvents(), cmd.ActorID); err != nil {
			return err
		}

		result = &CreateTaskFromTemplateResult{TaskID: task.ID(), DueDate: dueDate}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
