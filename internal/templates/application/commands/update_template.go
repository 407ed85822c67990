package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/felixgeelhaar/taskhive/internal/templates/domain"
	"github.com/google/uuid"
)

// UpdateTemplateCommand replaces a template's editable fields. Only the
// owner or an admin may update.
type UpdateTemplateCommand struct {
	TemplateID      uuid.UUID
	ActorID         uuid.UUID
	ActorRole       string
	Name            string
	Description     string
	Category        string
	DefaultPriority string
	DefaultDueDays  int
	TodoChecklist   []ChecklistItem
	Tags            []string
	IsPublic        bool
}

// UpdateTemplateHandler handles the UpdateTemplateCommand.
type UpdateTemplateHandler struct {
	templateRepo domain.Repository
	uow          sharedApplication.UnitOfWork
}

// NewUpdateTemplateHandler creates a new UpdateTemplateHandler.
func NewUpdateTemplateHandler(templateRepo domain.Repository, uow sharedApplication.UnitOfWork) *UpdateTemplateHandler {
	return &UpdateTemplateHandler{templateRepo: templateRepo, uow: uow}
}

// Handle executes the UpdateTemplateCommand.
func (h *UpdateTemplateHandler) Handle(ctx context.Context, cmd UpdateTemplateCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		template, err := h.templateRepo.FindByID(txCtx, cmd.TemplateID)
		if err != nil {
			return err
		}

		if !template.IsOwnedBy(cmd.ActorID) && !sharedApplication.IsAdmin(cmd.ActorRole) {
			return sharedDomain.Forbiddenf("not allowed to modify this template")
		}

		err = template.Update(
			cmd.Name,
			cmd.Description,
			cmd.Category,
			taskingDomain.Priority(cmd.DefaultPriority),
			cmd.DefaultDueDays,
			toDomainChecklist(cmd.TodoChecklist),
			cmd.Tags,
			cmd.IsPublic,
		)
		if err != nil {
			return err
		}

		return h.templateRepo.Save(txCtx, template)
	})
}
