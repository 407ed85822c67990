package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/templates/domain"
	"github.com/google/uuid"
)

// DeleteTemplateCommand removes a template. Tasks already created from
// it keep their template reference.
type DeleteTemplateCommand struct {
	TemplateID uuid.UUID
	ActorID    uuid.UUID
	ActorRole  string
}

// DeleteTemplateHandler handles the DeleteTemplateCommand.
type DeleteTemplateHandler struct {
	templateRepo domain.Repository
	uow          sharedApplication.UnitOfWork
}

// NewDeleteTemplateHandler creates a new DeleteTemplateHandler.
func NewDeleteTemplateHandler(templateRepo domain.Repository, uow sharedApplication.UnitOfWork) *DeleteTemplateHandler {
	return &DeleteTemplateHandler{templateRepo: templateRepo, uow: uow}
}

// Handle executes the DeleteTemplateCommand.
func (h *DeleteTemplateHandler) Handle(ctx context.Context, cmd DeleteTemplateCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		template, err := h.templateRepo.FindByID(txCtx, cmd.TemplateID)
		if err != nil {
			return err
		}

		if !template.IsOwnedBy(cmd.ActorID) && !sharedApplication.IsAdmin(cmd.ActorRole) {
			return sharedDomain.Forbiddenf("not allowed to delete this template")
		}

		return h.templateRepo.Delete(txCtx, cmd.TemplateID)
	})
}
