package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/felixgeelhaar/taskhive/internal/templates/domain"
	"github.com/google/uuid"
)

// ChecklistItem is the command-level shape of a template checklist line.
type ChecklistItem struct {
	Text string
}

// CreateTemplateCommand creates a task template.
type CreateTemplateCommand struct {
	Name            string
	Description     string
	Category        string
	DefaultPriority string
	DefaultDueDays  int
	TodoChecklist   []ChecklistItem
	Tags            []string
	CreatedBy       uuid.UUID
	IsPublic        bool
}

// CreateTemplateResult contains the result of creating a template.
type CreateTemplateResult struct {
	TemplateID uuid.UUID
}

// CreateTemplateHandler handles the CreateTemplateCommand.
type CreateTemplateHandler struct {
	templateRepo domain.Repository
	uow          sharedApplication.UnitOfWork
}

// NewCreateTemplateHandler creates a new CreateTemplateHandler.
func NewCreateTemplateHandler(templateRepo domain.Repository, uow sharedApplication.UnitOfWork) *CreateTemplateHandler {
	return &CreateTemplateHandler{templateRepo: templateRepo, uow: uow}
}

// Handle executes the CreateTemplateCommand.
func (h *CreateTemplateHandler) Handle(ctx context.Context, cmd CreateTemplateCommand) (*CreateTemplateResult, error) {
	var result *CreateTemplateResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		template, err := domain.NewTemplate(
			cmd.Name,
			cmd.Description,
			cmd.Category,
			taskingDomain.Priority(cmd.DefaultPriority),
			cmd.DefaultDueDays,
			toDomainChecklist(cmd.TodoChecklist),
			cmd.Tags,
			cmd.CreatedBy,
			cmd.IsPublic,
		)
		if err != nil {
			return err
		}

		if err := h.templateRepo.Save(txCtx, template); err != nil {
			return err
		}

		result = &CreateTemplateResult{TemplateID: template.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func toDomainChecklist(items []ChecklistItem) []taskingDomain.ChecklistItem {
	if items == nil {
		return nil
	}
	out := make([]taskingDomain.ChecklistItem, len(items))
	for i, item := range items {
		out[i] = taskingDomain.ChecklistItem{Text: item.Text}
	}
	return out
}
