// Package queries contains read-side handlers for templates.
package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/templates/domain"
	"github.com/google/uuid"
)

// ChecklistItemDTO is the read model for a template checklist line.
type ChecklistItemDTO struct {
	Text string `json:"text"`
}

// TemplateDTO is the read model for a task template.
type TemplateDTO struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	Category        string             `json:"category"`
	DefaultPriority string             `json:"defaultPriority"`
	DefaultDueDays  int                `json:"defaultDueDays"`
	TodoChecklist   []ChecklistItemDTO `json:"todoChecklist,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	CreatedBy       uuid.UUID          `json:"createdBy"`
	IsPublic        bool               `json:"isPublic"`
	UsageCount      int                `json:"usageCount"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func toTemplateDTO(t *domain.Template) TemplateDTO {
	checklist := make([]ChecklistItemDTO, 0, len(t.TodoChecklist()))
	for _, item := range t.TodoChecklist() {
		checklist = append(checklist, ChecklistItemDTO{Text: item.Text})
	}
	return TemplateDTO{
		ID:              t.ID(),
		Name:            t.Name(),
		Description:     t.Description(),
		Category:        t.Category(),
		DefaultPriority: string(t.DefaultPriority()),
		DefaultDueDays:  t.DefaultDueDays(),
		TodoChecklist:   checklist,
		Tags:            t.Tags(),
		CreatedBy:       t.CreatedBy(),
		IsPublic:        t.IsPublic(),
		UsageCount:      t.UsageCount(),
		CreatedAt:       t.CreatedAt(),
		UpdatedAt:       t.UpdatedAt(),
	}
}

// ListTemplatesQuery requests the templates visible to a user. Admins
// see everything, members see public templates plus their own.
type ListTemplatesQuery struct {
	ActorID      uuid.UUID
	ActorIsAdmin bool
}

// ListTemplatesHandler handles the ListTemplatesQuery.
type ListTemplatesHandler struct {
	templateRepo domain.Repository
}

// NewListTemplatesHandler creates a new ListTemplatesHandler.
func NewListTemplatesHandler(templateRepo domain.Repository) *ListTemplatesHandler {
	return &ListTemplatesHandler{templateRepo: templateRepo}
}

// Handle executes the ListTemplatesQuery.
func (h *ListTemplatesHandler) Handle(ctx context.Context, query ListTemplatesQuery) ([]TemplateDTO, error) {
	templates, err := h.templateRepo.FindAccessible(ctx, query.ActorID, query.ActorIsAdmin)
	if err != nil {
		return nil, err
	}

	dtos := make([]TemplateDTO, 0, len(templates))
	for _, template := range templates {
		dtos = append(dtos, toTemplateDTO(template))
	}
	return dtos, nil
}

// GetTemplateQuery requests a single template by ID.
type GetTemplateQuery struct {
	TemplateID   uuid.UUID
	ActorID      uuid.UUID
	ActorIsAdmin bool
}

// GetTemplateHandler handles the GetTemplateQuery.
type GetTemplateHandler struct {
	templateRepo domain.Repository
}

// NewGetTemplateHandler creates a new GetTemplateHandler.
func NewGetTemplateHandler(templateRepo domain.Repository) *GetTemplateHandler {
	return &GetTemplateHandler{templateRepo: templateRepo}
}

// Handle executes the GetTemplateQuery.
func (h *GetTemplateHandler) Handle(ctx context.Context, query GetTemplateQuery) (*TemplateDTO, error) {
	template, err := h.templateRepo.FindByID(ctx, query.TemplateID)
	if err != nil {
		return nil, err
	}
	if !template.IsAccessibleBy(query.ActorID, query.ActorIsAdmin) {
		return nil, domain.ErrTemplateNotFound
	}

	dto := toTemplateDTO(template)
	return &dto, nil
}
