// Package domain contains the task template model. Templates are
// reusable task blueprints owned by their creator and optionally
// shared with the whole workspace.
package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

var (
	ErrTemplateNotFound = sharedDomain.NotFoundf("template not found")
	ErrEmptyName        = sharedDomain.Validationf("template name is required")
)

const defaultDueDays = 7

// Template is a reusable task blueprint.
type Template struct {
	sharedDomain.BaseEntity
	name            string
	description     string
	category        string
	defaultPriority taskingDomain.Priority
	defaultDueDays  int
	todoChecklist   []taskingDomain.ChecklistItem
	tags            []string
	createdBy       uuid.UUID
	isPublic        bool
	usageCount      int
}

// NewTemplate creates a template. Priority defaults to Medium, due days
// to 7, category to Custom.
func NewTemplate(name, description, category string, priority taskingDomain.Priority, dueDays int, checklist []taskingDomain.ChecklistItem, tags []string, createdBy uuid.UUID, isPublic bool) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if priority == "" {
		priority = taskingDomain.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, taskingDomain.ErrInvalidPriority
	}
	if dueDays <= 0 {
		dueDays = defaultDueDays
	}
	if category == "" {
		category = "Custom"
	}

	return &Template{
		BaseEntity:      sharedDomain.NewBaseEntity(),
		name:            name,
		description:     strings.TrimSpace(description),
		category:        category,
		defaultPriority: priority,
		defaultDueDays:  dueDays,
		todoChecklist:   resetChecklist(checklist),
		tags:            tags,
		createdBy:       createdBy,
		isPublic:        isPublic,
	}, nil
}

// RehydrateTemplate recreates a template from persisted state.
func RehydrateTemplate(
	id uuid.UUID,
	name, description, category string,
	priority taskingDomain.Priority,
	dueDays int,
	checklist []taskingDomain.ChecklistItem,
	tags []string,
	createdBy uuid.UUID,
	isPublic bool,
	usageCount int,
	createdAt, updatedAt time.Time,
) *Template {
	return &Template{
		BaseEntity:      sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:            name,
		description:     description,
		category:        category,
		defaultPriority: priority,
		defaultDueDays:  dueDays,
		todoChecklist:   checklist,
		tags:            tags,
		createdBy:       createdBy,
		isPublic:        isPublic,
		usageCount:      usageCount,
	}
}

// Getters
func (t *Template) Name() string                                 { return t.name }
func (t *Template) Description() string                          { return t.description }
func (t *Template) Category() string                             { return t.category }
func (t *Template) DefaultPriority() taskingDomain.Priority      { return t.defaultPriority }
func (t *Template) DefaultDueDays() int                          { return t.defaultDueDays }
func (t *Template) TodoChecklist() []taskingDomain.ChecklistItem { return t.todoChecklist }
func (t *Template) Tags() []string                               { return t.tags }
func (t *Template) CreatedBy() uuid.UUID                         { return t.createdBy }
func (t *Template) IsPublic() bool                               { return t.isPublic }
func (t *Template) UsageCount() int                              { return t.usageCount }

// IsAccessibleBy checks whether the user may read or instantiate the
// template.
func (t *Template) IsAccessibleBy(userID uuid.UUID, isAdmin bool) bool {
	return t.isPublic || t.createdBy == userID || isAdmin
}

// IsOwnedBy checks if the template was created by the user.
func (t *Template) IsOwnedBy(userID uuid.UUID) bool {
	return t.createdBy == userID
}

// Update replaces the template's editable fields.
func (t *Template) Update(name, description, category string, priority taskingDomain.Priority, dueDays int, checklist []taskingDomain.ChecklistItem, tags []string, isPublic bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if priority == "" {
		priority = taskingDomain.PriorityMedium
	}
	if !priority.IsValid() {
		return taskingDomain.ErrInvalidPriority
	}
	if dueDays <= 0 {
		dueDays = defaultDueDays
	}
	if category == "" {
		category = "Custom"
	}

	t.name = name
	t.description = strings.TrimSpace(description)
	t.category = category
	t.defaultPriority = priority
	t.defaultDueDays = dueDays
	t.todoChecklist = resetChecklist(checklist)
	t.tags = tags
	t.isPublic = isPublic
	t.Touch()
	return nil
}

// DueDateFrom computes the due date of a task instantiated now.
func (t *Template) DueDateFrom(now time.Time) time.Time {
	return now.AddDate(0, 0, t.defaultDueDays)
}

// resetChecklist copies the items with every completion flag cleared.
// A template never carries finished work into a new task.
func resetChecklist(items []taskingDomain.ChecklistItem) []taskingDomain.ChecklistItem {
	if items == nil {
		return nil
	}
	out := make([]taskingDomain.ChecklistItem, len(items))
	for i, item := range items {
		out[i] = taskingDomain.ChecklistItem{Text: item.Text}
	}
	return out
}
