package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// ChecklistItemDTO is the read-side shape of a checklist entry.
type ChecklistItemDTO struct {
	Text      string
	Completed bool
}

// DependencyDTO is the read-side shape of a task dependency.
type DependencyDTO struct {
	TaskID uuid.UUID
	Type   string
}

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID                 uuid.UUID
	Title              string
	Description        string
	Priority           string
	Status             string
	DueDate            time.Time
	CreatedBy          uuid.UUID
	AssignedTo         []uuid.UUID
	Attachments        []string
	TodoChecklist      []ChecklistItemDTO
	Dependencies       []DependencyDTO
	ViewedBy           []uuid.UUID
	LastViewedAt       *time.Time
	Progress           int
	TimeTracked        int
	CompletedTodoCount int
	TemplateID         *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func toTaskDTO(task *domain.Task) TaskDTO {
	checklist := make([]ChecklistItemDTO, 0, len(task.TodoChecklist()))
	completedCount := 0
	for _, item := range task.TodoChecklist() {
		checklist = append(checklist, ChecklistItemDTO{Text: item.Text, Completed: item.Completed})
		if item.Completed {
			completedCount++
		}
	}

	deps := make([]DependencyDTO, 0, len(task.Dependencies()))
	for _, dep := range task.Dependencies() {
		deps = append(deps, DependencyDTO{TaskID: dep.TaskID, Type: string(dep.Type)})
	}

	return TaskDTO{
		ID:                 task.ID(),
		Title:              task.Title(),
		Description:        task.Description(),
		Priority:           string(task.Priority()),
		Status:             string(task.Status()),
		DueDate:            task.DueDate(),
		CreatedBy:          task.CreatedBy(),
		AssignedTo:         task.AssignedTo(),
		Attachments:        task.Attachments(),
		TodoChecklist:      checklist,
		Dependencies:       deps,
		ViewedBy:           task.ViewedBy(),
		LastViewedAt:       task.LastViewedAt(),
		Progress:           task.Progress(),
		TimeTracked:        task.TimeTracked(),
		CompletedTodoCount: completedCount,
		TemplateID:         task.TemplateID(),
		CreatedAt:          task.CreatedAt(),
		UpdatedAt:          task.UpdatedAt(),
	}
}

// GetTaskQuery contains the parameters for fetching a single task.
type GetTaskQuery struct {
	TaskID uuid.UUID
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	taskRepo domain.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo domain.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle executes the GetTaskQuery.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	task, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}

	dto := toTaskDTO(task)
	return &dto, nil
}
