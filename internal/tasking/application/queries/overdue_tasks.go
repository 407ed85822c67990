package queries

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// OverdueTasksQuery lists tasks whose due date passed without
// completion. Members see only their own assignments.
type OverdueTasksQuery struct {
	ActorID   uuid.UUID
	ActorRole string
}

// OverdueTasksHandler handles the OverdueTasksQuery.
type OverdueTasksHandler struct {
	taskRepo domain.Repository
}

// NewOverdueTasksHandler creates a new OverdueTasksHandler.
func NewOverdueTasksHandler(taskRepo domain.Repository) *OverdueTasksHandler {
	return &OverdueTasksHandler{taskRepo: taskRepo}
}

// Handle executes the OverdueTasksQuery.
func (h *OverdueTasksHandler) Handle(ctx context.Context, query OverdueTasksQuery) ([]TaskDTO, error) {
	var scopeID uuid.UUID
	if !sharedApplication.IsAdmin(query.ActorRole) {
		scopeID = query.ActorID
	}

	tasks, err := h.taskRepo.FindOverdue(ctx, time.Now().UTC(), scopeID)
	if err != nil {
		return nil, err
	}

	dtos := make([]TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		dtos = append(dtos, toTaskDTO(task))
	}
	return dtos, nil
}
