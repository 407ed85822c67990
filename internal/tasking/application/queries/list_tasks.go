package queries

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// StatusSummary counts tasks per status for the caller's scope.
type StatusSummary struct {
	All             int
	PendingTasks    int
	InProgressTasks int
	CompletedTasks  int
}

// ListTasksQuery contains the parameters for listing tasks. Members see
// only tasks they are assigned to; admins see everything.
type ListTasksQuery struct {
	ActorID   uuid.UUID
	ActorRole string
	Status    string
	Priority  string
}

// ListTasksResult contains the matching tasks and the status summary
// for the caller's full scope, ignoring the status filter.
type ListTasksResult struct {
	Tasks         []TaskDTO
	StatusSummary StatusSummary
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo domain.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo domain.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) (*ListTasksResult, error) {
	filter := domain.ListFilter{
		Status:   domain.Status(query.Status),
		Priority: domain.Priority(query.Priority),
	}
	var scopeID uuid.UUID
	if !sharedApplication.IsAdmin(query.ActorRole) {
		scopeID = query.ActorID
	}
	filter.AssigneeID = scopeID

	tasks, err := h.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	counts, err := h.taskRepo.CountByStatus(ctx, scopeID)
	if err != nil {
		return nil, err
	}

	dtos := make([]TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		dtos = append(dtos, toTaskDTO(task))
	}

	summary := StatusSummary{
		PendingTasks:    counts[domain.StatusPending],
		InProgressTasks: counts[domain.StatusInProgress],
		CompletedTasks:  counts[domain.StatusCompleted],
	}
	summary.All = summary.PendingTasks + summary.InProgressTasks + summary.CompletedTasks

	return &ListTasksResult{Tasks: dtos, StatusSummary: summary}, nil
}
