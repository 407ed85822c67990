package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows task listings. Zero values mean no filtering on
// that field; a non-zero AssigneeID scopes results to tasks assigned to
// that user.
type ListFilter struct {
	Status     Status
	Priority   Priority
	AssigneeID uuid.UUID
}

// Repository defines the interface for task persistence.
type Repository interface {
	// Save persists a task (create or update). Updates are conditional
	// on the version the task was loaded at and fail with a conflict
	// when another writer got there first.
	Save(ctx context.Context, task *Task) error

	// FindByID finds a task by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// List finds tasks matching the filter, most recently created first.
	List(ctx context.Context, filter ListFilter) ([]*Task, error)

	// FindOverdue finds tasks whose due date passed without completion,
	// optionally scoped to an assignee.
	FindOverdue(ctx context.Context, now time.Time, assigneeID uuid.UUID) ([]*Task, error)

	// CountByStatus counts tasks per status, optionally scoped to an
	// assignee. Every status is present in the result, defaulting to 0.
	CountByStatus(ctx context.Context, assigneeID uuid.UUID) (map[Status]int, error)

	// Delete removes a task permanently.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementTimeTracked atomically adds minutes to the task's tracked
	// time without rewriting the rest of the document.
	IncrementTimeTracked(ctx context.Context, id uuid.UUID, minutes int) error
}
