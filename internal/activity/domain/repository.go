package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for activity log persistence.
// Records are insert-only; there is no update or delete.
type Repository interface {
	// Save appends a record to the log.
	Save(ctx context.Context, record *Record) error

	// FindByTask returns the task's records, newest first.
	FindByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]*Record, error)

	// FindByUser returns the user's records, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Record, error)

	// FindRecent returns the newest records across all tasks.
	FindRecent(ctx context.Context, limit int) ([]*Record, error)
}
