package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for time entry persistence.
type Repository interface {
	// Save persists a time entry (create or update).
	Save(ctx context.Context, entry *TimeEntry) error

	// FindByID finds a time entry by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*TimeEntry, error)

	// FindByTask finds all entries for a task, newest first.
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*TimeEntry, error)

	// FindByUser finds all entries for a user, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*TimeEntry, error)

	// StopAllRunning force-stops every running entry for the user in a
	// single statement, without recomputing durations. Returns how many
	// entries were stopped.
	StopAllRunning(ctx context.Context, userID uuid.UUID, endTime time.Time) (int64, error)
}
