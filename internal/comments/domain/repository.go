package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for comment persistence.
type Repository interface {
	// Save persists a comment (create or update).
	Save(ctx context.Context, comment *Comment) error

	// FindByID finds a comment by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)

	// FindByTask returns the task's comments, oldest first.
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*Comment, error)

	// Delete removes a comment permanently.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByTask removes all comments of a task. Returns how many
	// were removed. Used by the task delete cascade.
	DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error)
}
