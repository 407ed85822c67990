package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for template persistence.
type Repository interface {
	// Save persists a template (create or update).
	Save(ctx context.Context, template *Template) error

	// FindByID finds a template by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)

	// FindAccessible returns the templates visible to the user: public
	// ones plus their own. Admins see everything.
	FindAccessible(ctx context.Context, userID uuid.UUID, isAdmin bool) ([]*Template, error)

	// Delete removes a template permanently.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUsage bumps the template's usage counter with a
	// store-level atomic increment.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
