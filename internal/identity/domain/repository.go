package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user persistence.
type Repository interface {
	// Save persists a user (create or update).
	Save(ctx context.Context, user *User) error

	// FindByID finds a user by their ID.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by their email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns all users, ordered by name.
	FindAll(ctx context.Context) ([]*User, error)

	// FindAdmins returns all users with the admin role.
	FindAdmins(ctx context.Context) ([]*User, error)
}
