package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence.
type Repository interface {
	// Save persists a notification (create or update).
	Save(ctx context.Context, notification *Notification) error

	// FindByID finds a notification by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByUser returns the user's notifications, newest first.
	// unreadOnly limits the result to unread items.
	FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*Notification, error)

	// CountUnread counts the user's unread notifications.
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)

	// MarkAllRead marks every unread notification for the user read in
	// one statement. Returns how many were affected.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	// Delete removes a notification permanently.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllForUser removes all of the user's notifications.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
