// Package queries contains read-side handlers for notifications.
package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/notifications/domain"
	"github.com/google/uuid"
)

const defaultLimit = 50

// NotificationDTO is the read model for a notification.
type NotificationDTO struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    *uuid.UUID `json:"taskId,omitempty"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	ActionURL *string    `json:"actionUrl,omitempty"`
	Priority  string     `json:"priority"`
	CreatedAt time.Time  `json:"createdAt"`
}

// InboxDTO is the user's notification list with the unread count.
type InboxDTO struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int               `json:"unreadCount"`
}

// ListNotificationsQuery requests the actor's inbox.
type ListNotificationsQuery struct {
	ActorID    uuid.UUID
	UnreadOnly bool
	Limit      int
}

// ListNotificationsHandler handles the ListNotificationsQuery.
type ListNotificationsHandler struct {
	repo domain.Repository
}

// NewListNotificationsHandler creates a new ListNotificationsHandler.
func NewListNotificationsHandler(repo domain.Repository) *ListNotificationsHandler {
	return &ListNotificationsHandler{repo: repo}
}

// Handle executes the ListNotificationsQuery.
func (h *ListNotificationsHandler) Handle(ctx context.Context, query ListNotificationsQuery) (*InboxDTO, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	notifications, err := h.repo.FindByUser(ctx, query.ActorID, query.UnreadOnly, limit)
	if err != nil {
		return nil, err
	}

	unread, err := h.repo.CountUnread(ctx, query.ActorID)
	if err != nil {
		return nil, err
	}

	inbox := &InboxDTO{
		Notifications: make([]NotificationDTO, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for _, n := range notifications {
		inbox.Notifications = append(inbox.Notifications, NotificationDTO{
			ID:        n.ID(),
			TaskID:    n.TaskID(),
			Title:     n.Title(),
			Message:   n.Message(),
			Type:      string(n.Type()),
			Read:      n.IsRead(),
			ReadAt:    n.ReadAt(),
			ActionURL: n.ActionURL(),
			Priority:  string(n.Priority()),
			CreatedAt: n.CreatedAt(),
		})
	}
	return inbox, nil
}
