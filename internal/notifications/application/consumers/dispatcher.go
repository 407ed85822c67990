// Package consumers contains event consumers that project domain events
// into per-user notifications.
package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/notifications/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// AdminDirectory resolves which users hold the admin role.
type AdminDirectory interface {
	FindAdminIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Dispatcher turns task and comment events into notifications. It is
// best-effort by contract: every failure is logged and swallowed so a
// notification problem can never fail or roll back the operation that
// emitted the event.
type Dispatcher struct {
	repo   domain.Repository
	admins AdminDirectory
	logger *slog.Logger
}

// NewDispatcher creates a new notification dispatcher.
func NewDispatcher(repo domain.Repository, admins AdminDirectory, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{repo: repo, admins: admins, logger: logger}
}

// EventTypes returns the routing keys the dispatcher subscribes to.
func (d *Dispatcher) EventTypes() []string {
	return []string{
		"tasking.task.assigned",
		"tasking.task.completed",
		"tasking.task.status_changed",
		"comments.comment.added",
	}
}

// Handle processes one event. Always returns nil.
func (d *Dispatcher) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var err error
	switch event.RoutingKey {
	case "tasking.task.assigned":
		err = d.onTaskAssigned(ctx, event)
	case "tasking.task.completed":
		err = d.onTaskCompleted(ctx, event)
	case "tasking.task.status_changed":
		err = d.onTaskStatusChanged(ctx, event)
	case "comments.comment.added":
		err = d.onCommentAdded(ctx, event)
	}
	if err != nil {
		d.logger.Error("notification dispatch failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"error", err,
		)
	}
	return nil
}

type taskAssignedPayload struct {
	TaskID     uuid.UUID `json:"task_id"`
	Title      string    `json:"title"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	DueDate    time.Time `json:"due_date"`
}

func (d *Dispatcher) onTaskAssigned(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload taskAssignedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	// Self-assignment needs no inbox item.
	if payload.AssigneeID == event.Metadata.UserID {
		return nil
	}

	return d.notify(ctx, payload.AssigneeID, payload.TaskID,
		"New task assigned",
		fmt.Sprintf("You have been assigned to %q", payload.Title),
		domain.TypeTaskAssigned, domain.PriorityHigh)
}

type taskCompletedPayload struct {
	TaskID      uuid.UUID   `json:"task_id"`
	Title       string      `json:"title"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

func (d *Dispatcher) onTaskCompleted(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload taskCompletedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	adminIDs, err := d.admins.FindAdminIDs(ctx)
	if err != nil {
		return err
	}

	for _, adminID := range adminIDs {
		if adminID == event.Metadata.UserID {
			continue
		}
		if err := d.notify(ctx, adminID, payload.TaskID,
			"Task completed",
			fmt.Sprintf("%q has been completed", payload.Title),
			domain.TypeTaskCompleted, domain.PriorityMedium); err != nil {
			// One failed recipient must not cost the rest theirs.
			d.notifyFailed(event, adminID, err)
		}
	}
	return nil
}

type taskStatusChangedPayload struct {
	TaskID      uuid.UUID   `json:"task_id"`
	Title       string      `json:"title"`
	OldStatus   string      `json:"old_status"`
	NewStatus   string      `json:"new_status"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

func (d *Dispatcher) onTaskStatusChanged(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload taskStatusChangedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	for _, assigneeID := range payload.AssigneeIDs {
		if assigneeID == event.Metadata.UserID {
			continue
		}
		if err := d.notify(ctx, assigneeID, payload.TaskID,
			"Task status changed",
			fmt.Sprintf("%q moved from %s to %s", payload.Title, payload.OldStatus, payload.NewStatus),
			domain.TypeTaskStatusChanged, domain.PriorityLow); err != nil {
			d.notifyFailed(event, assigneeID, err)
		}
	}
	return nil
}

type commentAddedPayload struct {
	CommentID uuid.UUID   `json:"comment_id"`
	TaskID    uuid.UUID   `json:"task_id"`
	AuthorID  uuid.UUID   `json:"author_id"`
	Mentions  []uuid.UUID `json:"mentions"`
	Excerpt   string      `json:"excerpt"`
}

func (d *Dispatcher) onCommentAdded(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload commentAddedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	for _, mentionedID := range payload.Mentions {
		if mentionedID == payload.AuthorID {
			continue
		}
		if err := d.notify(ctx, mentionedID, payload.TaskID,
			"You were mentioned",
			payload.Excerpt,
			domain.TypeCommentMention, domain.PriorityMedium); err != nil {
			d.notifyFailed(event, mentionedID, err)
		}
	}
	return nil
}

func (d *Dispatcher) notify(ctx context.Context, userID, taskID uuid.UUID, title, message string, notifType domain.Type, priority domain.Priority) error {
	notification, err := domain.NewNotification(userID, &taskID, title, message, notifType, priority)
	if err != nil {
		return err
	}
	notification.SetActionURL("/tasks/" + taskID.String())
	return d.repo.Save(ctx, notification)
}

func (d *Dispatcher) notifyFailed(event *eventbus.ConsumedEvent, userID uuid.UUID, err error) {
	d.logger.Error("failed to notify user",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"user_id", userID,
		"error", err,
	)
}
