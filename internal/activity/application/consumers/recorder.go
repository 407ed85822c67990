// Package consumers contains the recorder that projects domain events
// into the append-only activity log.
package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/taskhive/internal/activity/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Recorder appends one activity record per consumed event. Like the
// notification dispatcher it is best-effort: failures are logged and
// swallowed, never propagated back to the emitting operation.
type Recorder struct {
	repo   domain.Repository
	logger *slog.Logger
}

// NewRecorder creates a new activity recorder.
func NewRecorder(repo domain.Repository, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger}
}

// EventTypes returns the routing keys the recorder subscribes to.
func (r *Recorder) EventTypes() []string {
	return []string{
		"tasking.task.created",
		"tasking.task.updated",
		"tasking.task.deleted",
		"tasking.task.status_changed",
		"tasking.task.assigned",
		"tasking.task.completed",
		"tasking.task.reopened",
		"comments.comment.added",
	}
}

// Handle appends one record for the event. Always returns nil.
func (r *Recorder) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	record, err := r.toRecord(event)
	if err == nil && record != nil {
		err = r.repo.Save(ctx, record)
	}
	if err != nil {
		r.logger.Error("activity recording failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"error", err,
		)
	}
	return nil
}

type taskEventPayload struct {
	TaskID     uuid.UUID `json:"task_id"`
	Title      string    `json:"title"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	Fields     []string  `json:"fields"`
	AuthorID   uuid.UUID `json:"author_id"`
}

func (r *Recorder) toRecord(event *eventbus.ConsumedEvent) (*domain.Record, error) {
	var payload taskEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, err
	}

	var action domain.Action
	var description string

	switch event.RoutingKey {
	case "tasking.task.created":
		action = domain.ActionCreated
		description = fmt.Sprintf("created %q", payload.Title)
	case "tasking.task.updated":
		action, description = updateAction(payload)
	case "tasking.task.deleted":
		action = domain.ActionDeleted
		description = fmt.Sprintf("deleted %q", payload.Title)
	case "tasking.task.status_changed":
		action = domain.ActionStatusChanged
		description = fmt.Sprintf("moved %q from %s to %s", payload.Title, payload.OldStatus, payload.NewStatus)
	case "tasking.task.assigned":
		action = domain.ActionAssigned
		description = fmt.Sprintf("assigned %s to %q", payload.AssigneeID, payload.Title)
	case "tasking.task.completed":
		action = domain.ActionTaskCompleted
		description = fmt.Sprintf("completed %q", payload.Title)
	case "tasking.task.reopened":
		action = domain.ActionTaskReopened
		description = fmt.Sprintf("reopened %q", payload.Title)
	case "comments.comment.added":
		action = domain.ActionCommented
		description = "commented"
	default:
		return nil, nil
	}

	userID := event.Metadata.UserID
	if userID == uuid.Nil && payload.AuthorID != uuid.Nil {
		userID = payload.AuthorID
	}

	return domain.NewRecord(payload.TaskID, userID, action, description, event.Payload)
}

// updateAction narrows a generic update to a more specific action when
// exactly one tracked field changed.
func updateAction(payload taskEventPayload) (domain.Action, string) {
	if len(payload.Fields) == 1 {
		switch payload.Fields[0] {
		case "priority":
			return domain.ActionPriorityChanged, fmt.Sprintf("changed priority of %q", payload.Title)
		case "dueDate":
			return domain.ActionDueDateChanged, fmt.Sprintf("changed due date of %q", payload.Title)
		case "description":
			return domain.ActionDescriptionUpdated, fmt.Sprintf("updated description of %q", payload.Title)
		case "attachments":
			return domain.ActionAttachmentAdded, fmt.Sprintf("updated attachments of %q", payload.Title)
		}
	}
	return domain.ActionUpdated, fmt.Sprintf("updated %q", payload.Title)
}
