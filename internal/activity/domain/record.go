// Package domain contains the activity log model. Records are
// append-only: once written they are never updated, and they outlive
// the task they describe.
package domain

import (
	"encoding/json"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

var ErrEmptyAction = sharedDomain.Validationf("activity action is required")

// Action names what happened to a task.
type Action string

const (
	ActionCreated            Action = "created"
	ActionUpdated            Action = "updated"
	ActionDeleted            Action = "deleted"
	ActionStatusChanged      Action = "status_changed"
	ActionAssigned           Action = "assigned"
	ActionCommented          Action = "commented"
	ActionAttachmentAdded    Action = "attachment_added"
	ActionPriorityChanged    Action = "priority_changed"
	ActionDueDateChanged     Action = "due_date_changed"
	ActionDescriptionUpdated Action = "description_updated"
	ActionTaskCompleted      Action = "task_completed"
	ActionTaskReopened       Action = "task_reopened"
)

// Record is one immutable activity log line.
type Record struct {
	id          uuid.UUID
	taskID      uuid.UUID
	userID      uuid.UUID
	action      Action
	description string
	changes     json.RawMessage
	createdAt   time.Time
}

// NewRecord creates an activity record.
func NewRecord(taskID, userID uuid.UUID, action Action, description string, changes json.RawMessage) (*Record, error) {
	if action == "" {
		return nil, ErrEmptyAction
	}

	return &Record{
		id:          uuid.New(),
		taskID:      taskID,
		userID:      userID,
		action:      action,
		description: strings.TrimSpace(description),
		changes:     changes,
		createdAt:   time.Now().UTC(),
	}, nil
}

// RehydrateRecord recreates a record from persisted state.
func RehydrateRecord(id, taskID, userID uuid.UUID, action Action, description string, changes json.RawMessage, createdAt time.Time) *Record {
	return &Record{
		id:          id,
		taskID:      taskID,
		userID:      userID,
		action:      action,
		description: description,
		changes:     changes,
		createdAt:   createdAt,
	}
}

// Getters
func (r *Record) ID() uuid.UUID            { return r.id }
func (r *Record) TaskID() uuid.UUID        { return r.taskID }
func (r *Record) UserID() uuid.UUID        { return r.userID }
func (r *Record) Action() Action           { return r.action }
func (r *Record) Description() string      { return r.description }
func (r *Record) Changes() json.RawMessage { return r.changes }
func (r *Record) CreatedAt() time.Time     { return r.createdAt }
