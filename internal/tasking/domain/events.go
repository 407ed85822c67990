package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Task"

// TaskCreated is emitted when a task is created.
type TaskCreated struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID   `json:"task_id"`
	Title       string      `json:"title"`
	Priority    string      `json:"priority"`
	DueDate     time.Time   `json:"due_date"`
	CreatedBy   uuid.UUID   `json:"created_by"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(t *Task) *TaskCreated {
	return &TaskCreated{
		BaseEvent:   sharedDomain.NewBaseEvent(t.ID(), aggregateType, "tasking.task.created"),
		TaskID:      t.ID(),
		Title:       t.Title(),
		Priority:    string(t.Priority()),
		DueDate:     t.DueDate(),
		CreatedBy:   t.CreatedBy(),
		AssigneeIDs: t.AssignedTo(),
	}
}

// TaskAssigned is emitted once per newly added assignee.
type TaskAssigned struct {
	sharedDomain.BaseEvent
	TaskID     uuid.UUID `json:"task_id"`
	Title      string    `json:"title"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	DueDate    time.Time `json:"due_date"`
}

// NewTaskAssigned creates a TaskAssigned event.
func NewTaskAssigned(t *Task, assigneeID uuid.UUID) *TaskAssigned {
	return &TaskAssigned{
		BaseEvent:  sharedDomain.NewBaseEvent(t.ID(), aggregateType, "tasking.task.assigned"),
		TaskID:     t.ID(),
		Title:      t.Title(),
		AssigneeID: assigneeID,
		DueDate:    t.DueDate(),
	}
}

// TaskUpdated is emitted once per update call, naming the changed fields.
type TaskUpdated struct {
	sharedDomain.BaseEvent
	TaskID uuid.UUID `json:"task_id"`
	Title  string    `json:"title"`
	Fields []string  `json:"fields"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(t *Task, fields []string) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), aggregateType, "tasking.task.updated"),
		TaskID:    t.ID(),
		Title:     t.Title(),
		Fields:    fields,
	}
}

// TaskStatusChanged is emitted on every status transition.
type TaskStatusChanged struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID   `json:"task_id"`
	Title       string      `json:"title"`
	OldStatus   string      `json:"old_status"`
	NewStatus   string      `json:"new_status"`
	Progress    int         `json:"progress"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

// NewTaskStatusChanged creates a TaskStatusChanged event.
func NewTaskStatusChanged(t *Task, oldStatus Status) *TaskStatusChanged {
	return &TaskStatusChanged{
		BaseEvent:   sharedDomain.NewBaseEvent(t.ID(), aggregateType, "tasking.task.status_changed"),
		TaskID:      t.ID(),
		Title:       t.Title(),
		OldStatus:   string(oldStatus),
		NewStatus:   string(t.Status()),
		Progress:    t.Progress(),
		AssigneeIDs: t.AssignedTo(),
	}
}

// TaskCompleted is emitted exactly once per crossing into Completed.
type TaskCompleted struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID   `json:"task_id"`
	Title       string      `json:"title"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(t *Task) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(t.ID(), aggregateType, "tasking.task.completed"),
		TaskID:      t.ID(),
		Title:       t.Title(),
		AssigneeIDs: t.AssignedTo(),
	}
}

// TaskReopened is emitted when a completed task leaves Completed.
type TaskReopened struct {
	sharedDomain.BaseEvent
	TaskID    uuid.UUID `json:"task_id"`
	Title     string    `json:"title"`
	NewStatus string    `json:"new_status"`
}

// NewTaskReopened creates a TaskReopened event.
func NewTaskReopened(t *Task) *TaskReopened {
	return &TaskReopened{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), aggregateType, "tasking.task.reopened"),
		TaskID:    t.ID(),
		Title:     t.Title(),
		NewStatus: string(t.Status()),
	}
}

// TaskDeleted is emitted when a task is permanently removed.
type TaskDeleted struct {
	sharedDomain.BaseEvent
	TaskID uuid.UUID `json:"task_id"`
	Title  string    `json:"title"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(t *Task) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), aggregateType, "tasking.task.deleted"),
		TaskID:    t.ID(),
		Title:     t.Title(),
	}
}
