package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrTaskNotFound        = sharedDomain.NotFoundf("task not found")
	ErrEmptyTitle          = sharedDomain.Validationf("task title cannot be empty")
	ErrMissingDueDate      = sharedDomain.Validationf("task due date is required")
	ErrInvalidPriority     = sharedDomain.Validationf("invalid priority value")
	ErrInvalidStatus       = sharedDomain.Validationf("Invalid status value")
	ErrInvalidDependency   = sharedDomain.Validationf("invalid dependency type")
	ErrSelfDependency      = sharedDomain.Validationf("task cannot depend on itself")
	ErrDuplicateDependency = sharedDomain.Conflictf("dependency already exists")
)

// Priority represents how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// IsValid checks if the priority is valid.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Priorities lists all priority values in ascending order of urgency.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Status represents the lifecycle state of a task. It is a derived view
// of progress except when a direct status transition forces it, which
// then forces progress and checklist to match.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In-Progress"
	StatusCompleted  Status = "Completed"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Statuses lists all status values in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// DependencyType describes how one task relates to another.
type DependencyType string

const (
	DependencyBlocks    DependencyType = "blocks"
	DependencyBlockedBy DependencyType = "blockedBy"
	DependencyRelatedTo DependencyType = "relatedTo"
)

// IsValid checks if the dependency type is valid.
func (d DependencyType) IsValid() bool {
	switch d {
	case DependencyBlocks, DependencyBlockedBy, DependencyRelatedTo:
		return true
	default:
		return false
	}
}

// ChecklistItem is a single todo entry on a task.
type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Dependency links a task to another task it depends on. At most one
// entry per depended-on task is allowed.
type Dependency struct {
	TaskID uuid.UUID      `json:"task_id"`
	Type   DependencyType `json:"type"`
}

// Task is the aggregate root for the task lifecycle. All mutations of
// status, progress, checklist, assignment and dependencies go through
// its methods so the progress/status invariants hold after every call.
type Task struct {
	sharedDomain.BaseAggregateRoot
	title         string
	description   string
	priority      Priority
	status        Status
	dueDate       time.Time
	createdBy     uuid.UUID
	assignedTo    []uuid.UUID
	attachments   []string
	todoChecklist []ChecklistItem
	dependencies  []Dependency
	viewedBy      []uuid.UUID
	lastViewedAt  *time.Time
	progress      int
	timeTracked   int
	templateID    *uuid.UUID
}

// NewTask creates a task with status Pending and progress computed from
// the initial checklist. Emits TaskCreated plus one TaskAssigned per
// assignee.
func NewTask(title, description string, priority Priority, dueDate time.Time, assignedTo []uuid.UUID, checklist []ChecklistItem, createdBy uuid.UUID) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if dueDate.IsZero() {
		return nil, ErrMissingDueDate
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	progress, _ := ComputeProgress(checklist)

	task := &Task{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		title:             title,
		description:       strings.TrimSpace(description),
		priority:          priority,
		status:            StatusPending,
		dueDate:           dueDate,
		createdBy:         createdBy,
		assignedTo:        dedupeIDs(assignedTo),
		attachments:       make([]string, 0),
		todoChecklist:     cloneChecklist(checklist),
		dependencies:      make([]Dependency, 0),
		viewedBy:          make([]uuid.UUID, 0),
		progress:          progress,
		timeTracked:       0,
	}

	task.AddDomainEvent(NewTaskCreated(task))
	for _, assignee := range task.assignedTo {
		task.AddDomainEvent(NewTaskAssigned(task, assignee))
	}

	return task, nil
}

// RehydrateTask recreates a task from persisted state without emitting
// events.
func RehydrateTask(
	id uuid.UUID,
	title, description string,
	priority Priority,
	status Status,
	dueDate time.Time,
	createdBy uuid.UUID,
	assignedTo []uuid.UUID,
	attachments []string,
	checklist []ChecklistItem,
	dependencies []Dependency,
	viewedBy []uuid.UUID,
	lastViewedAt *time.Time,
	progress, timeTracked int,
	templateID *uuid.UUID,
	version int,
	createdAt, updatedAt time.Time,
) *Task {
	return &Task{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		title:         title,
		description:   description,
		priority:      priority,
		status:        status,
		dueDate:       dueDate,
		createdBy:     createdBy,
		assignedTo:    assignedTo,
		attachments:   attachments,
		todoChecklist: checklist,
		dependencies:  dependencies,
		viewedBy:      viewedBy,
		lastViewedAt:  lastViewedAt,
		progress:      progress,
		timeTracked:   timeTracked,
		templateID:    templateID,
	}
}

// Getters
func (t *Task) Title() string                  { return t.title }
func (t *Task) Description() string            { return t.description }
func (t *Task) Priority() Priority             { return t.priority }
func (t *Task) Status() Status                 { return t.status }
func (t *Task) DueDate() time.Time             { return t.dueDate }
func (t *Task) CreatedBy() uuid.UUID           { return t.createdBy }
func (t *Task) AssignedTo() []uuid.UUID        { return t.assignedTo }
func (t *Task) Attachments() []string          { return t.attachments }
func (t *Task) TodoChecklist() []ChecklistItem { return t.todoChecklist }
func (t *Task) Dependencies() []Dependency     { return t.dependencies }
func (t *Task) ViewedBy() []uuid.UUID          { return t.viewedBy }
func (t *Task) LastViewedAt() *time.Time       { return t.lastViewedAt }
func (t *Task) Progress() int                  { return t.progress }
func (t *Task) TimeTracked() int               { return t.timeTracked }
func (t *Task) TemplateID() *uuid.UUID         { return t.templateID }

// IsAssignedTo checks if the user is one of the task's assignees.
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	for _, id := range t.assignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// IsOverdue checks if the task's due date has passed without completion.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.dueDate.Before(now) && t.status != StatusCompleted
}

// SetTitle updates the title.
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch()
	return nil
}

// SetDescription updates the description.
func (t *Task) SetDescription(desc string) {
	t.description = strings.TrimSpace(desc)
	t.Touch()
}

// SetPriority updates the priority.
func (t *Task) SetPriority(p Priority) error {
	if !p.IsValid() {
		return ErrInvalidPriority
	}
	t.priority = p
	t.Touch()
	return nil
}

// SetDueDate updates the due date.
func (t *Task) SetDueDate(dueDate time.Time) error {
	if dueDate.IsZero() {
		return ErrMissingDueDate
	}
	t.dueDate = dueDate
	t.Touch()
	return nil
}

// SetAttachments replaces the attachment list wholesale.
func (t *Task) SetAttachments(attachments []string) {
	t.attachments = attachments
	t.Touch()
}

// SetAssignees replaces the assignee list and returns the ids that were
// not assigned before. Emits TaskAssigned only for those newly added
// ids; removed or previously-present assignees get no event.
func (t *Task) SetAssignees(assignedTo []uuid.UUID) []uuid.UUID {
	previous := make(map[uuid.UUID]bool, len(t.assignedTo))
	for _, id := range t.assignedTo {
		previous[id] = true
	}

	t.assignedTo = dedupeIDs(assignedTo)
	t.Touch()

	var added []uuid.UUID
	for _, id := range t.assignedTo {
		if !previous[id] {
			added = append(added, id)
			t.AddDomainEvent(NewTaskAssigned(t, id))
		}
	}
	return added
}

// ReplaceChecklist replaces the checklist wholesale, recomputes progress
// and derives status from it. The derived status overrides whatever the
// task's previous status was. Crossing into Completed emits
// TaskCompleted; leaving Completed emits TaskReopened.
func (t *Task) ReplaceChecklist(checklist []ChecklistItem) {
	oldStatus := t.status

	t.todoChecklist = cloneChecklist(checklist)
	t.progress, t.status = ComputeProgress(t.todoChecklist)
	t.Touch()

	t.recordTransition(oldStatus)
}

// SetStatus forces a status transition. Forcing Completed marks every
// checklist item completed and sets progress to 100 regardless of prior
// state; other statuses are set as given without touching the checklist.
func (t *Task) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	oldStatus := t.status
	t.status = status
	if status == StatusCompleted {
		for i := range t.todoChecklist {
			t.todoChecklist[i].Completed = true
		}
		t.progress = 100
	}
	t.Touch()

	t.recordTransition(oldStatus)
	return nil
}

// recordTransition emits the status-change events for a transition that
// already happened. Crossing into Completed fires TaskCompleted exactly
// once per crossing.
func (t *Task) recordTransition(oldStatus Status) {
	if t.status == oldStatus {
		return
	}
	t.AddDomainEvent(NewTaskStatusChanged(t, oldStatus))
	if t.status == StatusCompleted {
		t.AddDomainEvent(NewTaskCompleted(t))
	} else if oldStatus == StatusCompleted {
		t.AddDomainEvent(NewTaskReopened(t))
	}
}

// AddDependency appends a dependency on another task. At most one entry
// per depended-on task; a second add for the same task conflicts.
func (t *Task) AddDependency(dependsOn uuid.UUID, depType DependencyType) error {
	if dependsOn == t.ID() {
		return ErrSelfDependency
	}
	if depType == "" {
		depType = DependencyBlockedBy
	}
	if !depType.IsValid() {
		return ErrInvalidDependency
	}
	for _, dep := range t.dependencies {
		if dep.TaskID == dependsOn {
			return ErrDuplicateDependency
		}
	}

	t.dependencies = append(t.dependencies, Dependency{TaskID: dependsOn, Type: depType})
	t.Touch()
	return nil
}

// RemoveDependency removes a dependency if present. Removing an absent
// dependency is a no-op.
func (t *Task) RemoveDependency(dependsOn uuid.UUID) {
	for i, dep := range t.dependencies {
		if dep.TaskID == dependsOn {
			t.dependencies = append(t.dependencies[:i], t.dependencies[i+1:]...)
			t.Touch()
			return
		}
	}
}

// MarkViewed records that the user viewed the task. viewedBy has set
// semantics; no event is emitted.
func (t *Task) MarkViewed(userID uuid.UUID, at time.Time) {
	for _, id := range t.viewedBy {
		if id == userID {
			t.lastViewedAt = &at
			t.Touch()
			return
		}
	}
	t.viewedBy = append(t.viewedBy, userID)
	t.lastViewedAt = &at
	t.Touch()
}

// MarkUpdated emits a single TaskUpdated event covering the named fields.
func (t *Task) MarkUpdated(fields []string) {
	if len(fields) == 0 {
		return
	}
	t.AddDomainEvent(NewTaskUpdated(t, fields))
}

// MarkDeleted emits TaskDeleted. Called just before the row is removed.
func (t *Task) MarkDeleted() {
	t.AddDomainEvent(NewTaskDeleted(t))
}

// SetTemplateID records which template the task was created from.
func (t *Task) SetTemplateID(templateID uuid.UUID) {
	t.templateID = &templateID
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}

func cloneChecklist(items []ChecklistItem) []ChecklistItem {
	cloned := make([]ChecklistItem, len(items))
	copy(cloned, items)
	return cloned
}
