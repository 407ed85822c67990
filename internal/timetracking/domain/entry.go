package domain

import (
	"math"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEntryNotFound   = sharedDomain.NotFoundf("time entry not found")
	ErrEntryNotRunning = sharedDomain.Validationf("timer is not running")
	ErrEntryRunning    = sharedDomain.Validationf("timer is already running")
	ErrInvalidDuration = sharedDomain.Validationf("duration must be positive")
	ErrInvalidCategory = sharedDomain.Validationf("invalid time entry category")
)

// Category classifies what kind of work a time entry covers.
type Category string

const (
	CategoryDevelopment Category = "Development"
	CategoryDesign      Category = "Design"
	CategoryTesting     Category = "Testing"
	CategoryResearch    Category = "Research"
	CategoryMeeting     Category = "Meeting"
	CategoryPlanning    Category = "Planning"
	CategoryReview      Category = "Review"
	CategoryOther       Category = "Other"
)

// IsValid checks if the category is valid.
func (c Category) IsValid() bool {
	switch c {
	case CategoryDevelopment, CategoryDesign, CategoryTesting, CategoryResearch,
		CategoryMeeting, CategoryPlanning, CategoryReview, CategoryOther:
		return true
	default:
		return false
	}
}

// TimeEntry records a span of work on a task. At most one entry per
// user may be running at a time; that discipline is enforced by the
// start command together with a store-level unique constraint.
type TimeEntry struct {
	sharedDomain.BaseAggregateRoot
	taskID          uuid.UUID
	userID          uuid.UUID
	startTime       time.Time
	endTime         *time.Time
	durationMinutes int
	description     string
	category        Category
	isRunning       bool
	billable        bool
}

// NewRunningEntry starts a timer for the user on the task.
func NewRunningEntry(taskID, userID uuid.UUID, description string, category Category) (*TimeEntry, error) {
	category, err := normalizeCategory(category)
	if err != nil {
		return nil, err
	}

	entry := &TimeEntry{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		taskID:            taskID,
		userID:            userID,
		startTime:         time.Now().UTC(),
		durationMinutes:   0,
		description:       strings.TrimSpace(description),
		category:          category,
		isRunning:         true,
		billable:          true,
	}

	entry.AddDomainEvent(NewTimerStarted(entry))

	return entry, nil
}

// NewManualEntry records an already-finished span of work with the
// given duration. A zero startTime defaults to now minus the duration.
func NewManualEntry(taskID, userID uuid.UUID, durationMinutes int, description string, category Category, startTime time.Time) (*TimeEntry, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	category, err := normalizeCategory(category)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if startTime.IsZero() {
		startTime = now.Add(-time.Duration(durationMinutes) * time.Minute)
	}
	endTime := now

	entry := &TimeEntry{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		taskID:            taskID,
		userID:            userID,
		startTime:         startTime,
		endTime:           &endTime,
		durationMinutes:   durationMinutes,
		description:       strings.TrimSpace(description),
		category:          category,
		isRunning:         false,
		billable:          true,
	}

	entry.AddDomainEvent(NewManualEntryAdded(entry))

	return entry, nil
}

// RehydrateTimeEntry recreates a time entry from persisted state.
func RehydrateTimeEntry(
	id, taskID, userID uuid.UUID,
	startTime time.Time,
	endTime *time.Time,
	durationMinutes int,
	description string,
	category Category,
	isRunning, billable bool,
	version int,
	createdAt, updatedAt time.Time,
) *TimeEntry {
	return &TimeEntry{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		taskID:          taskID,
		userID:          userID,
		startTime:       startTime,
		endTime:         endTime,
		durationMinutes: durationMinutes,
		description:     description,
		category:        category,
		isRunning:       isRunning,
		billable:        billable,
	}
}

// Getters
func (e *TimeEntry) TaskID() uuid.UUID    { return e.taskID }
func (e *TimeEntry) UserID() uuid.UUID    { return e.userID }
func (e *TimeEntry) StartTime() time.Time { return e.startTime }
func (e *TimeEntry) EndTime() *time.Time  { return e.endTime }
func (e *TimeEntry) DurationMinutes() int { return e.durationMinutes }
func (e *TimeEntry) Description() string  { return e.description }
func (e *TimeEntry) Category() Category   { return e.category }
func (e *TimeEntry) IsRunning() bool      { return e.isRunning }
func (e *TimeEntry) IsBillable() bool     { return e.billable }

// IsOwnedBy checks if the entry belongs to the user.
func (e *TimeEntry) IsOwnedBy(userID uuid.UUID) bool {
	return e.userID == userID
}

// Stop ends the timer and computes the duration as whole minutes of the
// most recent startTime to now span, rounded. Only an explicit stop
// computes duration. Returns the minutes to add to the task's total.
func (e *TimeEntry) Stop(now time.Time) (int, error) {
	if !e.isRunning {
		return 0, ErrEntryNotRunning
	}

	minutes := int(math.Round(now.Sub(e.startTime).Minutes()))
	if minutes < 0 {
		minutes = 0
	}

	e.endTime = &now
	e.durationMinutes = minutes
	e.isRunning = false
	e.Touch()

	e.AddDomainEvent(NewTimerStopped(e))

	return minutes, nil
}

// ForceStop halts a running timer without recomputing its duration.
// Used when another timer is started for the same user; the elapsed
// span is discarded rather than reconciled.
func (e *TimeEntry) ForceStop(now time.Time) {
	if !e.isRunning {
		return
	}
	e.endTime = &now
	e.isRunning = false
	e.Touch()
}

// Pause halts the timer without setting endTime or duration. Time
// elapsed while paused is simply not counted.
func (e *TimeEntry) Pause() error {
	if !e.isRunning {
		return ErrEntryNotRunning
	}
	e.isRunning = false
	e.Touch()
	return nil
}

// Resume restarts the timer from a fresh startTime. The span before the
// pause is not carried over; only the final stop's startTime to endTime
// span is counted.
func (e *TimeEntry) Resume(now time.Time) error {
	if e.isRunning {
		return ErrEntryRunning
	}
	e.startTime = now
	e.isRunning = true
	e.Touch()
	return nil
}

// SetBillable flags whether the entry counts toward billable time.
func (e *TimeEntry) SetBillable(billable bool) {
	e.billable = billable
	e.Touch()
}

func normalizeCategory(category Category) (Category, error) {
	if category == "" {
		return CategoryDevelopment, nil
	}
	if !category.IsValid() {
		return "", ErrInvalidCategory
	}
	return category, nil
}
