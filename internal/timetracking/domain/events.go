package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "TimeEntry"

// TimerStarted is emitted when a timer begins running.
type TimerStarted struct {
	sharedDomain.BaseEvent
	EntryID   uuid.UUID `json:"entry_id"`
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	Category  string    `json:"category"`
}

// NewTimerStarted creates a TimerStarted event.
func NewTimerStarted(e *TimeEntry) *TimerStarted {
	return &TimerStarted{
		BaseEvent: sharedDomain.NewBaseEvent(e.ID(), aggregateType, "timetracking.entry.started"),
		EntryID:   e.ID(),
		TaskID:    e.TaskID(),
		UserID:    e.UserID(),
		StartTime: e.StartTime(),
		Category:  string(e.Category()),
	}
}

// TimerStopped is emitted when a timer is explicitly stopped.
type TimerStopped struct {
	sharedDomain.BaseEvent
	EntryID         uuid.UUID `json:"entry_id"`
	TaskID          uuid.UUID `json:"task_id"`
	UserID          uuid.UUID `json:"user_id"`
	DurationMinutes int       `json:"duration_minutes"`
}

// NewTimerStopped creates a TimerStopped event.
func NewTimerStopped(e *TimeEntry) *TimerStopped {
	return &TimerStopped{
		BaseEvent:       sharedDomain.NewBaseEvent(e.ID(), aggregateType, "timetracking.entry.stopped"),
		EntryID:         e.ID(),
		TaskID:          e.TaskID(),
		UserID:          e.UserID(),
		DurationMinutes: e.DurationMinutes(),
	}
}

// ManualEntryAdded is emitted when a finished span is recorded directly.
type ManualEntryAdded struct {
	sharedDomain.BaseEvent
	EntryID         uuid.UUID `json:"entry_id"`
	TaskID          uuid.UUID `json:"task_id"`
	UserID          uuid.UUID `json:"user_id"`
	DurationMinutes int       `json:"duration_minutes"`
}

// NewManualEntryAdded creates a ManualEntryAdded event.
func NewManualEntryAdded(e *TimeEntry) *ManualEntryAdded {
	return &ManualEntryAdded{
		BaseEvent:       sharedDomain.NewBaseEvent(e.ID(), aggregateType, "timetracking.entry.manual_added"),
		EntryID:         e.ID(),
		TaskID:          e.TaskID(),
		UserID:          e.UserID(),
		DurationMinutes: e.DurationMinutes(),
	}
}
