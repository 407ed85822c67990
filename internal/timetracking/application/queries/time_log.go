// Package queries contains read-side handlers for time tracking.
package queries

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/google/uuid"
)

// TimeEntryDTO is the read model for a time entry.
type TimeEntryDTO struct {
	ID              uuid.UUID  `json:"id"`
	TaskID          uuid.UUID  `json:"taskId"`
	UserID          uuid.UUID  `json:"userId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	Description     string     `json:"description,omitempty"`
	Category        string     `json:"category"`
	IsRunning       bool       `json:"isRunning"`
	Billable        bool       `json:"billable"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// TimeLogDTO is a list of entries with duration totals. Running entries
// contribute nothing to the totals until they are stopped.
type TimeLogDTO struct {
	Entries         []TimeEntryDTO `json:"entries"`
	TotalMinutes    int            `json:"totalMinutes"`
	BillableMinutes int            `json:"billableMinutes"`
}

func toTimeEntryDTO(entry *domain.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:              entry.ID(),
		TaskID:          entry.TaskID(),
		UserID:          entry.UserID(),
		StartTime:       entry.StartTime(),
		EndTime:         entry.EndTime(),
		DurationMinutes: entry.DurationMinutes(),
		Description:     entry.Description(),
		Category:        string(entry.Category()),
		IsRunning:       entry.IsRunning(),
		Billable:        entry.IsBillable(),
		CreatedAt:       entry.CreatedAt(),
	}
}

func toTimeLogDTO(entries []*domain.TimeEntry) *TimeLogDTO {
	log := &TimeLogDTO{Entries: make([]TimeEntryDTO, 0, len(entries))}
	for _, entry := range entries {
		log.Entries = append(log.Entries, toTimeEntryDTO(entry))
		log.TotalMinutes += entry.DurationMinutes()
		if entry.IsBillable() {
			log.BillableMinutes += entry.DurationMinutes()
		}
	}
	return log
}

// TaskTimeLogQuery requests all time entries for a task.
type TaskTimeLogQuery struct {
	TaskID uuid.UUID
}

// TaskTimeLogHandler handles the TaskTimeLogQuery.
type TaskTimeLogHandler struct {
	entryRepo domain.Repository
}

// NewTaskTimeLogHandler creates a new TaskTimeLogHandler.
func NewTaskTimeLogHandler(entryRepo domain.Repository) *TaskTimeLogHandler {
	return &TaskTimeLogHandler{entryRepo: entryRepo}
}

// Handle executes the TaskTimeLogQuery.
func (h *TaskTimeLogHandler) Handle(ctx context.Context, query TaskTimeLogQuery) (*TimeLogDTO, error) {
	entries, err := h.entryRepo.FindByTask(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	return toTimeLogDTO(entries), nil
}

// UserTimeLogQuery requests all time entries for a user. Members may
// only request their own log.
type UserTimeLogQuery struct {
	UserID    uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
}

// UserTimeLogHandler handles the UserTimeLogQuery.
type UserTimeLogHandler struct {
	entryRepo domain.Repository
}

// NewUserTimeLogHandler creates a new UserTimeLogHandler.
func NewUserTimeLogHandler(entryRepo domain.Repository) *UserTimeLogHandler {
	return &UserTimeLogHandler{entryRepo: entryRepo}
}

// Handle executes the UserTimeLogQuery.
func (h *UserTimeLogHandler) Handle(ctx context.Context, query UserTimeLogQuery) (*TimeLogDTO, error) {
	if query.UserID != query.ActorID && !sharedApplication.IsAdmin(query.ActorRole) {
		return nil, sharedDomain.Forbiddenf("not allowed to view this time log")
	}

	entries, err := h.entryRepo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	return toTimeLogDTO(entries), nil
}
