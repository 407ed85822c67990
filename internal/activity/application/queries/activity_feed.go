// Package queries contains read-side handlers for the activity log.
package queries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/activity/domain"
	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

const defaultLimit = 50

// RecordDTO is the read model for an activity record.
type RecordDTO struct {
	ID          uuid.UUID       `json:"id"`
	TaskID      uuid.UUID       `json:"taskId"`
	UserID      uuid.UUID       `json:"userId"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Changes     json.RawMessage `json:"changes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toRecordDTOs(records []*domain.Record) []RecordDTO {
	dtos := make([]RecordDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, RecordDTO{
			ID:          r.ID(),
			TaskID:      r.TaskID(),
			UserID:      r.UserID(),
			Action:      string(r.Action()),
			Description: r.Description(),
			Changes:     r.Changes(),
			CreatedAt:   r.CreatedAt(),
		})
	}
	return dtos
}

// TaskActivityQuery requests the activity trail of one task.
type TaskActivityQuery struct {
	TaskID uuid.UUID
	Limit  int
}

// TaskActivityHandler handles the TaskActivityQuery.
type TaskActivityHandler struct {
	repo domain.Repository
}

// NewTaskActivityHandler creates a new TaskActivityHandler.
func NewTaskActivityHandler(repo domain.Repository) *TaskActivityHandler {
	return &TaskActivityHandler{repo: repo}
}

// Handle executes the TaskActivityQuery.
func (h *TaskActivityHandler) Handle(ctx context.Context, query TaskActivityQuery) ([]RecordDTO, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	records, err := h.repo.FindByTask(ctx, query.TaskID, limit)
	if err != nil {
		return nil, err
	}
	return toRecordDTOs(records), nil
}

// UserActivityQuery requests a user's activity trail. Members may only
// request their own.
type UserActivityQuery struct {
	UserID    uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
	Limit     int
}

// UserActivityHandler handles the UserActivityQuery.
type UserActivityHandler struct {
	repo domain.Repository
}

// NewUserActivityHandler creates a new UserActivityHandler.
func NewUserActivityHandler(repo domain.Repository) *UserActivityHandler {
	return &UserActivityHandler{repo: repo}
}

// Handle executes the UserActivityQuery.
func (h *UserActivityHandler) Handle(ctx context.Context, query UserActivityQuery) ([]RecordDTO, error) {
	if query.UserID != query.ActorID && !sharedApplication.IsAdmin(query.ActorRole) {
		return nil, sharedDomain.Forbiddenf("not allowed to view this activity")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	records, err := h.repo.FindByUser(ctx, query.UserID, limit)
	if err != nil {
		return nil, err
	}
	return toRecordDTOs(records), nil
}

// RecentActivityQuery requests the newest records across all tasks.
// Admin only.
type RecentActivityQuery struct {
	ActorRole string
	Limit     int
}

// RecentActivityHandler handles the RecentActivityQuery.
type RecentActivityHandler struct {
	repo domain.Repository
}

// NewRecentActivityHandler creates a new RecentActivityHandler.
func NewRecentActivityHandler(repo domain.Repository) *RecentActivityHandler {
	return &RecentActivityHandler{repo: repo}
}

// Handle executes the RecentActivityQuery.
func (h *RecentActivityHandler) Handle(ctx context.Context, query RecentActivityQuery) ([]RecordDTO, error) {
	if !sharedApplication.IsAdmin(query.ActorRole) {
		return nil, sharedDomain.Forbiddenf("only admins may view the global activity feed")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	records, err := h.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toRecordDTOs(records), nil
}
