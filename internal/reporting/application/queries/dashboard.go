// Package queries contains the read-only dashboard aggregations.
package queries

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// recentTaskCount is how many of the newest tasks a dashboard shows.
const recentTaskCount = 10

// RecentTaskDTO is the slim task row shown on a dashboard.
type RecentTaskDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	DueDate   time.Time `json:"dueDate"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatisticsDTO carries the headline counters of a dashboard.
type StatisticsDTO struct {
	TotalTasks     int `json:"totalTasks"`
	PendingTasks   int `json:"pendingTasks"`
	CompletedTasks int `json:"completedTasks"`
	OverdueTasks   int `json:"overdueTasks"`
}

// DashboardDTO is the full dashboard read model. TaskDistribution holds
// one entry per status plus an "All" total; PriorityLevels holds one
// entry per priority. Both always carry every enum value, zero included.
type DashboardDTO struct {
	Statistics       StatisticsDTO   `json:"statistics"`
	TaskDistribution map[string]int  `json:"taskDistribution"`
	PriorityLevels   map[string]int  `json:"taskPriorityLevels"`
	RecentTasks      []RecentTaskDTO `json:"recentTasks"`
}

// StatsReader computes dashboard aggregates from the current store
// state. A Nil assigneeID means unscoped.
type StatsReader interface {
	CountByStatus(ctx context.Context, assigneeID uuid.UUID) (map[taskingDomain.Status]int, error)
	CountByPriority(ctx context.Context, assigneeID uuid.UUID) (map[taskingDomain.Priority]int, error)
	CountOverdue(ctx context.Context, now time.Time, assigneeID uuid.UUID) (int, error)
	FindRecent(ctx context.Context, assigneeID uuid.UUID, limit int) ([]RecentTaskDTO, error)
}

func buildDashboard(ctx context.Context, stats StatsReader, assigneeID uuid.UUID) (*DashboardDTO, error) {
	byStatus, err := stats.CountByStatus(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	byPriority, err := stats.CountByPriority(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	overdue, err := stats.CountOverdue(ctx, time.Now().UTC(), assigneeID)
	if err != nil {
		return nil, err
	}
	recent, err := stats.FindRecent(ctx, assigneeID, recentTaskCount)
	if err != nil {
		return nil, err
	}

	total := 0
	distribution := make(map[string]int, len(byStatus)+1)
	for status, count := range byStatus {
		distribution[string(status)] = count
		total += count
	}
	distribution["All"] = total

	levels := make(map[string]int, len(byPriority))
	for priority, count := range byPriority {
		levels[string(priority)] = count
	}

	return &DashboardDTO{
		Statistics: StatisticsDTO{
			TotalTasks:     total,
			PendingTasks:   byStatus[taskingDomain.StatusPending],
			CompletedTasks: byStatus[taskingDomain.StatusCompleted],
			OverdueTasks:   overdue,
		},
		TaskDistribution: distribution,
		PriorityLevels:   levels,
		RecentTasks:      recent,
	}, nil
}

// AdminDashboardQuery requests the unscoped dashboard over all tasks.
type AdminDashboardQuery struct {
	ActorRole string
}

// AdminDashboardHandler handles the AdminDashboardQuery.
type AdminDashboardHandler struct {
	stats StatsReader
}

// NewAdminDashboardHandler creates a new AdminDashboardHandler.
func NewAdminDashboardHandler(stats StatsReader) *AdminDashboardHandler {
	return &AdminDashboardHandler{stats: stats}
}

// Handle executes the AdminDashboardQuery.
func (h *AdminDashboardHandler) Handle(ctx context.Context, query AdminDashboardQuery) (*DashboardDTO, error) {
	if !sharedApplication.IsAdmin(query.ActorRole) {
		return nil, sharedDomain.Forbiddenf("only admins may view the full dashboard")
	}
	return buildDashboard(ctx, h.stats, uuid.Nil)
}

// UserDashboardQuery requests the dashboard scoped to the caller's
// assigned tasks.
type UserDashboardQuery struct {
	UserID uuid.UUID
}

// UserDashboardHandler handles the UserDashboardQuery.
type UserDashboardHandler struct {
	stats StatsReader
}

// NewUserDashboardHandler creates a new UserDashboardHandler.
func NewUserDashboardHandler(stats StatsReader) *UserDashboardHandler {
	return &UserDashboardHandler{stats: stats}
}

// Handle executes the UserDashboardQuery.
func (h *UserDashboardHandler) Handle(ctx context.Context, query UserDashboardQuery) (*DashboardDTO, error) {
	return buildDashboard(ctx, h.stats, query.UserID)
}
