package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStatsReader struct {
	mock.Mock
}

func (m *mockStatsReader) CountByStatus(ctx context.Context, assigneeID uuid.UUID) (map[taskingDomain.Status]int, error) {
	args := m.Called(ctx, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[taskingDomain.Status]int), args.Error(1)
}

func (m *mockStatsReader) CountByPriority(ctx context.Context, assigneeID uuid.UUID) (map[taskingDomain.Priority]int, error) {
	args := m.Called(ctx, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[taskingDomain.Priority]int), args.Error(1)
}

func (m *mockStatsReader) CountOverdue(ctx context.Context, now time.Time, assigneeID uuid.UUID) (int, error) {
	args := m.Called(ctx, now, assigneeID)
	return args.Int(0), args.Error(1)
}

func (m *mockStatsReader) FindRecent(ctx context.Context, assigneeID uuid.UUID, limit int) ([]RecentTaskDTO, error) {
	args := m.Called(ctx, assigneeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RecentTaskDTO), args.Error(1)
}

func statusCounts(pending, inProgress, completed int) map[taskingDomain.Status]int {
	return map[taskingDomain.Status]int{
		taskingDomain.StatusPending:    pending,
		taskingDomain.StatusInProgress: inProgress,
		taskingDomain.StatusCompleted:  completed,
	}
}

func priorityCounts(low, medium, high int) map[taskingDomain.Priority]int {
	return map[taskingDomain.Priority]int{
		taskingDomain.PriorityLow:    low,
		taskingDomain.PriorityMedium: medium,
		taskingDomain.PriorityHigh:   high,
	}
}

func TestAdminDashboardHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates the unscoped dashboard", func(t *testing.T) {
		stats := new(mockStatsReader)
		recent := []RecentTaskDTO{{ID: uuid.New(), Title: "Ship the release"}}

		stats.On("CountByStatus", ctx, uuid.Nil).Return(statusCounts(4, 3, 5), nil)
		stats.On("CountByPriority", ctx, uuid.Nil).Return(priorityCounts(2, 6, 4), nil)
		stats.On("CountOverdue", ctx, mock.AnythingOfType("time.Time"), uuid.Nil).Return(2, nil)
		stats.On("FindRecent", ctx, uuid.Nil, 10).Return(recent, nil)

		handler := NewAdminDashboardHandler(stats)
		dashboard, err := handler.Handle(ctx, AdminDashboardQuery{ActorRole: sharedApplication.RoleAdmin})

		require.NoError(t, err)
		assert.Equal(t, 12, dashboard.Statistics.TotalTasks)
		assert.Equal(t, 4, dashboard.Statistics.PendingTasks)
		assert.Equal(t, 5, dashboard.Statistics.CompletedTasks)
		assert.Equal(t, 2, dashboard.Statistics.OverdueTasks)
		assert.Equal(t, 12, dashboard.TaskDistribution["All"])
		assert.Equal(t, 3, dashboard.TaskDistribution["In-Progress"])
		assert.Equal(t, 6, dashboard.PriorityLevels["Medium"])
		assert.Equal(t, recent, dashboard.RecentTasks)
	})

	t.Run("members are refused", func(t *testing.T) {
		stats := new(mockStatsReader)

		handler := NewAdminDashboardHandler(stats)
		_, err := handler.Handle(ctx, AdminDashboardQuery{ActorRole: sharedApplication.RoleMember})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrForbidden))
		stats.AssertNotCalled(t, "CountByStatus", mock.Anything, mock.Anything)
	})
}

func TestUserDashboardHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("scopes every aggregate to the user", func(t *testing.T) {
		userID := uuid.New()
		stats := new(mockStatsReader)

		stats.On("CountByStatus", ctx, userID).Return(statusCounts(1, 1, 0), nil)
		stats.On("CountByPriority", ctx, userID).Return(priorityCounts(0, 1, 1), nil)
		stats.On("CountOverdue", ctx, mock.AnythingOfType("time.Time"), userID).Return(1, nil)
		stats.On("FindRecent", ctx, userID, 10).Return([]RecentTaskDTO{}, nil)

		handler := NewUserDashboardHandler(stats)
		dashboard, err := handler.Handle(ctx, UserDashboardQuery{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, 2, dashboard.Statistics.TotalTasks)
		assert.Equal(t, 2, dashboard.TaskDistribution["All"])
		stats.AssertExpectations(t)
	})

	t.Run("propagates reader failures", func(t *testing.T) {
		userID := uuid.New()
		stats := new(mockStatsReader)

		stats.On("CountByStatus", ctx, userID).Return(nil, sharedDomain.Storagef("count tasks", errors.New("connection reset")))

		handler := NewUserDashboardHandler(stats)
		_, err := handler.Handle(ctx, UserDashboardQuery{UserID: userID})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrStorage))
	})
}
