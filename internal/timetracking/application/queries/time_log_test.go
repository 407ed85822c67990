package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEntryRepo struct {
	mock.Mock
}

func (m *mockEntryRepo) Save(ctx context.Context, entry *domain.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockEntryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}

func (m *mockEntryRepo) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TimeEntry, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TimeEntry), args.Error(1)
}

func (m *mockEntryRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TimeEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TimeEntry), args.Error(1)
}

func (m *mockEntryRepo) StopAllRunning(ctx context.Context, userID uuid.UUID, endTime time.Time) (int64, error) {
	args := m.Called(ctx, userID, endTime)
	return args.Get(0).(int64), args.Error(1)
}

func stoppedEntry(t *testing.T, taskID, userID uuid.UUID, minutes int, billable bool) *domain.TimeEntry {
	t.Helper()
	now := time.Now().UTC()
	start := now.Add(-time.Duration(minutes) * time.Minute)
	return domain.RehydrateTimeEntry(uuid.New(), taskID, userID, start, &now, minutes, "", domain.CategoryDevelopment, false, billable, 1, start, now)
}

func TestTaskTimeLogHandler_Handle(t *testing.T) {
	taskID := uuid.New()
	userID := uuid.New()

	repo := new(mockEntryRepo)
	handler := NewTaskTimeLogHandler(repo)

	running, err := domain.NewRunningEntry(taskID, userID, "", "")
	require.NoError(t, err)

	repo.On("FindByTask", mock.Anything, taskID).Return([]*domain.TimeEntry{
		stoppedEntry(t, taskID, userID, 30, true),
		stoppedEntry(t, taskID, userID, 15, false),
		running,
	}, nil)

	log, err := handler.Handle(context.Background(), TaskTimeLogQuery{TaskID: taskID})

	require.NoError(t, err)
	assert.Len(t, log.Entries, 3)
	assert.Equal(t, 45, log.TotalMinutes)
	assert.Equal(t, 30, log.BillableMinutes)
}

func TestUserTimeLogHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("member reads own log", func(t *testing.T) {
		repo := new(mockEntryRepo)
		handler := NewUserTimeLogHandler(repo)

		repo.On("FindByUser", mock.Anything, userID).Return([]*domain.TimeEntry{
			stoppedEntry(t, uuid.New(), userID, 60, true),
		}, nil)

		log, err := handler.Handle(context.Background(), UserTimeLogQuery{
			UserID:    userID,
			ActorID:   userID,
			ActorRole: sharedApplication.RoleMember,
		})

		require.NoError(t, err)
		assert.Equal(t, 60, log.TotalMinutes)
	})

	t.Run("member cannot read another user's log", func(t *testing.T) {
		repo := new(mockEntryRepo)
		handler := NewUserTimeLogHandler(repo)

		_, err := handler.Handle(context.Background(), UserTimeLogQuery{
			UserID:    userID,
			ActorID:   uuid.New(),
			ActorRole: sharedApplication.RoleMember,
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrForbidden))
		repo.AssertNotCalled(t, "FindByUser", mock.Anything, mock.Anything)
	})

	t.Run("admin reads any log", func(t *testing.T) {
		repo := new(mockEntryRepo)
		handler := NewUserTimeLogHandler(repo)

		repo.On("FindByUser", mock.Anything, userID).Return([]*domain.TimeEntry{}, nil)

		log, err := handler.Handle(context.Background(), UserTimeLogQuery{
			UserID:    userID,
			ActorID:   uuid.New(),
			ActorRole: sharedApplication.RoleAdmin,
		})

		require.NoError(t, err)
		assert.Empty(t, log.Entries)
	})
}
