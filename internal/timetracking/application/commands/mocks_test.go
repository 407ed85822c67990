package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testCtxKey string

func testTxContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, testCtxKey("tx"), "transaction")
}

// mockEntryRepo is a mock implementation of domain.Repository.
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

// mockTaskTracker is a mock implementation of TaskTracker.
type mockTaskTracker struct {
	mock.Mock
}

func (m *mockTaskTracker) Exists(ctx context.Context, taskID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTaskTracker) IncrementTimeTracked(ctx context.Context, taskID uuid.UUID, minutes int) error {
	args := m.Called(ctx, taskID, minutes)
	return args.Error(0)
}

// mockEntryOutboxRepo is a mock implementation of outbox.Repository.
type mockEntryOutboxRepo struct {
	mock.Mock
}

func (m *mockEntryOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockEntryOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockEntryOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockEntryOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEntryOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, errMsg, nextRetryAt)
	return args.Error(0)
}

func (m *mockEntryOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockEntryOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// mockUnitOfWork is a mock implementation of UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// passthroughLocker runs fn directly, for tests that are not about
// lock behavior.
type passthroughLocker struct{}

func (passthroughLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
