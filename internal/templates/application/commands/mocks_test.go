package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/felixgeelhaar/taskhive/internal/templates/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testCtxKey string

func testTxContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, testCtxKey("tx"), "transaction")
}

// mockTemplateRepo is a mock implementation of domain.Repository.
type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) Save(ctx context.Context, template *domain.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockTemplateRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *mockTemplateRepo) FindAccessible(ctx context.Context, userID uuid.UUID, isAdmin bool) ([]*domain.Template, error) {
	args := m.Called(ctx, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Template), args.Error(1)
}

func (m *mockTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTemplateRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockTaskRepo is a mock implementation of the tasking repository.
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, task *taskingDomain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*taskingDomain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*taskingDomain.Task), args.Error(1)
}

func (m *mockTaskRepo) List(ctx context.Context, filter taskingDomain.ListFilter) ([]*taskingDomain.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*taskingDomain.Task), args.Error(1)
}

func (m *mockTaskRepo) FindOverdue(ctx context.Context, now time.Time, assigneeID uuid.UUID) ([]*taskingDomain.Task, error) {
	args := m.Called(ctx, now, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*taskingDomain.Task), args.Error(1)
}

func (m *mockTaskRepo) CountByStatus(ctx context.Context, assigneeID uuid.UUID) (map[taskingDomain.Status]int, error) {
	args := m.Called(ctx, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[taskingDomain.Status]int), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTaskRepo) IncrementTimeTracked(ctx context.Context, id uuid.UUID, minutes int) error {
	args := m.Called(ctx, id, minutes)
	return args.Error(0)
}

// mockTemplateOutboxRepo is a mock implementation of outbox.Repository.
type mockTemplateOutboxRepo struct {
	mock.Mock
}

func (m *mockTemplateOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockTemplateOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockTemplateOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockTemplateOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTemplateOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, errMsg, nextRetryAt)
	return args.Error(0)
}

func (m *mockTemplateOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockTemplateOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
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
