package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, errMsg, nextRetryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestProcessorProcessOnce(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultProcessorConfig()

	t.Run("publishes pending messages and marks them published", func(t *testing.T) {
		repo := new(mockOutboxRepo)
		pub := new(mockPublisher)
		processor := NewProcessor(repo, pub, cfg, nil)

		msg := &Message{ID: 1, EventID: uuid.New(), RoutingKey: "tasking.task.created", Payload: []byte(`{}`)}
		repo.On("GetUnpublished", ctx, cfg.BatchSize).Return([]*Message{msg}, nil)
		pub.On("Publish", ctx, "tasking.task.created", mock.Anything).Return(nil)
		repo.On("MarkPublished", ctx, int64(1)).Return(nil)

		assert.NoError(t, processor.ProcessOnce(ctx))
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("schedules retry on publish failure", func(t *testing.T) {
		repo := new(mockOutboxRepo)
		pub := new(mockPublisher)
		processor := NewProcessor(repo, pub, cfg, nil)

		msg := &Message{ID: 2, EventID: uuid.New(), RoutingKey: "tasking.task.assigned"}
		repo.On("GetUnpublished", ctx, cfg.BatchSize).Return([]*Message{msg}, nil)
		pub.On("Publish", ctx, "tasking.task.assigned", mock.Anything).Return(errors.New("broker down"))
		repo.On("MarkFailed", ctx, int64(2), "broker down", mock.AnythingOfType("time.Time")).Return(nil)

		assert.NoError(t, processor.ProcessOnce(ctx))
		repo.AssertExpectations(t)
	})

	t.Run("dead-letters after max retries", func(t *testing.T) {
		repo := new(mockOutboxRepo)
		pub := new(mockPublisher)
		processor := NewProcessor(repo, pub, cfg, nil)

		msg := &Message{ID: 3, RetryCount: cfg.MaxRetries - 1, RoutingKey: "tasking.task.deleted"}
		repo.On("GetUnpublished", ctx, cfg.BatchSize).Return([]*Message{msg}, nil)
		pub.On("Publish", ctx, "tasking.task.deleted", mock.Anything).Return(errors.New("still down"))
		repo.On("MarkDead", ctx, int64(3), "still down").Return(nil)

		assert.NoError(t, processor.ProcessOnce(ctx))
		repo.AssertExpectations(t)
	})

	t.Run("propagates repository read failure", func(t *testing.T) {
		repo := new(mockOutboxRepo)
		pub := new(mockPublisher)
		processor := NewProcessor(repo, pub, cfg, nil)

		repo.On("GetUnpublished", ctx, cfg.BatchSize).Return(nil, errors.New("query failed"))

		assert.Error(t, processor.ProcessOnce(ctx))
	})
}

func TestRetryBackoff(t *testing.T) {
	processor := NewProcessor(nil, nil, ProcessorConfig{
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}, nil)

	assert.Equal(t, time.Second, processor.retryBackoff(1))
	assert.Equal(t, 2*time.Second, processor.retryBackoff(2))
	assert.Equal(t, 8*time.Second, processor.retryBackoff(4))
	assert.Equal(t, time.Minute, processor.retryBackoff(30))
}
