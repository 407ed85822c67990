package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

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

type ctxKey string

func TestWithUnitOfWork(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, ctxKey("tx"), "tx")

	t.Run("commits on success", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)

		var sawTxCtx bool
		err := WithUnitOfWork(ctx, uow, func(c context.Context) error {
			sawTxCtx = c == txCtx
			return nil
		})

		assert.NoError(t, err)
		assert.True(t, sawTxCtx)
		uow.AssertExpectations(t)
	})

	t.Run("rolls back on handler error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)

		boom := errors.New("boom")
		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return boom })

		assert.ErrorIs(t, err, boom)
		uow.AssertExpectations(t)
	})

	t.Run("propagates begin failure", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(ctx, errors.New("no connection"))

		err := WithUnitOfWork(ctx, uow, func(context.Context) error {
			t.Fatal("body must not run")
			return nil
		})

		assert.Error(t, err)
		uow.AssertExpectations(t)
	})
}
