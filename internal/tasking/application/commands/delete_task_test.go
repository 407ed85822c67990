package commands

import (
	"context"
	"errors"
	"testing"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeleteTaskHandler_Handle(t *testing.T) {
	t.Run("admin deletes task and cascades comments", func(t *testing.T) {
		repo := new(mockTaskRepo)
		comments := new(mockCommentPurger)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteTaskHandler(repo, comments, outboxRepo, uow)

		task := buildTask(t)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		var staged []*outbox.Message
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, task.ID()).Return(task, nil)
		comments.On("DeleteByTask", txCtx, task.ID()).Return(int64(3), nil)
		repo.On("Delete", txCtx, task.ID()).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).
			Run(func(args mock.Arguments) {
				staged = args.Get(1).([]*outbox.Message)
			}).
			Return(nil)

		err := handler.Handle(ctx, DeleteTaskCommand{
			TaskID:    task.ID(),
			ActorID:   uuid.New(),
			ActorRole: sharedApplication.RoleAdmin,
		})

		require.NoError(t, err)
		require.Len(t, staged, 1)
		assert.Equal(t, "tasking.task.deleted", staged[0].RoutingKey)

		repo.AssertExpectations(t)
		comments.AssertExpectations(t)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		repo := new(mockTaskRepo)
		comments := new(mockCommentPurger)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteTaskHandler(repo, comments, outboxRepo, uow)

		err := handler.Handle(context.Background(), DeleteTaskCommand{
			TaskID:    uuid.New(),
			ActorID:   uuid.New(),
			ActorRole: sharedApplication.RoleMember,
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrForbidden))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
