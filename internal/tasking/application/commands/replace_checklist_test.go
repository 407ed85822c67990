package commands

import (
	"context"
	"errors"
	"testing"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReplaceChecklistHandler_Handle(t *testing.T) {
	t.Run("assignee can replace and progress follows", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewReplaceChecklistHandler(repo, outboxRepo, uow)

		assignee := uuid.New()
		task := buildTask(t, assignee)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, task.ID()).Return(task, nil)
		repo.On("Save", txCtx, task).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)

		result, err := handler.Handle(ctx, ReplaceChecklistCommand{
			TaskID:    task.ID(),
			ActorID:   assignee,
			ActorRole: sharedApplication.RoleMember,
			Checklist: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: true},
				{Text: "c"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 67, result.Progress)
		assert.Equal(t, domain.StatusInProgress, result.Status)
	})

	t.Run("admin may replace without being assigned", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewReplaceChecklistHandler(repo, outboxRepo, uow)

		task := buildTask(t, uuid.New())

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, task.ID()).Return(task, nil)
		repo.On("Save", txCtx, task).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)

		result, err := handler.Handle(ctx, ReplaceChecklistCommand{
			TaskID:    task.ID(),
			ActorID:   uuid.New(),
			ActorRole: sharedApplication.RoleAdmin,
			Checklist: []ChecklistItem{{Text: "a", Completed: true}},
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, result.Status)
	})

	t.Run("unassigned member is forbidden", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewReplaceChecklistHandler(repo, outboxRepo, uow)

		task := buildTask(t, uuid.New())

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, task.ID()).Return(task, nil)

		_, err := handler.Handle(ctx, ReplaceChecklistCommand{
			TaskID:    task.ID(),
			ActorID:   uuid.New(),
			ActorRole: sharedApplication.RoleMember,
			Checklist: []ChecklistItem{{Text: "a"}},
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrForbidden))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
