package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/taskhive/internal/comments/domain"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddCommentHandler_Handle(t *testing.T) {
	taskID := uuid.New()
	authorID := uuid.New()

	t.Run("posts the comment and stages the event", func(t *testing.T) {
		repo := new(mockCommentRepo)
		tasks := new(mockTaskChecker)
		outboxRepo := new(mockCommentOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewAddCommentHandler(repo, tasks, outboxRepo, uow)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		var staged []*outbox.Message
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		tasks.On("Exists", txCtx, taskID).Return(true, nil)
		repo.On("Save", txCtx, mock.Anything).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).
			Run(func(args mock.Arguments) {
				staged = args.Get(1).([]*outbox.Message)
			}).
			Return(nil)

		mentioned := uuid.New()
		result, err := handler.Handle(ctx, AddCommentCommand{
			TaskID:   taskID,
			AuthorID: authorID,
			Content:  "please review before Friday",
			Mentions: []uuid.UUID{mentioned},
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, result.CommentID)
		require.Len(t, staged, 1)
		assert.Equal(t, "comments.comment.added", staged[0].RoutingKey)
		assert.Contains(t, string(staged[0].Payload), mentioned.String())
	})

	t.Run("unknown task fails", func(t *testing.T) {
		repo := new(mockCommentRepo)
		tasks := new(mockTaskChecker)
		outboxRepo := new(mockCommentOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewAddCommentHandler(repo, tasks, outboxRepo, uow)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		tasks.On("Exists", txCtx, taskID).Return(false, nil)

		_, err := handler.Handle(ctx, AddCommentCommand{
			TaskID:   taskID,
			AuthorID: authorID,
			Content:  "orphan comment",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrNotFound))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDeleteCommentHandler_Handle(t *testing.T) {
	authorID := uuid.New()

	buildComment := func(t *testing.T) *domain.Comment {
		comment, err := domain.NewComment(uuid.New(), authorID, "obsolete remark", nil, nil)
		require.NoError(t, err)
		comment.ClearDomainEvents()
		return comment
	}

	t.Run("author deletes own comment", func(t *testing.T) {
		repo := new(mockCommentRepo)
		outboxRepo := new(mockCommentOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteCommentHandler(repo, outboxRepo, uow)

		comment := buildComment(t)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		var staged []*outbox.Message
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, comment.ID()).Return(comment, nil)
		repo.On("Delete", txCtx, comment.ID()).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).
			Run(func(args mock.Arguments) {
				staged = args.Get(1).([]*outbox.Message)
			}).
			Return(nil)

		err := handler.Handle(ctx, DeleteCommentCommand{
			CommentID: comment.ID(),
			ActorID:   authorID,
			ActorRole: "member",
		})

		require.NoError(t, err)
		require.Len(t, staged, 1)
		assert.Equal(t, "comments.comment.deleted", staged[0].RoutingKey)
	})

	t.Run("another member is forbidden", func(t *testing.T) {
		repo := new(mockCommentRepo)
		outboxRepo := new(mockCommentOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteCommentHandler(repo, outboxRepo, uow)

		comment := buildComment(t)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, comment.ID()).Return(comment, nil)

		err := handler.Handle(ctx, DeleteCommentCommand{
			CommentID: comment.ID(),
			ActorID:   uuid.New(),
			ActorRole: "member",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrForbidden))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin deletes any comment", func(t *testing.T) {
		repo := new(mockCommentRepo)
		outboxRepo := new(mockCommentOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewDeleteCommentHandler(repo, outboxRepo, uow)

		comment := buildComment(t)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, comment.ID()).Return(comment, nil)
		repo.On("Delete", txCtx, comment.ID()).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)

		err := handler.Handle(ctx, DeleteCommentCommand{
			CommentID: comment.ID(),
			ActorID:   uuid.New(),
			ActorRole: "admin",
		})

		require.NoError(t, err)
	})
}

func TestUpdateCommentHandler_Handle(t *testing.T) {
	authorID := uuid.New()

	comment, err := domain.NewComment(uuid.New(), authorID, "first draft", nil, nil)
	require.NoError(t, err)
	comment.ClearDomainEvents()

	t.Run("admin may not edit someone else's comment", func(t *testing.T) {
		repo := new(mockCommentRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateCommentHandler(repo, uow)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, comment.ID()).Return(comment, nil)

		err := handler.Handle(ctx, UpdateCommentCommand{
			CommentID: comment.ID(),
			ActorID:   uuid.New(),
			Content:   "rewritten",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrForbidden))
	})
}
