package commands

import (
	"context"

	"github.com/felixgeelhaar/taskhive/internal/comments/domain"
	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// AddCommentCommand posts a comment on a task.
type AddCommentCommand struct {
	TaskID      uuid.UUID
	AuthorID    uuid.UUID
	Content     string
	Mentions    []uuid.UUID
	Attachments []string
}

// AddCommentResult contains the result of posting a comment.
type AddCommentResult struct {
	CommentID uuid.UUID
}

// AddCommentHandler handles the AddCommentCommand.
type AddCommentHandler struct {
	commentRepo domain.Repository
	tasks       TaskChecker
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewAddCommentHandler creates a new AddCommentHandler.
func NewAddCommentHandler(commentRepo domain.Repository, tasks TaskChecker, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *AddCommentHandler {
	return &AddCommentHandler{
		commentRepo: commentRepo,
		tasks:       tasks,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the AddCommentCommand.
func (h *AddCommentHandler) Handle(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error) {
	var result *AddCommentResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := ensureTaskExists(txCtx, h.tasks, cmd.TaskID); err != nil {
			return err
		}

		comment, err := domain.NewComment(cmd.TaskID, cmd.AuthorID, cmd.Content, cmd.Mentions, cmd.Attachments)
		if err != nil {
			return err
		}

		if err := h.commentRepo.Save(txCtx, comment); err != nil {
			return err
		}

		if err := stageEvents(txCtx, h.outboxRepo, comment.DomainEvents(), cmd.AuthorID); err != nil {
			return err
		}

		result = &AddCommentResult{CommentID: comment.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
