package commands

import (
	"context"

	"github.com/felixgeelhaar/taskhive/internal/comments/domain"
	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteCommentCommand removes a comment. The author or an admin may
// delete.
type DeleteCommentCommand struct {
	CommentID uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
}

// DeleteCommentHandler handles the DeleteCommentCommand.
type DeleteCommentHandler struct {
	commentRepo domain.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewDeleteCommentHandler creates a new DeleteCommentHandler.
func NewDeleteCommentHandler(commentRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteCommentHandler {
	return &DeleteCommentHandler{commentRepo: commentRepo, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the DeleteCommentCommand.
func (h *DeleteCommentHandler) Handle(ctx context.Context, cmd DeleteCommentCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		comment, err := h.commentRepo.FindByID(txCtx, cmd.CommentID)
		if err != nil {
			return err
		}

		if !comment.IsAuthoredBy(cmd.ActorID) && !sharedApplication.IsAdmin(cmd.ActorRole) {
			return sharedDomain.Forbiddenf("not allowed to delete this comment")
		}

		if err := h.commentRepo.Delete(txCtx, cmd.CommentID); err != nil {
			return err
		}

		event := domain.NewCommentDeleted(comment)
		return stageEvents(txCtx, h.outboxRepo, []sharedDomain.DomainEvent{event}, cmd.ActorID)
	})
}
