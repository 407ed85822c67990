package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/comments/domain"
	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

// UpdateCommentCommand edits a comment's content and mentions. Only the
// author may edit; admins may not rewrite other people's words.
type UpdateCommentCommand struct {
	CommentID uuid.UUID
	ActorID   uuid.UUID
	Content   string
	Mentions  []uuid.UUID
}

// UpdateCommentHandler handles the UpdateCommentCommand.
type UpdateCommentHandler struct {
	commentRepo domain.Repository
	uow         sharedApplication.UnitOfWork
}

// NewUpdateCommentHandler creates a new UpdateCommentHandler.
func NewUpdateCommentHandler(commentRepo domain.Repository, uow sharedApplication.UnitOfWork) *UpdateCommentHandler {
	return &UpdateCommentHandler{commentRepo: commentRepo, uow: uow}
}

// Handle executes the UpdateCommentCommand.
func (h *UpdateCommentHandler) Handle(ctx context.Context, cmd UpdateCommentCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		comment, err := h.commentRepo.FindByID(txCtx, cmd.CommentID)
		if err != nil {
			return err
		}

		if !comment.IsAuthoredBy(cmd.ActorID) {
			return sharedDomain.Forbiddenf("only the author may edit a comment")
		}

		if err := comment.Edit(cmd.Content, cmd.Mentions, time.Now().UTC()); err != nil {
			return err
		}

		return h.commentRepo.Save(txCtx, comment)
	})
}
