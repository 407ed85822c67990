package commands

import (
	"context"

	"github.com/felixgeelhaar/taskhive/internal/comments/domain"
	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/google/uuid"
)

// AddReplyCommand appends a reply to a comment.
type AddReplyCommand struct {
	CommentID uuid.UUID
	AuthorID  uuid.UUID
	Content   string
}

// AddReplyResult contains the result of adding a reply.
type AddReplyResult struct {
	ReplyID uuid.UUID
}

// AddReplyHandler handles the AddReplyCommand.
type AddReplyHandler struct {
	commentRepo domain.Repository
	uow         sharedApplication.UnitOfWork
}

// NewAddReplyHandler creates a new AddReplyHandler.
func NewAddReplyHandler(commentRepo domain.Repository, uow sharedApplication.UnitOfWork) *AddReplyHandler {
	return &AddReplyHandler{commentRepo: commentRepo, uow: uow}
}

// Handle executes the AddReplyCommand.
func (h *AddReplyHandler) Handle(ctx context.Context, cmd AddReplyCommand) (*AddReplyResult, error) {
	var result *AddReplyResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		comment, err := h.commentRepo.FindByID(txCtx, cmd.CommentID)
		if err != nil {
			return err
		}

		reply, err := comment.AddReply(cmd.AuthorID, cmd.Content)
		if err != nil {
			return err
		}

		if err := h.commentRepo.Save(txCtx, comment); err != nil {
			return err
		}

		result = &AddReplyResult{ReplyID: reply.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
