package commands

import (
	"context"

	"github.com/felixgeelhaar/taskhive/internal/comments/domain"
	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/google/uuid"
)

// ToggleLikeCommand likes a comment, or unlikes it when the actor
// already liked it.
type ToggleLikeCommand struct {
	CommentID uuid.UUID
	ActorID   uuid.UUID
}

// ToggleLikeResult contains the result of toggling a like.
type ToggleLikeResult struct {
	Liked     bool
	LikeCount int
}

// ToggleLikeHandler handles the ToggleLikeCommand.
type ToggleLikeHandler struct {
	commentRepo domain.Repository
	uow         sharedApplication.UnitOfWork
}

// NewToggleLikeHandler creates a new ToggleLikeHandler.
func NewToggleLikeHandler(commentRepo domain.Repository, uow sharedApplication.UnitOfWork) *ToggleLikeHandler {
	return &ToggleLikeHandler{commentRepo: commentRepo, uow: uow}
}

// Handle executes the ToggleLikeCommand.
func (h *ToggleLikeHandler) Handle(ctx context.Context, cmd ToggleLikeCommand) (*ToggleLikeResult, error) {
	var result *ToggleLikeResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		comment, err := h.commentRepo.FindByID(txCtx, cmd.CommentID)
		if err != nil {
			return err
		}

		liked := comment.ToggleLike(cmd.ActorID)

		if err := h.commentRepo.Save(txCtx, comment); err != nil {
			return err
		}

		result = &ToggleLikeResult{Liked: liked, LikeCount: len(comment.Likes())}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
