package commands

import (
	"context"

	"github.com/felixgeelhaar/taskhive/internal/notifications/domain"
	"github.com/google/uuid"
)

// ClearAllCommand removes every notification of the actor.
type ClearAllCommand struct {
	ActorID uuid.UUID
}

// ClearAllHandler handles the ClearAllCommand.
type ClearAllHandler struct {
	repo domain.Repository
}

// NewClearAllHandler creates a new ClearAllHandler.
func NewClearAllHandler(repo domain.Repository) *ClearAllHandler {
	return &ClearAllHandler{repo: repo}
}

// Handle executes the ClearAllCommand. Returns how many notifications
// were removed.
func (h *ClearAllHandler) Handle(ctx context.Context, cmd ClearAllCommand) (int64, error) {
	return h.repo.DeleteAllForUser(ctx, cmd.ActorID)
}
