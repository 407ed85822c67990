package commands

import (
	"context"

	"github.com/felixgeelhaar/taskhive/internal/notifications/domain"
	"github.com/google/uuid"
)

// MarkAllReadCommand marks every unread notification of the actor read.
type MarkAllReadCommand struct {
	ActorID uuid.UUID
}

// MarkAllReadHandler handles the MarkAllReadCommand.
type MarkAllReadHandler struct {
	repo domain.Repository
}

// NewMarkAllReadHandler creates a new MarkAllReadHandler.
func NewMarkAllReadHandler(repo domain.Repository) *MarkAllReadHandler {
	return &MarkAllReadHandler{repo: repo}
}

// Handle executes the MarkAllReadCommand. Returns how many
// notifications were marked.
func (h *MarkAllReadHandler) Handle(ctx context.Context, cmd MarkAllReadCommand) (int64, error) {
	return h.repo.MarkAllRead(ctx, cmd.ActorID)
}
