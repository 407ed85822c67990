// Package commands contains the write-side handlers for notifications.
package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/notifications/domain"
	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

// MarkReadCommand marks a single notification read.
type MarkReadCommand struct {
	NotificationID uuid.UUID
	ActorID        uuid.UUID
}

// MarkReadHandler handles the MarkReadCommand.
type MarkReadHandler struct {
	repo domain.Repository
	uow  sharedApplication.UnitOfWork
}

// NewMarkReadHandler creates a new MarkReadHandler.
func NewMarkReadHandler(repo domain.Repository, uow sharedApplication.UnitOfWork) *MarkReadHandler {
	return &MarkReadHandler{repo: repo, uow: uow}
}

// Handle executes the MarkReadCommand.
func (h *MarkReadHandler) Handle(ctx context.Context, cmd MarkReadCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		notification, err := h.repo.FindByID(txCtx, cmd.NotificationID)
		if err != nil {
			return err
		}

		if !notification.IsOwnedBy(cmd.ActorID) {
			return sharedDomain.Forbiddenf("not allowed to modify this notification")
		}

		notification.MarkRead(time.Now().UTC())
		return h.repo.Save(txCtx, notification)
	})
}
