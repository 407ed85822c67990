package commands

import (
	"context"

	"github.com/felixgeelhaar/taskhive/internal/notifications/domain"
	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

// DeleteNotificationCommand removes a notification from the inbox.
type DeleteNotificationCommand struct {
	NotificationID uuid.UUID
	ActorID        uuid.UUID
}

// DeleteNotificationHandler handles the DeleteNotificationCommand.
type DeleteNotificationHandler struct {
	repo domain.Repository
	uow  sharedApplication.UnitOfWork
}

// NewDeleteNotificationHandler creates a new DeleteNotificationHandler.
func NewDeleteNotificationHandler(repo domain.Repository, uow sharedApplication.UnitOfWork) *DeleteNotificationHandler {
	return &DeleteNotificationHandler{repo: repo, uow: uow}
}

// Handle executes the DeleteNotificationCommand.
func (h *DeleteNotificationHandler) Handle(ctx context.Context, cmd DeleteNotificationCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		notification, err := h.repo.FindByID(txCtx, cmd.NotificationID)
		if err != nil {
			return err
		}

		if !notification.IsOwnedBy(cmd.ActorID) {
			return sharedDomain.Forbiddenf("not allowed to delete this notification")
		}

		return h.repo.Delete(txCtx, cmd.NotificationID)
	})
}
