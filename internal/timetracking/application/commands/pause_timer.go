package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/google/uuid"
)

// PauseTimerCommand pauses a running timer. The entry keeps its start
// time and accrues nothing while paused.
type PauseTimerCommand struct {
	EntryID   uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
}

// PauseTimerHandler handles the PauseTimerCommand.
type PauseTimerHandler struct {
	entryRepo domain.Repository
	uow       sharedApplication.UnitOfWork
}

// NewPauseTimerHandler creates a new PauseTimerHandler.
func NewPauseTimerHandler(entryRepo domain.Repository, uow sharedApplication.UnitOfWork) *PauseTimerHandler {
	return &PauseTimerHandler{entryRepo: entryRepo, uow: uow}
}

// Handle executes the PauseTimerCommand.
func (h *PauseTimerHandler) Handle(ctx context.Context, cmd PauseTimerCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		entry, err := h.entryRepo.FindByID(txCtx, cmd.EntryID)
		if err != nil {
			return err
		}

		if !entry.IsOwnedBy(cmd.ActorID) && !sharedApplication.IsAdmin(cmd.ActorRole) {
			return sharedDomain.Forbiddenf("not allowed to pause this timer")
		}

		if err := entry.Pause(); err != nil {
			return err
		}

		return h.entryRepo.Save(txCtx, entry)
	})
}
