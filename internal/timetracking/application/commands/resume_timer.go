package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/google/uuid"
)

// ResumeTimerCommand resumes a paused timer. Resuming restarts the
// clock from now; time spent paused is not carried over.
type ResumeTimerCommand struct {
	EntryID   uuid.UUID
	ActorID   uuid.UUID
	ActorRole string
}

// ResumeTimerHandler handles the ResumeTimerCommand.
type ResumeTimerHandler struct {
	entryRepo domain.Repository
	uow       sharedApplication.UnitOfWork
}

// NewResumeTimerHandler creates a new ResumeTimerHandler.
func NewResumeTimerHandler(entryRepo domain.Repository, uow sharedApplication.UnitOfWork) *ResumeTimerHandler {
	return &ResumeTimerHandler{entryRepo: entryRepo, uow: uow}
}

// Handle executes the ResumeTimerCommand.
func (h *ResumeTimerHandler) Handle(ctx context.Context, cmd ResumeTimerCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		entry, err := h.entryRepo.FindByID(txCtx, cmd.EntryID)
		if err != nil {
			return err
		}

		if !entry.IsOwnedBy(cmd.ActorID) && !sharedApplication.IsAdmin(cmd.ActorRole) {
			return sharedDomain.Forbiddenf("not allowed to resume this timer")
		}

		if err := entry.Resume(time.Now().UTC()); err != nil {
			return err
		}

		return h.entryRepo.Save(txCtx, entry)
	})
}
