package commands

import (
	"context"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/infrastructure/lock"
	"github.com/google/uuid"
)

// StartTimerCommand starts a timer for the user on a task. Any other
// timer the user has running is force-stopped first; its elapsed span
// is discarded, not reconciled.
type StartTimerCommand struct {
	TaskID      uuid.UUID
	UserID      uuid.UUID
	Description string
	Category    string
}

// StartTimerResult contains the result of starting a timer.
type StartTimerResult struct {
	EntryID   uuid.UUID
	StartTime time.Time
	Stopped   int64
}

// StartTimerHandler handles the StartTimerCommand.
type StartTimerHandler struct {
	entryRepo  domain.Repository
	tasks      TaskTracker
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	locker     lock.Locker
}

// NewStartTimerHandler creates a new StartTimerHandler.
func NewStartTimerHandler(entryRepo domain.Repository, tasks TaskTracker, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, locker lock.Locker) *StartTimerHandler {
	return &StartTimerHandler{
		entryRepo:  entryRepo,
		tasks:      tasks,
		outboxRepo: outboxRepo,
		uow:        uow,
		locker:     locker,
	}
}

// Handle executes the StartTimerCommand. Stop-all-running and the new
// insert happen inside one per-user critical section and one
// transaction, so two concurrent starts for the same user cannot both
// end up running. The store's partial unique index backstops the lock.
func (h *StartTimerHandler) Handle(ctx context.Context, cmd StartTimerCommand) (*StartTimerResult, error) {
	var result *StartTimerResult

	err := h.locker.WithLock(ctx, "timer:user:"+cmd.UserID.String(), func(lockCtx context.Context) error {
		return sharedApplication.WithUnitOfWork(lockCtx, h.uow, func(txCtx context.Context) error {
			if err := ensureTaskExists(txCtx, h.tasks, cmd.TaskID); err != nil {
				return err
			}

			stopped, err := h.entryRepo.StopAllRunning(txCtx, cmd.UserID, time.Now().UTC())
			if err != nil {
				return err
			}

			entry, err := domain.NewRunningEntry(cmd.TaskID, cmd.UserID, cmd.Description, domain.Category(cmd.Category))
			if err != nil {
				return err
			}

			if err := h.entryRepo.Save(txCtx, entry); err != nil {
				return err
			}

			if err := stageEvents(txCtx, h.outboxRepo, entry.DomainEvents(), cmd.UserID); err != nil {
				return err
			}

			result = &StartTimerResult{
				EntryID:   entry.ID(),
				StartTime: entry.StartTime(),
				Stopped:   stopped,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
