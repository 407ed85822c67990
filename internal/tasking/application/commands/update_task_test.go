package commands

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func buildTask(t *testing.T, assignees ...uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask("Fix flaky pipeline", "ci fails intermittently",
		domain.PriorityMedium, time.Now().Add(24*time.Hour), assignees, nil, uuid.New())
	require.NoError(t, err)
	task.ClearDomainEvents()
	return task
}

func TestUpdateTaskHandler_Handle(t *testing.T) {
	actorID := uuid.New()

	t.Run("merges only provided fields", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(repo, outboxRepo, uow)

		task := buildTask(t)
		originalDue := task.DueDate()

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, task.ID()).Return(task, nil)
		repo.On("Save", txCtx, task).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID:   task.ID(),
			ActorID:  actorID,
			Title:    "Fix flaky pipeline for good",
			Priority: "High",
		})

		require.NoError(t, err)
		assert.Equal(t, "Fix flaky pipeline for good", task.Title())
		assert.Equal(t, domain.PriorityHigh, task.Priority())
		assert.Equal(t, "ci fails intermittently", task.Description())
		assert.Equal(t, originalDue, task.DueDate())
		assert.ElementsMatch(t, []string{"title", "priority"}, result.ChangedFields)
	})

	t.Run("empty fields mean no change", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(repo, outboxRepo, uow)

		task := buildTask(t)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, task.ID()).Return(task, nil)
		repo.On("Save", txCtx, task).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil).Maybe()

		result, err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID:  task.ID(),
			ActorID: actorID,
		})

		require.NoError(t, err)
		assert.Equal(t, "Fix flaky pipeline", task.Title())
		assert.Empty(t, result.ChangedFields)
	})

	t.Run("emits assigned only for newly added assignees", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(repo, outboxRepo, uow)

		existing := uuid.New()
		newcomer := uuid.New()
		task := buildTask(t, existing)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		var staged []*outbox.Message
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, task.ID()).Return(task, nil)
		repo.On("Save", txCtx, task).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).
			Run(func(args mock.Arguments) {
				staged = args.Get(1).([]*outbox.Message)
			}).
			Return(nil)

		result, err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID:     task.ID(),
			ActorID:    actorID,
			AssignedTo: []uuid.UUID{existing, newcomer},
		})

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{newcomer}, result.NewAssignees)

		var assigned int
		for _, msg := range staged {
			if msg.RoutingKey == "tasking.task.assigned" {
				assigned++
				assert.Contains(t, string(msg.Payload), newcomer.String())
			}
		}
		assert.Equal(t, 1, assigned)
	})

	t.Run("checklist replacement recomputes progress", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(repo, outboxRepo, uow)

		task := buildTask(t)

		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, task.ID()).Return(task, nil)
		repo.On("Save", txCtx, task).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)

		result, err := handler.Handle(ctx, UpdateTaskCommand{
			TaskID:  task.ID(),
			ActorID: actorID,
			Checklist: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: false},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 50, result.Progress)
		assert.Equal(t, domain.StatusInProgress, result.Status)
	})

	t.Run("unknown task fails without saving", func(t *testing.T) {
		repo := new(mockTaskRepo)
		outboxRepo := new(mockTaskOutboxRepo)
		uow := new(mockUnitOfWork)
		handler := NewUpdateTaskHandler(repo, outboxRepo, uow)

		missing := uuid.New()
		ctx := context.Background()
		txCtx := testTxContext(ctx)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, missing).
			Return(nil, domain.ErrTaskNotFound)

		_, err := handler.Handle(ctx, UpdateTaskCommand{TaskID: missing, ActorID: actorID})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
