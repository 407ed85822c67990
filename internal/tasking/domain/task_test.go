package domain

import (
	"errors"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTask(t *testing.T, checklist []ChecklistItem, assignees ...uuid.UUID) *Task {
	t.Helper()
	task, err := NewTask("Ship release", "cut the final build", PriorityHigh,
		time.Now().Add(72*time.Hour), assignees, checklist, uuid.New())
	require.NoError(t, err)
	task.ClearDomainEvents()
	return task
}

func eventsOfType[E sharedDomain.DomainEvent](events []sharedDomain.DomainEvent) []E {
	var matched []E
	for _, event := range events {
		if e, ok := event.(E); ok {
			matched = append(matched, e)
		}
	}
	return matched
}

func TestNewTask(t *testing.T) {
	dueDate := time.Now().Add(24 * time.Hour)
	creator := uuid.New()

	t.Run("creates pending task with defaults", func(t *testing.T) {
		task, err := NewTask("Write docs", "", "", dueDate, nil, nil, creator)

		require.NoError(t, err)
		assert.Equal(t, StatusPending, task.Status())
		assert.Equal(t, PriorityMedium, task.Priority())
		assert.Equal(t, 0, task.Progress())
		assert.Equal(t, 0, task.TimeTracked())
		assert.Equal(t, creator, task.CreatedBy())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewTask("   ", "", PriorityLow, dueDate, nil, nil, creator)

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
	})

	t.Run("rejects missing due date", func(t *testing.T) {
		_, err := NewTask("Write docs", "", PriorityLow, time.Time{}, nil, nil, creator)

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
	})

	t.Run("deduplicates assignees", func(t *testing.T) {
		alice := uuid.New()
		bob := uuid.New()

		task, err := NewTask("Write docs", "", PriorityLow, dueDate,
			[]uuid.UUID{alice, bob, alice}, nil, creator)

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{alice, bob}, task.AssignedTo())
	})

	t.Run("emits created plus one assigned per assignee", func(t *testing.T) {
		alice := uuid.New()
		bob := uuid.New()

		task, err := NewTask("Write docs", "", PriorityLow, dueDate,
			[]uuid.UUID{alice, bob}, nil, creator)

		require.NoError(t, err)
		events := task.DomainEvents()
		assert.Len(t, eventsOfType[*TaskCreated](events), 1)
		assert.Len(t, eventsOfType[*TaskAssigned](events), 2)
	})
}

func TestTaskReplaceChecklist(t *testing.T) {
	t.Run("progress and status track the checklist", func(t *testing.T) {
		task := newTestTask(t, []ChecklistItem{
			{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"},
		})
		assert.Equal(t, 0, task.Progress())
		assert.Equal(t, StatusPending, task.Status())

		task.ReplaceChecklist([]ChecklistItem{
			{Text: "a", Completed: true}, {Text: "b", Completed: true},
			{Text: "c"}, {Text: "d"},
		})
		assert.Equal(t, 50, task.Progress())
		assert.Equal(t, StatusInProgress, task.Status())

		task.ReplaceChecklist([]ChecklistItem{
			{Text: "a", Completed: true}, {Text: "b", Completed: true},
			{Text: "c", Completed: true}, {Text: "d", Completed: true},
		})
		assert.Equal(t, 100, task.Progress())
		assert.Equal(t, StatusCompleted, task.Status())
		assert.Len(t, eventsOfType[*TaskCompleted](task.DomainEvents()), 1)
	})

	t.Run("derived status overrides a forced one", func(t *testing.T) {
		task := newTestTask(t, []ChecklistItem{{Text: "a"}, {Text: "b"}})
		require.NoError(t, task.SetStatus(StatusCompleted))
		task.ClearDomainEvents()

		task.ReplaceChecklist([]ChecklistItem{
			{Text: "a", Completed: true}, {Text: "b"},
		})

		assert.Equal(t, StatusInProgress, task.Status())
		assert.Equal(t, 50, task.Progress())
		assert.Len(t, eventsOfType[*TaskReopened](task.DomainEvents()), 1)
	})

	t.Run("no transition means no status events", func(t *testing.T) {
		task := newTestTask(t, []ChecklistItem{
			{Text: "a", Completed: true}, {Text: "b"},
		})

		task.ReplaceChecklist([]ChecklistItem{
			{Text: "a"}, {Text: "b", Completed: true},
		})

		assert.Empty(t, eventsOfType[*TaskStatusChanged](task.DomainEvents()))
	})
}

func TestTaskSetStatus(t *testing.T) {
	t.Run("rejects unknown status", func(t *testing.T) {
		task := newTestTask(t, nil)

		err := task.SetStatus("Done")

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
		assert.Contains(t, err.Error(), "Invalid status value")
	})

	t.Run("forcing completed completes every checklist item", func(t *testing.T) {
		task := newTestTask(t, []ChecklistItem{{Text: "a"}, {Text: "b"}, {Text: "c"}})

		require.NoError(t, task.SetStatus(StatusCompleted))

		assert.Equal(t, 100, task.Progress())
		for _, item := range task.TodoChecklist() {
			assert.True(t, item.Completed)
		}
		assert.Len(t, eventsOfType[*TaskCompleted](task.DomainEvents()), 1)
	})

	t.Run("other statuses leave checklist and progress alone", func(t *testing.T) {
		task := newTestTask(t, []ChecklistItem{
			{Text: "a", Completed: true}, {Text: "b"},
		})

		require.NoError(t, task.SetStatus(StatusInProgress))

		assert.Equal(t, StatusInProgress, task.Status())
		assert.False(t, task.TodoChecklist()[1].Completed)
	})

	t.Run("reopening a completed task emits reopened", func(t *testing.T) {
		task := newTestTask(t, nil)
		require.NoError(t, task.SetStatus(StatusCompleted))
		task.ClearDomainEvents()

		require.NoError(t, task.SetStatus(StatusPending))

		assert.Equal(t, StatusPending, task.Status())
		assert.Len(t, eventsOfType[*TaskReopened](task.DomainEvents()), 1)
	})

	t.Run("setting the same status emits nothing", func(t *testing.T) {
		task := newTestTask(t, nil)

		require.NoError(t, task.SetStatus(StatusPending))

		assert.Empty(t, task.DomainEvents())
	})
}

func TestTaskSetAssignees(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	task := newTestTask(t, nil, alice, bob)

	added := task.SetAssignees([]uuid.UUID{bob, carol})

	assert.Equal(t, []uuid.UUID{carol}, added)
	assigned := eventsOfType[*TaskAssigned](task.DomainEvents())
	require.Len(t, assigned, 1)
	assert.Equal(t, carol, assigned[0].AssigneeID)
}

func TestTaskDependencies(t *testing.T) {
	t.Run("defaults type to blockedBy", func(t *testing.T) {
		task := newTestTask(t, nil)
		other := uuid.New()

		require.NoError(t, task.AddDependency(other, ""))

		require.Len(t, task.Dependencies(), 1)
		assert.Equal(t, DependencyBlockedBy, task.Dependencies()[0].Type)
	})

	t.Run("duplicate dependency conflicts", func(t *testing.T) {
		task := newTestTask(t, nil)
		other := uuid.New()
		require.NoError(t, task.AddDependency(other, DependencyBlocks))

		err := task.AddDependency(other, DependencyRelatedTo)

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrConflict))
	})

	t.Run("self dependency is rejected", func(t *testing.T) {
		task := newTestTask(t, nil)

		err := task.AddDependency(task.ID(), DependencyBlocks)

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
	})

	t.Run("removal is idempotent", func(t *testing.T) {
		task := newTestTask(t, nil)
		other := uuid.New()
		require.NoError(t, task.AddDependency(other, DependencyBlocks))

		task.RemoveDependency(other)
		task.RemoveDependency(other)

		assert.Empty(t, task.Dependencies())
	})
}

func TestTaskMarkViewed(t *testing.T) {
	task := newTestTask(t, nil)
	viewer := uuid.New()
	first := time.Now().Add(-time.Hour)
	second := time.Now()

	task.MarkViewed(viewer, first)
	task.MarkViewed(viewer, second)

	assert.Equal(t, []uuid.UUID{viewer}, task.ViewedBy())
	require.NotNil(t, task.LastViewedAt())
	assert.Equal(t, second, *task.LastViewedAt())
	assert.Empty(t, task.DomainEvents())
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Now()

	task := newTestTask(t, nil)
	require.NoError(t, task.SetDueDate(now.Add(-time.Hour)))
	assert.True(t, task.IsOverdue(now))

	require.NoError(t, task.SetStatus(StatusCompleted))
	assert.False(t, task.IsOverdue(now))
}
