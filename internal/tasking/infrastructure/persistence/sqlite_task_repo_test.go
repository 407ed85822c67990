package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database/sqlite"
)

// setupTaskTestDB opens a file-backed SQLite database in a temp
// directory with the schema applied.
func setupTaskTestDB(t *testing.T) database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "taskhive.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

func newPersistedTask(t *testing.T, repo *SQLiteTaskRepository) *domain.Task {
	t.Helper()

	task, err := domain.NewTask("Ship release", "", domain.PriorityHigh,
		time.Now().Add(24*time.Hour), nil, nil, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), task))
	return task
}

func TestSQLiteTaskRepository_Save_RoundTrip(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupTaskTestDB(t))
	ctx := context.Background()

	task := newPersistedTask(t, repo)

	found, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)
	assert.Equal(t, task.ID(), found.ID())
	assert.Equal(t, "Ship release", found.Title())
	assert.Equal(t, domain.PriorityHigh, found.Priority())
	assert.Equal(t, domain.StatusPending, found.Status())
	assert.Equal(t, 0, found.TimeTracked())
}

func TestSQLiteTaskRepository_Save_ConflictOnStaleVersion(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupTaskTestDB(t))
	ctx := context.Background()

	task := newPersistedTask(t, repo)

	stale, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)

	current, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)
	require.NoError(t, current.SetTitle("Ship release v2"))
	require.NoError(t, repo.Save(ctx, current))

	require.NoError(t, stale.SetTitle("Ship release v3"))
	assert.ErrorIs(t, repo.Save(ctx, stale), sharedDomain.ErrConflict)
}

// A save of an aggregate loaded before a time increment must not roll
// the increment back: time_tracked is owned by IncrementTimeTracked and
// stays out of the upsert's update set.
func TestSQLiteTaskRepository_Save_PreservesTrackedTime(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupTaskTestDB(t))
	ctx := context.Background()

	task := newPersistedTask(t, repo)

	stale, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)

	require.NoError(t, repo.IncrementTimeTracked(ctx, task.ID(), 25))

	require.NoError(t, stale.SetTitle("Ship release v2"))
	require.NoError(t, repo.Save(ctx, stale))

	found, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)
	assert.Equal(t, 25, found.TimeTracked())
	assert.Equal(t, "Ship release v2", found.Title())
}

func TestSQLiteTaskRepository_IncrementTimeTracked_MissingTask(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupTaskTestDB(t))

	err := repo.IncrementTimeTracked(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
