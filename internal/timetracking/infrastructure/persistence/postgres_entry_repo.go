// Package persistence contains the storage implementations for time
// entries.
package persistence

import (
	"context"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/google/uuid"
)

// PostgresEntryRepository implements domain.Repository using PostgreSQL.
type PostgresEntryRepository struct {
	conn database.Connection
}

// NewPostgresEntryRepository creates a new PostgreSQL time entry repository.
func NewPostgresEntryRepository(conn database.Connection) *PostgresEntryRepository {
	return &PostgresEntryRepository{conn: conn}
}

const pgEntryColumns = `
	id, task_id, user_id, start_time, end_time, duration_minutes,
	description, category, is_running, billable, version, created_at, updated_at
`

// Save upserts the time entry.
func (r *PostgresEntryRepository) Save(ctx context.Context, entry *domain.TimeEntry) error {
	query := `
		INSERT INTO time_entries (
			id, task_id, user_id, start_time, end_time, duration_minutes,
			description, category, is_running, billable, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11 + 1, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			duration_minutes = EXCLUDED.duration_minutes,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			is_running = EXCLUDED.is_running,
			billable = EXCLUDED.billable,
			version = time_entries.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE time_entries.version = $11
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query,
		entry.ID(),
		entry.TaskID(),
		entry.UserID(),
		entry.StartTime(),
		entry.EndTime(),
		entry.DurationMinutes(),
		entry.Description(),
		string(entry.Category()),
		entry.IsRunning(),
		entry.IsBillable(),
		entry.Version(),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	if err != nil {
		return sharedDomain.Storagef("save time entry", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("save time entry", err)
	}
	if affected == 0 {
		return sharedDomain.Conflictf("time entry %s was modified concurrently", entry.ID())
	}
	return nil
}

// FindByID retrieves a time entry by its ID.
func (r *PostgresEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error) {
	query := `SELECT ` + pgEntryColumns + ` FROM time_entries WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	entry, err := scanPgEntry(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, sharedDomain.Storagef("find time entry", err)
	}
	return entry, nil
}

// FindByTask retrieves all entries for a task, newest first.
func (r *PostgresEntryRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + pgEntryColumns + ` FROM time_entries WHERE task_id = $1 ORDER BY start_time DESC`
	return r.queryEntries(ctx, query, taskID)
}

// FindByUser retrieves all entries for a user, newest first.
func (r *PostgresEntryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + pgEntryColumns + ` FROM time_entries WHERE user_id = $1 ORDER BY start_time DESC`
	return r.queryEntries(ctx, query, userID)
}

// StopAllRunning force-stops the user's running entries in one
// statement. Durations stay at their last stored value.
func (r *PostgresEntryRepository) StopAllRunning(ctx context.Context, userID uuid.UUID, endTime time.Time) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		UPDATE time_entries
		SET is_running = FALSE, end_time = $2, version = version + 1, updated_at = $2
		WHERE user_id = $1 AND is_running
	`, userID, endTime)
	if err != nil {
		return 0, sharedDomain.Storagef("stop running entries", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, sharedDomain.Storagef("stop running entries", err)
	}
	return affected, nil
}

func (r *PostgresEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*domain.TimeEntry, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query time entries", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		entry, err := scanPgEntry(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan time entry", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanPgEntry(row rowScanner) (*domain.TimeEntry, error) {
	var (
		id, taskID, userID   uuid.UUID
		startTime            time.Time
		endTime              *time.Time
		durationMinutes      int
		description          string
		category             string
		isRunning, billable  bool
		version              int
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&id, &taskID, &userID, &startTime, &endTime, &durationMinutes,
		&description, &category, &isRunning, &billable, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateTimeEntry(
		id, taskID, userID, startTime, endTime, durationMinutes,
		description, domain.Category(category), isRunning, billable,
		version, createdAt, updatedAt,
	), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
