package persistence

import (
	"context"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/google/uuid"
)

// SQLiteEntryRepository implements domain.Repository using SQLite.
type SQLiteEntryRepository struct {
	conn database.Connection
}

// NewSQLiteEntryRepository creates a new SQLite time entry repository.
func NewSQLiteEntryRepository(conn database.Connection) *SQLiteEntryRepository {
	return &SQLiteEntryRepository{conn: conn}
}

const sqliteEntryColumns = `
	id, task_id, user_id, start_time, end_time, duration_minutes,
	description, category, is_running, billable, version, created_at, updated_at
`

// Save upserts the time entry conditional on the version it was loaded at.
func (r *SQLiteEntryRepository) Save(ctx context.Context, entry *domain.TimeEntry) error {
	var endTime *time.Time
	if entry.EndTime() != nil {
		t := entry.EndTime().UTC()
		endTime = &t
	}

	query := `
		INSERT INTO time_entries (
			id, task_id, user_id, start_time, end_time, duration_minutes,
			description, category, is_running, billable, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ? + 1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_minutes = excluded.duration_minutes,
			description = excluded.description,
			category = excluded.category,
			is_running = excluded.is_running,
			billable = excluded.billable,
			version = time_entries.version + 1,
			updated_at = excluded.updated_at
		WHERE time_entries.version = ?
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query,
		entry.ID().String(),
		entry.TaskID().String(),
		entry.UserID().String(),
		entry.StartTime().UTC(),
		endTime,
		entry.DurationMinutes(),
		entry.Description(),
		string(entry.Category()),
		entry.IsRunning(),
		entry.IsBillable(),
		entry.Version(),
		entry.CreatedAt().UTC(),
		entry.UpdatedAt().UTC(),
		entry.Version(),
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
func (r *SQLiteEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.TimeEntry, error) {
	query := `SELECT ` + sqliteEntryColumns + ` FROM time_entries WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	entry, err := scanSQLiteEntry(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, sharedDomain.Storagef("find time entry", err)
	}
	return entry, nil
}

// FindByTask retrieves all entries for a task, newest first.
func (r *SQLiteEntryRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + sqliteEntryColumns + ` FROM time_entries WHERE task_id = ? ORDER BY start_time DESC`
	return r.queryEntries(ctx, query, taskID.String())
}

// FindByUser retrieves all entries for a user, newest first.
func (r *SQLiteEntryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + sqliteEntryColumns + ` FROM time_entries WHERE user_id = ? ORDER BY start_time DESC`
	return r.queryEntries(ctx, query, userID.String())
}

// StopAllRunning force-stops the user's running entries in one
// statement. Durations stay at their last stored value.
func (r *SQLiteEntryRepository) StopAllRunning(ctx context.Context, userID uuid.UUID, endTime time.Time) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		UPDATE time_entries
		SET is_running = 0, end_time = ?, version = version + 1, updated_at = ?
		WHERE user_id = ? AND is_running = 1
	`, endTime.UTC(), endTime.UTC(), userID.String())
	if err != nil {
		return 0, sharedDomain.Storagef("stop running entries", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, sharedDomain.Storagef("stop running entries", err)
	}
	return affected, nil
}

func (r *SQLiteEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*domain.TimeEntry, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query time entries", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		entry, err := scanSQLiteEntry(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan time entry", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanSQLiteEntry(row rowScanner) (*domain.TimeEntry, error) {
	var (
		idStr, taskIDStr, userIDStr string
		startTime                   time.Time
		endTime                     *time.Time
		durationMinutes             int
		description                 string
		category                    string
		isRunning, billable         bool
		version                     int
		createdAt, updatedAt        time.Time
	)

	err := row.Scan(
		&idStr, &taskIDStr, &userIDStr, &startTime, &endTime, &durationMinutes,
		&description, &category, &isRunning, &billable, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	taskID, err := uuid.Parse(taskIDStr)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateTimeEntry(
		id, taskID, userID, startTime, endTime, durationMinutes,
		description, domain.Category(category), isRunning, billable,
		version, createdAt, updatedAt,
	), nil
}
