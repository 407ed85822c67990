package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/activity/domain"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteActivityRepository implements domain.Repository using SQLite.
type SQLiteActivityRepository struct {
	conn database.Connection
}

// NewSQLiteActivityRepository creates a new SQLite activity repository.
func NewSQLiteActivityRepository(conn database.Connection) *SQLiteActivityRepository {
	return &SQLiteActivityRepository{conn: conn}
}

const sqliteActivityColumns = `id, task_id, user_id, action, description, changes, created_at`

// Save appends a record. Records are never updated.
func (r *SQLiteActivityRepository) Save(ctx context.Context, record *domain.Record) error {
	var changes *string
	if len(record.Changes()) > 0 {
		s := string(record.Changes())
		changes = &s
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO activity_log (id, task_id, user_id, action, description, changes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID().String(),
		record.TaskID().String(),
		record.UserID().String(),
		string(record.Action()),
		record.Description(),
		changes,
		record.CreatedAt().UTC(),
	)
	if err != nil {
		return sharedDomain.Storagef("save activity record", err)
	}
	return nil
}

// FindByTask retrieves the task's records, newest first.
func (r *SQLiteActivityRepository) FindByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]*domain.Record, error) {
	query := `SELECT ` + sqliteActivityColumns + ` FROM activity_log WHERE task_id = ? ORDER BY created_at DESC LIMIT ?`
	return r.queryRecords(ctx, query, taskID.String(), limit)
}

// FindByUser retrieves the user's records, newest first.
func (r *SQLiteActivityRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Record, error) {
	query := `SELECT ` + sqliteActivityColumns + ` FROM activity_log WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
	return r.queryRecords(ctx, query, userID.String(), limit)
}

// FindRecent retrieves the newest records across all tasks.
func (r *SQLiteActivityRepository) FindRecent(ctx context.Context, limit int) ([]*domain.Record, error) {
	query := `SELECT ` + sqliteActivityColumns + ` FROM activity_log ORDER BY created_at DESC LIMIT ?`
	return r.queryRecords(ctx, query, limit)
}

func (r *SQLiteActivityRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*domain.Record, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query activity log", err)
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		record, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan activity record", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanSQLiteRecord(row rowScanner) (*domain.Record, error) {
	var (
		idStr, taskIDStr, userIDStr string
		action, description         string
		changes                     *string
		createdAt                   time.Time
	)

	err := row.Scan(&idStr, &taskIDStr, &userIDStr, &action, &description, &changes, &createdAt)
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

	var raw json.RawMessage
	if changes != nil {
		raw = json.RawMessage(*changes)
	}

	return domain.RehydrateRecord(id, taskID, userID, domain.Action(action), description, raw, createdAt), nil
}
