// Package persistence contains the storage implementations for the
// activity log.
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

// PostgresActivityRepository implements domain.Repository using PostgreSQL.
type PostgresActivityRepository struct {
	conn database.Connection
}

// NewPostgresActivityRepository creates a new PostgreSQL activity repository.
func NewPostgresActivityRepository(conn database.Connection) *PostgresActivityRepository {
	return &PostgresActivityRepository{conn: conn}
}

const pgActivityColumns = `id, task_id, user_id, action, description, changes, created_at`

// Save appends a record. Records are never updated.
func (r *PostgresActivityRepository) Save(ctx context.Context, record *domain.Record) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO activity_log (id, task_id, user_id, action, description, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		record.ID(),
		record.TaskID(),
		record.UserID(),
		string(record.Action()),
		record.Description(),
		[]byte(record.Changes()),
		record.CreatedAt(),
	)
	if err != nil {
		return sharedDomain.Storagef("save activity record", err)
	}
	return nil
}

// FindByTask retrieves the task's records, newest first.
func (r *PostgresActivityRepository) FindByTask(ctx context.Context, taskID uuid.UUID, limit int) ([]*domain.Record, error) {
	query := `SELECT ` + pgActivityColumns + ` FROM activity_log WHERE task_id = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryRecords(ctx, query, taskID, limit)
}

// FindByUser retrieves the user's records, newest first.
func (r *PostgresActivityRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Record, error) {
	query := `SELECT ` + pgActivityColumns + ` FROM activity_log WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryRecords(ctx, query, userID, limit)
}

// FindRecent retrieves the newest records across all tasks.
func (r *PostgresActivityRepository) FindRecent(ctx context.Context, limit int) ([]*domain.Record, error) {
	query := `SELECT ` + pgActivityColumns + ` FROM activity_log ORDER BY created_at DESC LIMIT $1`
	return r.queryRecords(ctx, query, limit)
}

func (r *PostgresActivityRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*domain.Record, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query activity log", err)
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		record, err := scanPgRecord(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan activity record", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanPgRecord(row rowScanner) (*domain.Record, error) {
	var (
		id, taskID, userID  uuid.UUID
		action, description string
		changes             []byte
		createdAt           time.Time
	)

	err := row.Scan(&id, &taskID, &userID, &action, &description, &changes, &createdAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateRecord(id, taskID, userID, domain.Action(action), description, json.RawMessage(changes), createdAt), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
