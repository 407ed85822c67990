// Package persistence contains the storage-backed dashboard aggregates.
package persistence

import (
	"context"
	"strconv"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/reporting/application/queries"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// PostgresStatsRepository implements queries.StatsReader using PostgreSQL.
type PostgresStatsRepository struct {
	conn database.Connection
}

// NewPostgresStatsRepository creates a new PostgreSQL stats repository.
func NewPostgresStatsRepository(conn database.Connection) *PostgresStatsRepository {
	return &PostgresStatsRepository{conn: conn}
}

// CountByStatus counts tasks per status. Every status is present in the
// result, defaulting to 0.
func (r *PostgresStatsRepository) CountByStatus(ctx context.Context, assigneeID uuid.UUID) (map[taskingDomain.Status]int, error) {
	query := `SELECT status, COUNT(*) FROM tasks`
	args := make([]any, 0, 1)

	if assigneeID != uuid.Nil {
		args = append(args, assigneeID.String())
		query += ` WHERE assigned_to ? $1`
	}
	query += ` GROUP BY status`

	counts := make(map[taskingDomain.Status]int, len(taskingDomain.Statuses()))
	for _, status := range taskingDomain.Statuses() {
		counts[status] = 0
	}
	if err := r.scanCounts(ctx, query, args, func(key string, count int) {
		counts[taskingDomain.Status(key)] = count
	}); err != nil {
		return nil, err
	}
	return counts, nil
}

// CountByPriority counts tasks per priority. Every priority is present
// in the result, defaulting to 0.
func (r *PostgresStatsRepository) CountByPriority(ctx context.Context, assigneeID uuid.UUID) (map[taskingDomain.Priority]int, error) {
	query := `SELECT priority, COUNT(*) FROM tasks`
	args := make([]any, 0, 1)

	if assigneeID != uuid.Nil {
		args = append(args, assigneeID.String())
		query += ` WHERE assigned_to ? $1`
	}
	query += ` GROUP BY priority`

	counts := make(map[taskingDomain.Priority]int, len(taskingDomain.Priorities()))
	for _, priority := range taskingDomain.Priorities() {
		counts[priority] = 0
	}
	if err := r.scanCounts(ctx, query, args, func(key string, count int) {
		counts[taskingDomain.Priority(key)] = count
	}); err != nil {
		return nil, err
	}
	return counts, nil
}

// CountOverdue counts tasks past due and not completed.
func (r *PostgresStatsRepository) CountOverdue(ctx context.Context, now time.Time, assigneeID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE due_date < $1 AND status != $2`
	args := []any{now, string(taskingDomain.StatusCompleted)}

	if assigneeID != uuid.Nil {
		args = append(args, assigneeID.String())
		query += ` AND assigned_to ? $` + strconv.Itoa(len(args))
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	var count int
	if err := exec.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, sharedDomain.Storagef("count overdue tasks", err)
	}
	return count, nil
}

// FindRecent retrieves the newest tasks, most recently created first.
func (r *PostgresStatsRepository) FindRecent(ctx context.Context, assigneeID uuid.UUID, limit int) ([]queries.RecentTaskDTO, error) {
	query := `SELECT id, title, status, priority, due_date, progress, created_at FROM tasks`
	args := make([]any, 0, 2)

	if assigneeID != uuid.Nil {
		args = append(args, assigneeID.String())
		query += ` WHERE assigned_to ? $1`
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query recent tasks", err)
	}
	defer rows.Close()

	tasks := make([]queries.RecentTaskDTO, 0, limit)
	for rows.Next() {
		var task queries.RecentTaskDTO
		err := rows.Scan(&task.ID, &task.Title, &task.Status, &task.Priority, &task.DueDate, &task.Progress, &task.CreatedAt)
		if err != nil {
			return nil, sharedDomain.Storagef("scan recent task", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *PostgresStatsRepository) scanCounts(ctx context.Context, query string, args []any, assign func(key string, count int)) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return sharedDomain.Storagef("count tasks", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return sharedDomain.Storagef("count tasks", err)
		}
		assign(key, count)
	}
	return rows.Err()
}
