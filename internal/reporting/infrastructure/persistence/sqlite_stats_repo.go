package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/reporting/application/queries"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

const sqliteAssignedFilter = ` EXISTS (SELECT 1 FROM json_each(tasks.assigned_to) WHERE json_each.value = ?)`

// SQLiteStatsRepository implements queries.StatsReader using SQLite.
type SQLiteStatsRepository struct {
	conn database.Connection
}

// NewSQLiteStatsRepository creates a new SQLite stats repository.
func NewSQLiteStatsRepository(conn database.Connection) *SQLiteStatsRepository {
	return &SQLiteStatsRepository{conn: conn}
}

// CountByStatus counts tasks per status. Every status is present in the
// result, defaulting to 0.
func (r *SQLiteStatsRepository) CountByStatus(ctx context.Context, assigneeID uuid.UUID) (map[taskingDomain.Status]int, error) {
	query := `SELECT status, COUNT(*) FROM tasks`
	var args []any

	if assigneeID != uuid.Nil {
		query += ` WHERE` + sqliteAssignedFilter
		args = append(args, assigneeID.String())
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
func (r *SQLiteStatsRepository) CountByPriority(ctx context.Context, assigneeID uuid.UUID) (map[taskingDomain.Priority]int, error) {
	query := `SELECT priority, COUNT(*) FROM tasks`
	var args []any

	if assigneeID != uuid.Nil {
		query += ` WHERE` + sqliteAssignedFilter
		args = append(args, assigneeID.String())
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
func (r *SQLiteStatsRepository) CountOverdue(ctx context.Context, now time.Time, assigneeID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE due_date < ? AND status != ?`
	args := []any{now.UTC(), string(taskingDomain.StatusCompleted)}

	if assigneeID != uuid.Nil {
		query += ` AND` + sqliteAssignedFilter
		args = append(args, assigneeID.String())
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	var count int
	if err := exec.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, sharedDomain.Storagef("count overdue tasks", err)
	}
	return count, nil
}

// FindRecent retrieves the newest tasks, most recently created first.
func (r *SQLiteStatsRepository) FindRecent(ctx context.Context, assigneeID uuid.UUID, limit int) ([]queries.RecentTaskDTO, error) {
	query := `SELECT id, title, status, priority, due_date, progress, created_at FROM tasks`
	var args []any

	if assigneeID != uuid.Nil {
		query += ` WHERE` + sqliteAssignedFilter
		args = append(args, assigneeID.String())
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query recent tasks", err)
	}
	defer rows.Close()

	tasks := make([]queries.RecentTaskDTO, 0, limit)
	for rows.Next() {
		var task queries.RecentTaskDTO
		var idStr string
		err := rows.Scan(&idStr, &task.Title, &task.Status, &task.Priority, &task.DueDate, &task.Progress, &task.CreatedAt)
		if err != nil {
			return nil, sharedDomain.Storagef("scan recent task", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, sharedDomain.Storagef("scan recent task", err)
		}
		task.ID = id
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *SQLiteStatsRepository) scanCounts(ctx context.Context, query string, args []any, assign func(key string, count int)) error {
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
