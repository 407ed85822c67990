package persistence

import (
	"context"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// SQLiteTaskRepository implements domain.Repository using SQLite.
type SQLiteTaskRepository struct {
	conn database.Connection
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(conn database.Connection) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{conn: conn}
}

const sqliteTaskColumns = `
	id, title, description, priority, status, due_date, created_by,
	assigned_to, attachments, todo_checklist, dependencies, viewed_by,
	last_viewed_at, progress, time_tracked, template_id, version,
	created_at, updated_at
`

// Save upserts the task conditional on the version it was loaded at.
// time_tracked is absent from the update set: it is only ever mutated
// through IncrementTimeTracked, and a stale aggregate write must not
// roll a concurrent increment back.
func (r *SQLiteTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	lists, err := marshalTaskLists(task)
	if err != nil {
		return err
	}

	var templateID *string
	if task.TemplateID() != nil {
		s := task.TemplateID().String()
		templateID = &s
	}
	var lastViewedAt *time.Time
	if task.LastViewedAt() != nil {
		t := task.LastViewedAt().UTC()
		lastViewedAt = &t
	}

	query := `
		INSERT INTO tasks (
			id, title, description, priority, status, due_date, created_by,
			assigned_to, attachments, todo_checklist, dependencies, viewed_by,
			last_viewed_at, progress, time_tracked, template_id, version,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ? + 1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			priority = excluded.priority,
			status = excluded.status,
			due_date = excluded.due_date,
			assigned_to = excluded.assigned_to,
			attachments = excluded.attachments,
			todo_checklist = excluded.todo_checklist,
			dependencies = excluded.dependencies,
			viewed_by = excluded.viewed_by,
			last_viewed_at = excluded.last_viewed_at,
			progress = excluded.progress,
			template_id = excluded.template_id,
			version = tasks.version + 1,
			updated_at = excluded.updated_at
		WHERE tasks.version = ?
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query,
		task.ID().String(),
		task.Title(),
		task.Description(),
		string(task.Priority()),
		string(task.Status()),
		task.DueDate().UTC(),
		task.CreatedBy().String(),
		string(lists.assignedTo),
		string(lists.attachments),
		string(lists.checklist),
		string(lists.dependencies),
		string(lists.viewedBy),
		lastViewedAt,
		task.Progress(),
		task.TimeTracked(),
		templateID,
		task.Version(),
		task.CreatedAt().UTC(),
		task.UpdatedAt().UTC(),
		task.Version(),
	)
	if err != nil {
		return sharedDomain.Storagef("save task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("save task", err)
	}
	if affected == 0 {
		return sharedDomain.Conflictf("task %s was modified concurrently", task.ID())
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	task, err := scanSQLiteTask(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, sharedDomain.Storagef("find task", err)
	}
	return task, nil
}

// List retrieves tasks matching the filter, newest first.
func (r *SQLiteTaskRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Task, error) {
	query := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(filter.Priority))
	}
	if filter.AssigneeID != uuid.Nil {
		query += ` AND EXISTS (SELECT 1 FROM json_each(tasks.assigned_to) WHERE json_each.value = ?)`
		args = append(args, filter.AssigneeID.String())
	}
	query += ` ORDER BY created_at DESC`

	return r.queryTasks(ctx, query, args...)
}

// FindOverdue retrieves tasks past due and not completed.
func (r *SQLiteTaskRepository) FindOverdue(ctx context.Context, now time.Time, assigneeID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE due_date < ? AND status != ?`
	args := []any{now.UTC(), string(domain.StatusCompleted)}

	if assigneeID != uuid.Nil {
		query += ` AND EXISTS (SELECT 1 FROM json_each(tasks.assigned_to) WHERE json_each.value = ?)`
		args = append(args, assigneeID.String())
	}
	query += ` ORDER BY due_date`

	return r.queryTasks(ctx, query, args...)
}

// CountByStatus counts tasks per status with every status present.
func (r *SQLiteTaskRepository) CountByStatus(ctx context.Context, assigneeID uuid.UUID) (map[domain.Status]int, error) {
	query := `SELECT status, COUNT(*) FROM tasks`
	var args []any

	if assigneeID != uuid.Nil {
		query += ` WHERE EXISTS (SELECT 1 FROM json_each(tasks.assigned_to) WHERE json_each.value = ?)`
		args = append(args, assigneeID.String())
	}
	query += ` GROUP BY status`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("count tasks", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int, len(domain.Statuses()))
	for _, status := range domain.Statuses() {
		counts[status] = 0
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, sharedDomain.Storagef("count tasks", err)
		}
		counts[domain.Status(status)] = count
	}
	return counts, rows.Err()
}

// Delete removes a task permanently.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return sharedDomain.Storagef("delete task", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("delete task", err)
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// IncrementTimeTracked adds minutes to the task's tracked time.
func (r *SQLiteTaskRepository) IncrementTimeTracked(ctx context.Context, id uuid.UUID, minutes int) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		UPDATE tasks
		SET time_tracked = time_tracked + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, minutes, id.String())
	if err != nil {
		return sharedDomain.Storagef("increment time tracked", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("increment time tracked", err)
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *SQLiteTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query tasks", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan task", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanSQLiteTask(row rowScanner) (*domain.Task, error) {
	var (
		id, createdBy    string
		title, desc      string
		priority, status string
		dueDate          time.Time
		assignedTo       string
		attachments      string
		checklist        string
		dependencies     string
		viewedBy         string
		lastViewedAt     *time.Time
		progress         int
		timeTracked      int
		templateID       *string
		version          int
		createdAt        time.Time
		updatedAt        time.Time
	)

	err := row.Scan(
		&id, &title, &desc, &priority, &status, &dueDate, &createdBy,
		&assignedTo, &attachments, &checklist, &dependencies, &viewedBy,
		&lastViewedAt, &progress, &timeTracked, &templateID, &version,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	creatorID, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, err
	}
	var tmplID *uuid.UUID
	if templateID != nil {
		parsed, err := uuid.Parse(*templateID)
		if err != nil {
			return nil, err
		}
		tmplID = &parsed
	}

	return rehydrateTask(taskRowData{
		id: taskID, title: title, description: desc,
		priority: priority, status: status,
		dueDate: dueDate, createdBy: creatorID,
		assignedTo: []byte(assignedTo), attachments: []byte(attachments),
		checklist: []byte(checklist), dependencies: []byte(dependencies),
		viewedBy: []byte(viewedBy),
		lastViewedAt: lastViewedAt, progress: progress, timeTracked: timeTracked,
		templateID: tmplID, version: version,
		createdAt: createdAt, updatedAt: updatedAt,
	})
}
