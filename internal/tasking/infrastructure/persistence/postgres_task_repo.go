package persistence

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/google/uuid"
)

// PostgresTaskRepository implements domain.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	conn database.Connection
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(conn database.Connection) *PostgresTaskRepository {
	return &PostgresTaskRepository{conn: conn}
}

const pgTaskColumns = `
	id, title, description, priority, status, due_date, created_by,
	assigned_to, attachments, todo_checklist, dependencies, viewed_by,
	last_viewed_at, progress, time_tracked, template_id, version,
	created_at, updated_at
`

// Save upserts the task as one unit, conditional on the version the
// task was loaded at. A stale version means another writer won and the
// save fails with a conflict. time_tracked is absent from the update
// set: it is only ever mutated through IncrementTimeTracked, and a
// stale aggregate write must not roll a concurrent increment back.
func (r *PostgresTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	lists, err := marshalTaskLists(task)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (
			id, title, description, priority, status, due_date, created_by,
			assigned_to, attachments, todo_checklist, dependencies, viewed_by,
			last_viewed_at, progress, time_tracked, template_id, version,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17 + 1, $18, $19)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			priority = EXCLUDED.priority,
			status = EXCLUDED.status,
			due_date = EXCLUDED.due_date,
			assigned_to = EXCLUDED.assigned_to,
			attachments = EXCLUDED.attachments,
			todo_checklist = EXCLUDED.todo_checklist,
			dependencies = EXCLUDED.dependencies,
			viewed_by = EXCLUDED.viewed_by,
			last_viewed_at = EXCLUDED.last_viewed_at,
			progress = EXCLUDED.progress,
			template_id = EXCLUDED.template_id,
			version = tasks.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE tasks.version = $17
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query,
		task.ID(),
		task.Title(),
		task.Description(),
		string(task.Priority()),
		string(task.Status()),
		task.DueDate(),
		task.CreatedBy(),
		lists.assignedTo,
		lists.attachments,
		lists.checklist,
		lists.dependencies,
		lists.viewedBy,
		task.LastViewedAt(),
		task.Progress(),
		task.TimeTracked(),
		task.TemplateID(),
		task.Version(),
		task.CreatedAt(),
		task.UpdatedAt(),
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
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + pgTaskColumns + ` FROM tasks WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	task, err := scanPgTask(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, sharedDomain.Storagef("find task", err)
	}
	return task, nil
}

// List retrieves tasks matching the filter, newest first.
func (r *PostgresTaskRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Task, error) {
	query := `SELECT ` + pgTaskColumns + ` FROM tasks WHERE 1=1`
	args := make([]any, 0, 3)

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		query += ` AND priority = $` + strconv.Itoa(len(args))
	}
	if filter.AssigneeID != uuid.Nil {
		args = append(args, filter.AssigneeID.String())
		query += ` AND assigned_to ? $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	return r.queryTasks(ctx, query, args...)
}

// FindOverdue retrieves tasks past due and not completed.
func (r *PostgresTaskRepository) FindOverdue(ctx context.Context, now time.Time, assigneeID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + pgTaskColumns + ` FROM tasks WHERE due_date < $1 AND status != $2`
	args := []any{now, string(domain.StatusCompleted)}

	if assigneeID != uuid.Nil {
		args = append(args, assigneeID.String())
		query += ` AND assigned_to ? $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY due_date`

	return r.queryTasks(ctx, query, args...)
}

// CountByStatus counts tasks per status. Every status is present in the
// result, defaulting to 0.
func (r *PostgresTaskRepository) CountByStatus(ctx context.Context, assigneeID uuid.UUID) (map[domain.Status]int, error) {
	query := `SELECT status, COUNT(*) FROM tasks`
	args := make([]any, 0, 1)

	if assigneeID != uuid.Nil {
		args = append(args, assigneeID.String())
		query += ` WHERE assigned_to ? $1`
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
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
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

// IncrementTimeTracked adds minutes to the task's tracked time with a
// store-level atomic increment.
func (r *PostgresTaskRepository) IncrementTimeTracked(ctx context.Context, id uuid.UUID, minutes int) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		UPDATE tasks
		SET time_tracked = time_tracked + $2, updated_at = NOW()
		WHERE id = $1
	`, id, minutes)
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

func (r *PostgresTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query tasks", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanPgTask(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan task", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

type taskLists struct {
	assignedTo   []byte
	attachments  []byte
	checklist    []byte
	dependencies []byte
	viewedBy     []byte
}

func marshalTaskLists(task *domain.Task) (*taskLists, error) {
	assignedTo, err := json.Marshal(task.AssignedTo())
	if err != nil {
		return nil, err
	}
	attachments, err := json.Marshal(task.Attachments())
	if err != nil {
		return nil, err
	}
	checklist, err := json.Marshal(task.TodoChecklist())
	if err != nil {
		return nil, err
	}
	dependencies, err := json.Marshal(task.Dependencies())
	if err != nil {
		return nil, err
	}
	viewedBy, err := json.Marshal(task.ViewedBy())
	if err != nil {
		return nil, err
	}
	return &taskLists{
		assignedTo:   assignedTo,
		attachments:  attachments,
		checklist:    checklist,
		dependencies: dependencies,
		viewedBy:     viewedBy,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPgTask(row rowScanner) (*domain.Task, error) {
	var (
		id, createdBy    uuid.UUID
		title, desc      string
		priority, status string
		dueDate          time.Time
		assignedTo       []byte
		attachments      []byte
		checklist        []byte
		dependencies     []byte
		viewedBy         []byte
		lastViewedAt     *time.Time
		progress         int
		timeTracked      int
		templateID       *uuid.UUID
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

	return rehydrateTask(taskRowData{
		id: id, title: title, description: desc,
		priority: priority, status: status,
		dueDate: dueDate, createdBy: createdBy,
		assignedTo: assignedTo, attachments: attachments,
		checklist: checklist, dependencies: dependencies, viewedBy: viewedBy,
		lastViewedAt: lastViewedAt, progress: progress, timeTracked: timeTracked,
		templateID: templateID, version: version,
		createdAt: createdAt, updatedAt: updatedAt,
	})
}

// taskRowData is the driver-neutral row shape both repositories decode.
type taskRowData struct {
	id           uuid.UUID
	title        string
	description  string
	priority     string
	status       string
	dueDate      time.Time
	createdBy    uuid.UUID
	assignedTo   []byte
	attachments  []byte
	checklist    []byte
	dependencies []byte
	viewedBy     []byte
	lastViewedAt *time.Time
	progress     int
	timeTracked  int
	templateID   *uuid.UUID
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

func rehydrateTask(row taskRowData) (*domain.Task, error) {
	var assignedTo, viewedBy []uuid.UUID
	var attachments []string
	var checklist []domain.ChecklistItem
	var dependencies []domain.Dependency

	if err := json.Unmarshal(row.assignedTo, &assignedTo); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.attachments, &attachments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.checklist, &checklist); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.dependencies, &dependencies); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.viewedBy, &viewedBy); err != nil {
		return nil, err
	}

	return domain.RehydrateTask(
		row.id,
		row.title,
		row.description,
		domain.Priority(row.priority),
		domain.Status(row.status),
		row.dueDate,
		row.createdBy,
		assignedTo,
		attachments,
		checklist,
		dependencies,
		viewedBy,
		row.lastViewedAt,
		row.progress,
		row.timeTracked,
		row.templateID,
		row.version,
		row.createdAt,
		row.updatedAt,
	), nil
}
