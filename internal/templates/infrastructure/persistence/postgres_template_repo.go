// Package persistence contains the storage implementations for templates.
package persistence

import (
	"context"
	"encoding/json"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	"github.com/felixgeelhaar/taskhive/internal/templates/domain"
	"github.com/google/uuid"
)

// PostgresTemplateRepository implements domain.Repository using PostgreSQL.
type PostgresTemplateRepository struct {
	conn database.Connection
}

// NewPostgresTemplateRepository creates a new PostgreSQL template repository.
func NewPostgresTemplateRepository(conn database.Connection) *PostgresTemplateRepository {
	return &PostgresTemplateRepository{conn: conn}
}

const pgTemplateColumns = `
	id, name, description, category, default_priority, default_due_days,
	todo_checklist, tags, created_by, is_public, usage_count, created_at, updated_at
`

// Save upserts the template.
func (r *PostgresTemplateRepository) Save(ctx context.Context, template *domain.Template) error {
	checklist, tags, err := marshalTemplateLists(template)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO task_templates (
			id, name, description, category, default_priority, default_due_days,
			todo_checklist, tags, created_by, is_public, usage_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			default_priority = EXCLUDED.default_priority,
			default_due_days = EXCLUDED.default_due_days,
			todo_checklist = EXCLUDED.todo_checklist,
			tags = EXCLUDED.tags,
			is_public = EXCLUDED.is_public,
			updated_at = EXCLUDED.updated_at
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err = exec.Exec(ctx, query,
		template.ID(),
		template.Name(),
		template.Description(),
		template.Category(),
		string(template.DefaultPriority()),
		template.DefaultDueDays(),
		checklist,
		tags,
		template.CreatedBy(),
		template.IsPublic(),
		template.UsageCount(),
		template.CreatedAt(),
		template.UpdatedAt(),
	)
	if err != nil {
		return sharedDomain.Storagef("save template", err)
	}
	return nil
}

// FindByID retrieves a template by its ID.
func (r *PostgresTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	query := `SELECT ` + pgTemplateColumns + ` FROM task_templates WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	template, err := scanPgTemplate(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, sharedDomain.Storagef("find template", err)
	}
	return template, nil
}

// FindAccessible retrieves the templates visible to the user, most used
// first. Admins see everything.
func (r *PostgresTemplateRepository) FindAccessible(ctx context.Context, userID uuid.UUID, isAdmin bool) ([]*domain.Template, error) {
	query := `SELECT ` + pgTemplateColumns + ` FROM task_templates`
	args := []any{}
	if !isAdmin {
		query += ` WHERE is_public OR created_by = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY usage_count DESC, created_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query templates", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		template, err := scanPgTemplate(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan template", err)
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

// Delete removes a template permanently.
func (r *PostgresTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM task_templates WHERE id = $1`, id)
	if err != nil {
		return sharedDomain.Storagef("delete template", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("delete template", err)
	}
	if affected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

// IncrementUsage atomically bumps the template's usage counter.
func (r *PostgresTemplateRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE task_templates SET usage_count = usage_count + 1, updated_at = NOW() WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return sharedDomain.Storagef("increment template usage", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("increment template usage", err)
	}
	if affected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func marshalTemplateLists(template *domain.Template) (checklist, tags []byte, err error) {
	checklist, err = json.Marshal(template.TodoChecklist())
	if err != nil {
		return nil, nil, err
	}
	tags, err = json.Marshal(template.Tags())
	if err != nil {
		return nil, nil, err
	}
	return checklist, tags, nil
}

func scanPgTemplate(row rowScanner) (*domain.Template, error) {
	var (
		id, createdBy         uuid.UUID
		name, description     string
		category, priority    string
		dueDays, usageCount   int
		checklistRaw, tagsRaw []byte
		isPublic              bool
		createdAt, updatedAt  time.Time
	)

	err := row.Scan(
		&id, &name, &description, &category, &priority, &dueDays,
		&checklistRaw, &tagsRaw, &createdBy, &isPublic, &usageCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return rehydrateTemplate(templateRowData{
		id: id, name: name, description: description, category: category,
		priority: priority, dueDays: dueDays,
		checklist: checklistRaw, tags: tagsRaw,
		createdBy: createdBy, isPublic: isPublic, usageCount: usageCount,
		createdAt: createdAt, updatedAt: updatedAt,
	})
}

// templateRowData is the driver-neutral row shape both repositories decode.
type templateRowData struct {
	id          uuid.UUID
	name        string
	description string
	category    string
	priority    string
	dueDays     int
	checklist   []byte
	tags        []byte
	createdBy   uuid.UUID
	isPublic    bool
	usageCount  int
	createdAt   time.Time
	updatedAt   time.Time
}

func rehydrateTemplate(row templateRowData) (*domain.Template, error) {
	var checklist []taskingDomain.ChecklistItem
	var tags []string

	if err := json.Unmarshal(row.checklist, &checklist); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.tags, &tags); err != nil {
		return nil, err
	}

	return domain.RehydrateTemplate(
		row.id, row.name, row.description, row.category,
		taskingDomain.Priority(row.priority), row.dueDays,
		checklist, tags, row.createdBy, row.isPublic, row.usageCount,
		row.createdAt, row.updatedAt,
	), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
