package persistence

import (
	"context"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskhive/internal/templates/domain"
	"github.com/google/uuid"
)

// SQLiteTemplateRepository implements domain.Repository using SQLite.
type SQLiteTemplateRepository struct {
	conn database.Connection
}

// NewSQLiteTemplateRepository creates a new SQLite template repository.
func NewSQLiteTemplateRepository(conn database.Connection) *SQLiteTemplateRepository {
	return &SQLiteTemplateRepository{conn: conn}
}

const sqliteTemplateColumns = `
	id, name, description, category, default_priority, default_due_days,
	todo_checklist, tags, created_by, is_public, usage_count, created_at, updated_at
`

// Save upserts the template.
func (r *SQLiteTemplateRepository) Save(ctx context.Context, template *domain.Template) error {
	checklist, tags, err := marshalTemplateLists(template)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO task_templates (
			id, name, description, category, default_priority, default_due_days,
			todo_checklist, tags, created_by, is_public, usage_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			default_priority = excluded.default_priority,
			default_due_days = excluded.default_due_days,
			todo_checklist = excluded.todo_checklist,
			tags = excluded.tags,
			is_public = excluded.is_public,
			updated_at = excluded.updated_at
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err = exec.Exec(ctx, query,
		template.ID().String(),
		template.Name(),
		template.Description(),
		template.Category(),
		string(template.DefaultPriority()),
		template.DefaultDueDays(),
		string(checklist),
		string(tags),
		template.CreatedBy().String(),
		template.IsPublic(),
		template.UsageCount(),
		template.CreatedAt().UTC(),
		template.UpdatedAt().UTC(),
	)
	if err != nil {
		return sharedDomain.Storagef("save template", err)
	}
	return nil
}

// FindByID retrieves a template by its ID.
func (r *SQLiteTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	query := `SELECT ` + sqliteTemplateColumns + ` FROM task_templates WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	template, err := scanSQLiteTemplate(exec.QueryRow(ctx, query, id.String()))
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
func (r *SQLiteTemplateRepository) FindAccessible(ctx context.Context, userID uuid.UUID, isAdmin bool) ([]*domain.Template, error) {
	query := `SELECT ` + sqliteTemplateColumns + ` FROM task_templates`
	args := []any{}
	if !isAdmin {
		query += ` WHERE is_public = 1 OR created_by = ?`
		args = append(args, userID.String())
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
		template, err := scanSQLiteTemplate(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan template", err)
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

// Delete removes a template permanently.
func (r *SQLiteTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM task_templates WHERE id = ?`, id.String())
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
func (r *SQLiteTemplateRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE task_templates SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query, time.Now().UTC(), id.String())
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

func scanSQLiteTemplate(row rowScanner) (*domain.Template, error) {
	var (
		idStr, createdByStr  string
		name, description    string
		category, priority   string
		dueDays, usageCount  int
		checklistRaw         []byte
		tagsRaw              []byte
		isPublic             bool
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&idStr, &name, &description, &category, &priority, &dueDays,
		&checklistRaw, &tagsRaw, &createdByStr, &isPublic, &usageCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	createdBy, err := uuid.Parse(createdByStr)
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
