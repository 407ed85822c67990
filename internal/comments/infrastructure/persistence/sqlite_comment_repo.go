package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/comments/domain"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteCommentRepository implements domain.Repository using SQLite.
type SQLiteCommentRepository struct {
	conn database.Connection
}

// NewSQLiteCommentRepository creates a new SQLite comment repository.
func NewSQLiteCommentRepository(conn database.Connection) *SQLiteCommentRepository {
	return &SQLiteCommentRepository{conn: conn}
}

const sqliteCommentColumns = `
	id, task_id, author_id, content, mentions, attachments, likes,
	replies, edited, edited_at, created_at, updated_at
`

// Save upserts the comment.
func (r *SQLiteCommentRepository) Save(ctx context.Context, comment *domain.Comment) error {
	lists, err := marshalCommentLists(comment)
	if err != nil {
		return err
	}

	var editedAt *time.Time
	if comment.EditedAt() != nil {
		t := comment.EditedAt().UTC()
		editedAt = &t
	}

	query := `
		INSERT INTO comments (
			id, task_id, author_id, content, mentions, attachments, likes,
			replies, edited, edited_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			content = excluded.content,
			mentions = excluded.mentions,
			attachments = excluded.attachments,
			likes = excluded.likes,
			replies = excluded.replies,
			edited = excluded.edited,
			edited_at = excluded.edited_at,
			updated_at = excluded.updated_at
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err = exec.Exec(ctx, query,
		comment.ID().String(),
		comment.TaskID().String(),
		comment.AuthorID().String(),
		comment.Content(),
		string(lists.mentions),
		string(lists.attachments),
		string(lists.likes),
		string(lists.replies),
		comment.IsEdited(),
		editedAt,
		comment.CreatedAt().UTC(),
		comment.UpdatedAt().UTC(),
	)
	if err != nil {
		return sharedDomain.Storagef("save comment", err)
	}
	return nil
}

// FindByID retrieves a comment by its ID.
func (r *SQLiteCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `SELECT ` + sqliteCommentColumns + ` FROM comments WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	comment, err := scanSQLiteComment(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, sharedDomain.Storagef("find comment", err)
	}
	return comment, nil
}

// FindByTask retrieves the task's comments, oldest first.
func (r *SQLiteCommentRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	query := `SELECT ` + sqliteCommentColumns + ` FROM comments WHERE task_id = ? ORDER BY created_at`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, taskID.String())
	if err != nil {
		return nil, sharedDomain.Storagef("query comments", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanSQLiteComment(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan comment", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Delete removes a comment permanently.
func (r *SQLiteCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM comments WHERE id = ?`, id.String())
	if err != nil {
		return sharedDomain.Storagef("delete comment", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("delete comment", err)
	}
	if affected == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

// DeleteByTask removes all comments of a task.
func (r *SQLiteCommentRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM comments WHERE task_id = ?`, taskID.String())
	if err != nil {
		return 0, sharedDomain.Storagef("delete task comments", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, sharedDomain.Storagef("delete task comments", err)
	}
	return affected, nil
}

func scanSQLiteComment(row rowScanner) (*domain.Comment, error) {
	var (
		idStr, taskIDStr, authorIDStr string
		content                       string
		mentionsRaw                   []byte
		attachmentsRaw                []byte
		likesRaw                      []byte
		repliesRaw                    []byte
		edited                        bool
		editedAt                      *time.Time
		createdAt, updatedAt          time.Time
	)

	err := row.Scan(
		&idStr, &taskIDStr, &authorIDStr, &content, &mentionsRaw, &attachmentsRaw,
		&likesRaw, &repliesRaw, &edited, &editedAt, &createdAt, &updatedAt,
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
	authorID, err := uuid.Parse(authorIDStr)
	if err != nil {
		return nil, err
	}

	return rehydrateComment(commentRowData{
		id: id, taskID: taskID, authorID: authorID, content: content,
		mentions: mentionsRaw, attachments: attachmentsRaw,
		likes: likesRaw, replies: repliesRaw,
		edited: edited, editedAt: editedAt,
		createdAt: createdAt, updatedAt: updatedAt,
	})
}
