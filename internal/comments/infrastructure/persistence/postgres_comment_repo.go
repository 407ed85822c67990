// Package persistence contains the storage implementations for comments.
package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/comments/domain"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresCommentRepository implements domain.Repository using PostgreSQL.
type PostgresCommentRepository struct {
	conn database.Connection
}

// NewPostgresCommentRepository creates a new PostgreSQL comment repository.
func NewPostgresCommentRepository(conn database.Connection) *PostgresCommentRepository {
	return &PostgresCommentRepository{conn: conn}
}

const pgCommentColumns = `
	id, task_id, author_id, content, mentions, attachments, likes,
	replies, edited, edited_at, created_at, updated_at
`

// Save upserts the comment.
func (r *PostgresCommentRepository) Save(ctx context.Context, comment *domain.Comment) error {
	lists, err := marshalCommentLists(comment)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO comments (
			id, task_id, author_id, content, mentions, attachments, likes,
			replies, edited, edited_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			mentions = EXCLUDED.mentions,
			attachments = EXCLUDED.attachments,
			likes = EXCLUDED.likes,
			replies = EXCLUDED.replies,
			edited = EXCLUDED.edited,
			edited_at = EXCLUDED.edited_at,
			updated_at = EXCLUDED.updated_at
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err = exec.Exec(ctx, query,
		comment.ID(),
		comment.TaskID(),
		comment.AuthorID(),
		comment.Content(),
		lists.mentions,
		lists.attachments,
		lists.likes,
		lists.replies,
		comment.IsEdited(),
		comment.EditedAt(),
		comment.CreatedAt(),
		comment.UpdatedAt(),
	)
	if err != nil {
		return sharedDomain.Storagef("save comment", err)
	}
	return nil
}

// FindByID retrieves a comment by its ID.
func (r *PostgresCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `SELECT ` + pgCommentColumns + ` FROM comments WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	comment, err := scanPgComment(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, sharedDomain.Storagef("find comment", err)
	}
	return comment, nil
}

// FindByTask retrieves the task's comments, oldest first.
func (r *PostgresCommentRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	query := `SELECT ` + pgCommentColumns + ` FROM comments WHERE task_id = $1 ORDER BY created_at`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, taskID)
	if err != nil {
		return nil, sharedDomain.Storagef("query comments", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanPgComment(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan comment", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Delete removes a comment permanently.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
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
func (r *PostgresCommentRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM comments WHERE task_id = $1`, taskID)
	if err != nil {
		return 0, sharedDomain.Storagef("delete task comments", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, sharedDomain.Storagef("delete task comments", err)
	}
	return affected, nil
}

type commentLists struct {
	mentions    []byte
	attachments []byte
	likes       []byte
	replies     []byte
}

func marshalCommentLists(comment *domain.Comment) (*commentLists, error) {
	mentions, err := json.Marshal(comment.Mentions())
	if err != nil {
		return nil, err
	}
	attachments, err := json.Marshal(comment.Attachments())
	if err != nil {
		return nil, err
	}
	likes, err := json.Marshal(comment.Likes())
	if err != nil {
		return nil, err
	}
	replies, err := json.Marshal(comment.Replies())
	if err != nil {
		return nil, err
	}
	return &commentLists{
		mentions:    mentions,
		attachments: attachments,
		likes:       likes,
		replies:     replies,
	}, nil
}

func scanPgComment(row rowScanner) (*domain.Comment, error) {
	var (
		id, taskID, authorID uuid.UUID
		content              string
		mentionsRaw          []byte
		attachmentsRaw       []byte
		likesRaw             []byte
		repliesRaw           []byte
		edited               bool
		editedAt             *time.Time
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&id, &taskID, &authorID, &content, &mentionsRaw, &attachmentsRaw,
		&likesRaw, &repliesRaw, &edited, &editedAt, &createdAt, &updatedAt,
	)
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

// commentRowData is the driver-neutral row shape both repositories decode.
type commentRowData struct {
	id          uuid.UUID
	taskID      uuid.UUID
	authorID    uuid.UUID
	content     string
	mentions    []byte
	attachments []byte
	likes       []byte
	replies     []byte
	edited      bool
	editedAt    *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func rehydrateComment(row commentRowData) (*domain.Comment, error) {
	var mentions, likes []uuid.UUID
	var attachments []string
	var replies []domain.Reply

	if err := json.Unmarshal(row.mentions, &mentions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.attachments, &attachments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.likes, &likes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.replies, &replies); err != nil {
		return nil, err
	}

	return domain.RehydrateComment(
		row.id, row.taskID, row.authorID, row.content,
		mentions, attachments, likes, replies,
		row.edited, row.editedAt, 0, row.createdAt, row.updatedAt,
	), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
