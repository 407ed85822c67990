// Package persistence contains the storage implementations for
// notifications.
package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/notifications/domain"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresNotificationRepository implements domain.Repository using PostgreSQL.
type PostgresNotificationRepository struct {
	conn database.Connection
}

// NewPostgresNotificationRepository creates a new PostgreSQL notification repository.
func NewPostgresNotificationRepository(conn database.Connection) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{conn: conn}
}

const pgNotificationColumns = `
	id, user_id, task_id, title, message, type, read, read_at,
	action_url, priority, send_email, email_sent, email_error,
	created_at, updated_at
`

// Save upserts the notification.
func (r *PostgresNotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (
			id, user_id, task_id, title, message, type, read, read_at,
			action_url, priority, send_email, email_sent, email_error,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			read = EXCLUDED.read,
			read_at = EXCLUDED.read_at,
			email_sent = EXCLUDED.email_sent,
			email_error = EXCLUDED.email_error,
			updated_at = EXCLUDED.updated_at
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		n.ID(),
		n.UserID(),
		n.TaskID(),
		n.Title(),
		n.Message(),
		string(n.Type()),
		n.IsRead(),
		n.ReadAt(),
		n.ActionURL(),
		string(n.Priority()),
		n.SendEmail(),
		n.EmailSent(),
		n.EmailError(),
		n.CreatedAt(),
		n.UpdatedAt(),
	)
	if err != nil {
		return sharedDomain.Storagef("save notification", err)
	}
	return nil
}

// FindByID retrieves a notification by its ID.
func (r *PostgresNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	query := `SELECT ` + pgNotificationColumns + ` FROM notifications WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	n, err := scanPgNotification(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, sharedDomain.Storagef("find notification", err)
	}
	return n, nil
}

// FindByUser retrieves the user's notifications, newest first.
func (r *PostgresNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	query := `SELECT ` + pgNotificationColumns + ` FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, sharedDomain.Storagef("query notifications", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanPgNotification(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan notification", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnread counts the user's unread notifications.
func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	var count int
	err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID).Scan(&count)
	if err != nil {
		return 0, sharedDomain.Storagef("count notifications", err)
	}
	return count, nil
}

// MarkAllRead marks every unread notification for the user read.
func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		UPDATE notifications
		SET read = TRUE, read_at = NOW(), updated_at = NOW()
		WHERE user_id = $1 AND NOT read
	`, userID)
	if err != nil {
		return 0, sharedDomain.Storagef("mark notifications read", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, sharedDomain.Storagef("mark notifications read", err)
	}
	return affected, nil
}

// Delete removes a notification permanently.
func (r *PostgresNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return sharedDomain.Storagef("delete notification", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return sharedDomain.Storagef("delete notification", err)
	}
	if affected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// DeleteAllForUser removes all of the user's notifications.
func (r *PostgresNotificationRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, sharedDomain.Storagef("clear notifications", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, sharedDomain.Storagef("clear notifications", err)
	}
	return affected, nil
}

func scanPgNotification(row rowScanner) (*domain.Notification, error) {
	var (
		id, userID           uuid.UUID
		taskID               *uuid.UUID
		title, message       string
		notifType, priority  string
		read                 bool
		readAt               *time.Time
		actionURL            *string
		sendEmail, emailSent bool
		emailError           *string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&id, &userID, &taskID, &title, &message, &notifType, &read, &readAt,
		&actionURL, &priority, &sendEmail, &emailSent, &emailError,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateNotification(
		id, userID, taskID, title, message, domain.Type(notifType),
		read, readAt, actionURL, domain.Priority(priority),
		sendEmail, emailSent, emailError, createdAt, updatedAt,
	), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
