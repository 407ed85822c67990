package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/notifications/domain"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteNotificationRepository implements domain.Repository using SQLite.
type SQLiteNotificationRepository struct {
	conn database.Connection
}

// NewSQLiteNotificationRepository creates a new SQLite notification repository.
func NewSQLiteNotificationRepository(conn database.Connection) *SQLiteNotificationRepository {
	return &SQLiteNotificationRepository{conn: conn}
}

const sqliteNotificationColumns = `
	id, user_id, task_id, title, message, type, read, read_at,
	action_url, priority, send_email, email_sent, email_error,
	created_at, updated_at
`

// Save upserts the notification.
func (r *SQLiteNotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	var taskID *string
	if n.TaskID() != nil {
		s := n.TaskID().String()
		taskID = &s
	}
	var readAt *time.Time
	if n.ReadAt() != nil {
		t := n.ReadAt().UTC()
		readAt = &t
	}

	query := `
		INSERT INTO notifications (
			id, user_id, task_id, title, message, type, read, read_at,
			action_url, priority, send_email, email_sent, email_error,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			read = excluded.read,
			read_at = excluded.read_at,
			email_sent = excluded.email_sent,
			email_error = excluded.email_error,
			updated_at = excluded.updated_at
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		n.ID().String(),
		n.UserID().String(),
		taskID,
		n.Title(),
		n.Message(),
		string(n.Type()),
		n.IsRead(),
		readAt,
		n.ActionURL(),
		string(n.Priority()),
		n.SendEmail(),
		n.EmailSent(),
		n.EmailError(),
		n.CreatedAt().UTC(),
		n.UpdatedAt().UTC(),
	)
	if err != nil {
		return sharedDomain.Storagef("save notification", err)
	}
	return nil
}

// FindByID retrieves a notification by its ID.
func (r *SQLiteNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	query := `SELECT ` + sqliteNotificationColumns + ` FROM notifications WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	n, err := scanSQLiteNotification(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, sharedDomain.Storagef("find notification", err)
	}
	return n, nil
}

// FindByUser retrieves the user's notifications, newest first.
func (r *SQLiteNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	query := `SELECT ` + sqliteNotificationColumns + ` FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY created_at DESC LIMIT ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, userID.String(), limit)
	if err != nil {
		return nil, sharedDomain.Storagef("query notifications", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanSQLiteNotification(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan notification", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnread counts the user's unread notifications.
func (r *SQLiteNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	var count int
	err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID.String()).Scan(&count)
	if err != nil {
		return 0, sharedDomain.Storagef("count notifications", err)
	}
	return count, nil
}

// MarkAllRead marks every unread notification for the user read.
func (r *SQLiteNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now().UTC()
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		UPDATE notifications
		SET read = 1, read_at = ?, updated_at = ?
		WHERE user_id = ? AND read = 0
	`, now, now, userID.String())
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
func (r *SQLiteNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM notifications WHERE id = ?`, id.String())
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
func (r *SQLiteNotificationRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID.String())
	if err != nil {
		return 0, sharedDomain.Storagef("clear notifications", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, sharedDomain.Storagef("clear notifications", err)
	}
	return affected, nil
}

func scanSQLiteNotification(row rowScanner) (*domain.Notification, error) {
	var (
		idStr, userIDStr     string
		taskIDStr            *string
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
		&idStr, &userIDStr, &taskIDStr, &title, &message, &notifType, &read, &readAt,
		&actionURL, &priority, &sendEmail, &emailSent, &emailError,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	var taskID *uuid.UUID
	if taskIDStr != nil {
		parsed, err := uuid.Parse(*taskIDStr)
		if err != nil {
			return nil, err
		}
		taskID = &parsed
	}

	return domain.RehydrateNotification(
		id, userID, taskID, title, message, domain.Type(notifType),
		read, readAt, actionURL, domain.Priority(priority),
		sendEmail, emailSent, emailError, createdAt, updatedAt,
	), nil
}
