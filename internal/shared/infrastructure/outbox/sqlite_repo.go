package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	conn database.Connection
}

// NewSQLiteRepository creates a new SQLite outbox repository.
func NewSQLiteRepository(conn database.Connection) *SQLiteRepository {
	return &SQLiteRepository{conn: conn}
}

// Save stores a new outbox message.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	return exec.QueryRow(ctx, `
		INSERT INTO outbox (
			event_id, aggregate_type, aggregate_id, routing_key,
			payload, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.RoutingKey,
		string(msg.Payload),
		string(msg.Metadata),
		msg.CreatedAt.UTC(),
	).Scan(&msg.ID)
}

// SaveBatch stores multiple outbox messages within the ambient transaction.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished returns unpublished messages that are due for delivery.
func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT id, event_id, aggregate_type, aggregate_id, routing_key,
		       payload, metadata, created_at, published_at, next_retry_at,
		       retry_count, last_error, dead_lettered_at, dead_letter_reason
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= CURRENT_TIMESTAMP)
		ORDER BY id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteMessages(rows)
}

// MarkPublished records successful delivery.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx,
		`UPDATE outbox SET published_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// MarkFailed records a delivery failure and schedules a retry.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?
	`, errMsg, nextRetryAt.UTC(), id)
	return err
}

// MarkDead parks a message that exhausted its retries.
func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		UPDATE outbox
		SET dead_lettered_at = CURRENT_TIMESTAMP, dead_letter_reason = ?
		WHERE id = ?
	`, reason, id)
	return err
}

// DeleteOld removes published messages older than the retention window.
func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		DELETE FROM outbox
		WHERE published_at IS NOT NULL
		  AND published_at < datetime('now', ?)
	`, fmt.Sprintf("-%d days", olderThanDays))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanSQLiteMessages(rows database.Rows) ([]*Message, error) {
	var msgs []*Message
	for rows.Next() {
		var (
			msg            Message
			eventID, aggID string
			payload, meta  string
		)
		err := rows.Scan(
			&msg.ID,
			&eventID,
			&msg.AggregateType,
			&aggID,
			&msg.RoutingKey,
			&payload,
			&meta,
			&msg.CreatedAt,
			&msg.PublishedAt,
			&msg.NextRetryAt,
			&msg.RetryCount,
			&msg.LastError,
			&msg.DeadLetteredAt,
			&msg.DeadLetterReason,
		)
		if err != nil {
			return nil, err
		}
		if msg.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, err
		}
		if msg.AggregateID, err = uuid.Parse(aggID); err != nil {
			return nil, err
		}
		msg.Payload = []byte(payload)
		msg.Metadata = []byte(meta)
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}
