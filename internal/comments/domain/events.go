package domain

import (
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Comment"

const excerptLength = 120

// CommentAdded is emitted when a comment is posted on a task.
type CommentAdded struct {
	sharedDomain.BaseEvent
	CommentID uuid.UUID   `json:"comment_id"`
	TaskID    uuid.UUID   `json:"task_id"`
	AuthorID  uuid.UUID   `json:"author_id"`
	Mentions  []uuid.UUID `json:"mentions"`
	Excerpt   string      `json:"excerpt"`
}

// NewCommentAdded creates a CommentAdded event.
func NewCommentAdded(c *Comment) *CommentAdded {
	return &CommentAdded{
		BaseEvent: sharedDomain.NewBaseEvent(c.ID(), aggregateType, "comments.comment.added"),
		CommentID: c.ID(),
		TaskID:    c.TaskID(),
		AuthorID:  c.AuthorID(),
		Mentions:  c.Mentions(),
		Excerpt:   excerpt(c.Content()),
	}
}

// CommentDeleted is emitted when a comment is removed.
type CommentDeleted struct {
	sharedDomain.BaseEvent
	CommentID uuid.UUID `json:"comment_id"`
	TaskID    uuid.UUID `json:"task_id"`
}

// NewCommentDeleted creates a CommentDeleted event.
func NewCommentDeleted(c *Comment) *CommentDeleted {
	return &CommentDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(c.ID(), aggregateType, "comments.comment.deleted"),
		CommentID: c.ID(),
		TaskID:    c.TaskID(),
	}
}

func excerpt(content string) string {
	if len(content) <= excerptLength {
		return content
	}
	return content[:excerptLength] + "…"
}
