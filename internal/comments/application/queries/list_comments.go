// Package queries contains read-side handlers for comments.
package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/comments/domain"
	"github.com/google/uuid"
)

// ReplyDTO is the read model for a nested reply.
type ReplyDTO struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentDTO is the read model for a comment.
type CommentDTO struct {
	ID          uuid.UUID   `json:"id"`
	TaskID      uuid.UUID   `json:"taskId"`
	AuthorID    uuid.UUID   `json:"authorId"`
	Content     string      `json:"content"`
	Mentions    []uuid.UUID `json:"mentions,omitempty"`
	Attachments []string    `json:"attachments,omitempty"`
	Likes       []uuid.UUID `json:"likes,omitempty"`
	LikeCount   int         `json:"likeCount"`
	Replies     []ReplyDTO  `json:"replies,omitempty"`
	Edited      bool        `json:"edited"`
	EditedAt    *time.Time  `json:"editedAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// ListCommentsQuery requests the comments of a task, oldest first.
type ListCommentsQuery struct {
	TaskID uuid.UUID
}

// ListCommentsHandler handles the ListCommentsQuery.
type ListCommentsHandler struct {
	commentRepo domain.Repository
}

// NewListCommentsHandler creates a new ListCommentsHandler.
func NewListCommentsHandler(commentRepo domain.Repository) *ListCommentsHandler {
	return &ListCommentsHandler{commentRepo: commentRepo}
}

// Handle executes the ListCommentsQuery.
func (h *ListCommentsHandler) Handle(ctx context.Context, query ListCommentsQuery) ([]CommentDTO, error) {
	comments, err := h.commentRepo.FindByTask(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}

	dtos := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		replies := make([]ReplyDTO, 0, len(c.Replies()))
		for _, r := range c.Replies() {
			replies = append(replies, ReplyDTO{
				ID:        r.ID,
				AuthorID:  r.AuthorID,
				Content:   r.Content,
				CreatedAt: r.CreatedAt,
			})
		}
		dtos = append(dtos, CommentDTO{
			ID:          c.ID(),
			TaskID:      c.TaskID(),
			AuthorID:    c.AuthorID(),
			Content:     c.Content(),
			Mentions:    c.Mentions(),
			Attachments: c.Attachments(),
			Likes:       c.Likes(),
			LikeCount:   len(c.Likes()),
			Replies:     replies,
			Edited:      c.IsEdited(),
			EditedAt:    c.EditedAt(),
			CreatedAt:   c.CreatedAt(),
		})
	}
	return dtos, nil
}
