// Package domain contains the comment model for task discussions.
package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrCommentNotFound = sharedDomain.NotFoundf("comment not found")
	ErrEmptyContent    = sharedDomain.Validationf("comment content is required")
)

// Reply is a lightweight nested response stored inside its parent
// comment. Replies are append-only.
type Reply struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a discussion entry on a task.
type Comment struct {
	sharedDomain.BaseAggregateRoot
	taskID      uuid.UUID
	authorID    uuid.UUID
	content     string
	mentions    []uuid.UUID
	attachments []string
	likes       []uuid.UUID
	replies     []Reply
	edited      bool
	editedAt    *time.Time
}

// NewComment creates a comment on a task.
func NewComment(taskID, authorID uuid.UUID, content string, mentions []uuid.UUID, attachments []string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment := &Comment{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		taskID:            taskID,
		authorID:          authorID,
		content:           content,
		mentions:          dedupeIDs(mentions),
		attachments:       attachments,
	}

	comment.AddDomainEvent(NewCommentAdded(comment))

	return comment, nil
}

// RehydrateComment recreates a comment from persisted state.
func RehydrateComment(
	id, taskID, authorID uuid.UUID,
	content string,
	mentions []uuid.UUID,
	attachments []string,
	likes []uuid.UUID,
	replies []Reply,
	edited bool,
	editedAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) *Comment {
	return &Comment{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		taskID:      taskID,
		authorID:    authorID,
		content:     content,
		mentions:    mentions,
		attachments: attachments,
		likes:       likes,
		replies:     replies,
		edited:      edited,
		editedAt:    editedAt,
	}
}

// Getters
func (c *Comment) TaskID() uuid.UUID     { return c.taskID }
func (c *Comment) AuthorID() uuid.UUID   { return c.authorID }
func (c *Comment) Content() string       { return c.content }
func (c *Comment) Mentions() []uuid.UUID { return c.mentions }
func (c *Comment) Attachments() []string { return c.attachments }
func (c *Comment) Likes() []uuid.UUID    { return c.likes }
func (c *Comment) Replies() []Reply      { return c.replies }
func (c *Comment) IsEdited() bool        { return c.edited }
func (c *Comment) EditedAt() *time.Time  { return c.editedAt }

// IsAuthoredBy checks if the comment was written by the user.
func (c *Comment) IsAuthoredBy(userID uuid.UUID) bool {
	return c.authorID == userID
}

// Edit replaces the content and mentions, flagging the comment as
// edited.
func (c *Comment) Edit(content string, mentions []uuid.UUID, now time.Time) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}

	c.content = content
	c.mentions = dedupeIDs(mentions)
	c.edited = true
	c.editedAt = &now
	c.Touch()
	return nil
}

// ToggleLike adds the user's like, or removes it when already present.
// Returns true when the comment ends up liked.
func (c *Comment) ToggleLike(userID uuid.UUID) bool {
	for i, id := range c.likes {
		if id == userID {
			c.likes = append(c.likes[:i], c.likes[i+1:]...)
			c.Touch()
			return false
		}
	}
	c.likes = append(c.likes, userID)
	c.Touch()
	return true
}

// AddReply appends a reply to the comment.
func (c *Comment) AddReply(authorID uuid.UUID, content string) (*Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	reply := Reply{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	c.replies = append(c.replies, reply)
	c.Touch()
	return &reply, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
