package domain

import (
	"errors"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComment(t *testing.T) *Comment {
	t.Helper()
	comment, err := NewComment(uuid.New(), uuid.New(), "looks good to me", nil, nil)
	require.NoError(t, err)
	comment.ClearDomainEvents()
	return comment
}

func TestNewComment(t *testing.T) {
	t.Run("emits comment added with mentions", func(t *testing.T) {
		mentioned := uuid.New()
		comment, err := NewComment(uuid.New(), uuid.New(), "ping @someone", []uuid.UUID{mentioned, mentioned}, nil)

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{mentioned}, comment.Mentions())

		events := comment.DomainEvents()
		require.Len(t, events, 1)
		added, ok := events[0].(*CommentAdded)
		require.True(t, ok)
		assert.Equal(t, "comments.comment.added", added.RoutingKey())
		assert.Equal(t, []uuid.UUID{mentioned}, added.Mentions)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		_, err := NewComment(uuid.New(), uuid.New(), "   ", nil, nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
	})
}

func TestCommentEdit(t *testing.T) {
	comment := newTestComment(t)
	now := time.Now().UTC()

	require.NoError(t, comment.Edit("revised take", nil, now))

	assert.Equal(t, "revised take", comment.Content())
	assert.True(t, comment.IsEdited())
	require.NotNil(t, comment.EditedAt())
	assert.Equal(t, now, *comment.EditedAt())

	require.Error(t, comment.Edit("", nil, now))
}

func TestCommentToggleLike(t *testing.T) {
	comment := newTestComment(t)
	userID := uuid.New()

	assert.True(t, comment.ToggleLike(userID))
	assert.Equal(t, []uuid.UUID{userID}, comment.Likes())

	assert.False(t, comment.ToggleLike(userID))
	assert.Empty(t, comment.Likes())
}

func TestCommentAddReply(t *testing.T) {
	comment := newTestComment(t)
	authorID := uuid.New()

	reply, err := comment.AddReply(authorID, "agreed")

	require.NoError(t, err)
	assert.Equal(t, authorID, reply.AuthorID)
	require.Len(t, comment.Replies(), 1)
	assert.Equal(t, reply.ID, comment.Replies()[0].ID)

	_, err = comment.AddReply(authorID, "  ")
	require.Error(t, err)
}

func TestCommentExcerpt(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	comment, err := NewComment(uuid.New(), uuid.New(), string(long), nil, nil)
	require.NoError(t, err)

	added := comment.DomainEvents()[0].(*CommentAdded)
	assert.Len(t, []rune(added.Excerpt), excerptLength+1)
}
