package outbox

import (
	"testing"

	"github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outboxTestEvent struct {
	domain.BaseEvent
	Reason string `json:"reason"`
}

func TestNewMessage(t *testing.T) {
	aggregateID := uuid.New()
	event := &outboxTestEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Task", "tasking.task.completed"),
		Reason:    "checklist done",
	}

	msg, err := NewMessage(event)

	require.NoError(t, err)
	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, aggregateID, msg.AggregateID)
	assert.Equal(t, "Task", msg.AggregateType)
	assert.Equal(t, "tasking.task.completed", msg.RoutingKey)
	assert.Contains(t, string(msg.Payload), "checklist done")
	assert.False(t, msg.IsPublished())
}

func TestMessageCanRetry(t *testing.T) {
	msg := &Message{RetryCount: 2}
	assert.True(t, msg.CanRetry(3))
	assert.False(t, msg.CanRetry(2))
	assert.False(t, msg.CanRetry(0))
}
