package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingConsumer struct {
	types   []string
	handled []*ConsumedEvent
	err     error
}

func (c *recordingConsumer) EventTypes() []string { return c.types }

func (c *recordingConsumer) Handle(_ context.Context, event *ConsumedEvent) error {
	c.handled = append(c.handled, event)
	return c.err
}

func TestConsumerRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to consumers of matching type", func(t *testing.T) {
		registry := NewConsumerRegistry(nil)
		completed := &recordingConsumer{types: []string{"tasking.task.completed"}}
		created := &recordingConsumer{types: []string{"tasking.task.created"}}
		registry.Register(completed)
		registry.Register(created)

		event := &ConsumedEvent{EventID: uuid.New(), RoutingKey: "tasking.task.completed"}
		err := registry.Dispatch(ctx, event)

		assert.NoError(t, err)
		assert.Len(t, completed.handled, 1)
		assert.Empty(t, created.handled)
	})

	t.Run("one failing consumer does not block others", func(t *testing.T) {
		registry := NewConsumerRegistry(nil)
		failing := &recordingConsumer{
			types: []string{"tasking.task.assigned"},
			err:   errors.New("projection store down"),
		}
		healthy := &recordingConsumer{types: []string{"tasking.task.assigned"}}
		registry.Register(failing)
		registry.Register(healthy)

		err := registry.Dispatch(ctx, &ConsumedEvent{RoutingKey: "tasking.task.assigned"})

		assert.Error(t, err)
		assert.Len(t, failing.handled, 1)
		assert.Len(t, healthy.handled, 1)
	})

	t.Run("no consumers is not an error", func(t *testing.T) {
		registry := NewConsumerRegistry(nil)
		assert.NoError(t, registry.Dispatch(ctx, &ConsumedEvent{RoutingKey: "tasking.task.deleted"}))
	})

	t.Run("registers one consumer for several types", func(t *testing.T) {
		registry := NewConsumerRegistry(nil)
		consumer := &recordingConsumer{types: []string{"a.b.c", "a.b.d"}}
		registry.Register(consumer)

		assert.ElementsMatch(t, []string{"a.b.c", "a.b.d"}, registry.GetAllEventTypes())
	})
}
