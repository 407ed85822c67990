package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBaseEntity(t *testing.T) {
	t.Run("new entity has identity and timestamps", func(t *testing.T) {
		e := NewBaseEntity()
		assert.NotEqual(t, uuid.Nil, e.ID())
		assert.False(t, e.CreatedAt().IsZero())
		assert.Equal(t, e.CreatedAt(), e.UpdatedAt())
	})

	t.Run("touch advances updatedAt only", func(t *testing.T) {
		e := NewBaseEntity()
		created := e.CreatedAt()
		time.Sleep(time.Millisecond)
		e.Touch()
		assert.Equal(t, created, e.CreatedAt())
		assert.True(t, e.UpdatedAt().After(created))
	})

	t.Run("equals compares identity", func(t *testing.T) {
		a := NewBaseEntity()
		b := NewBaseEntity()
		assert.True(t, a.Equals(a))
		assert.False(t, a.Equals(b))
		assert.False(t, a.Equals(nil))
	})

	t.Run("rehydrate preserves persisted state", func(t *testing.T) {
		id := uuid.New()
		created := time.Now().Add(-time.Hour).UTC()
		updated := time.Now().UTC()
		e := RehydrateBaseEntity(id, created, updated)
		assert.Equal(t, id, e.ID())
		assert.Equal(t, created, e.CreatedAt())
		assert.Equal(t, updated, e.UpdatedAt())
	})
}

func TestBaseAggregateRoot(t *testing.T) {
	t.Run("collects and clears domain events", func(t *testing.T) {
		a := NewBaseAggregateRoot()
		assert.Empty(t, a.DomainEvents())

		a.AddDomainEvent(NewBaseEvent(a.ID(), "Test", "test.created"))
		a.AddDomainEvent(NewBaseEvent(a.ID(), "Test", "test.updated"))
		assert.Len(t, a.DomainEvents(), 2)

		a.ClearDomainEvents()
		assert.Empty(t, a.DomainEvents())
	})

	t.Run("rehydrated aggregate keeps version", func(t *testing.T) {
		a := RehydrateBaseAggregateRoot(NewBaseEntity(), 7)
		assert.Equal(t, 7, a.Version())
		assert.Empty(t, a.DomainEvents())
	})
}
