package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogEntry(t *testing.T) {
	t.Run("valid entry", func(t *testing.T) {
		e, err := NewLogEntry(uuid.New(), "order.status_changed", "Order", uuid.New())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, e.ID)
		assert.False(t, e.OccurredAt.IsZero())
		assert.Nil(t, e.ActorID)
	})

	t.Run("empty action rejected", func(t *testing.T) {
		_, err := NewLogEntry(uuid.New(), " ", "Order", uuid.New())
		assert.Error(t, err)
	})

	t.Run("empty entity type rejected", func(t *testing.T) {
		_, err := NewLogEntry(uuid.New(), "order.created", "", uuid.New())
		assert.Error(t, err)
	})
}

func TestLogEntryBuilders(t *testing.T) {
	actor := uuid.New()
	e, err := NewLogEntry(uuid.New(), "partner.updated", "Partner", uuid.New())
	require.NoError(t, err)

	e.WithActor(actor).
		WithSnapshots(`{"status":"active"}`, `{"status":"blocked"}`).
		WithRequestID("req-123")

	require.NotNil(t, e.ActorID)
	assert.Equal(t, actor, *e.ActorID)
	assert.Contains(t, e.Before, "active")
	assert.Contains(t, e.After, "blocked")
	assert.Equal(t, "req-123", e.RequestID)
}
