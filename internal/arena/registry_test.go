// internal/arena/registry_test.go
package arena

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegistryBindUnbind(t *testing.T) {
	reg := NewRegistry()
	conn := uuid.New()
	room := uuid.New()

	_, ok := reg.RoomOf(conn)
	assert.False(t, ok)

	reg.Bind(conn, room)
	got, ok := reg.RoomOf(conn)
	assert.True(t, ok)
	assert.Equal(t, room, got)

	got, ok = reg.Unbind(conn)
	assert.True(t, ok)
	assert.Equal(t, room, got)

	// Second unbind is a no-op.
	_, ok = reg.Unbind(conn)
	assert.False(t, ok)
}

func TestRegistryRebindReplaces(t *testing.T) {
	reg := NewRegistry()
	conn := uuid.New()
	first := uuid.New()
	second := uuid.New()

	reg.Bind(conn, first)
	reg.Bind(conn, second)

	got, ok := reg.RoomOf(conn)
	assert.True(t, ok)
	assert.Equal(t, second, got)
}
