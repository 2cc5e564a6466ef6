// internal/arena/registry.go
package arena

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks which room, if any, each live connection is routed to.
// It holds weak back-references only: rooms own their participants, the
// registry never controls lifecycle. Operations on unknown connections are
// no-ops, so disconnect cleanup can always run unconditionally.
type Registry struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]uuid.UUID // connection id -> room id
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[uuid.UUID]uuid.UUID)}
}

// Bind routes a connection to a room, replacing any previous binding.
func (r *Registry) Bind(connID, roomID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[connID] = roomID
}

// Unbind removes a connection's routing and reports the room it pointed to,
// so the caller can notify that room of the departure.
func (r *Registry) Unbind(connID uuid.UUID) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.rooms[connID]
	if ok {
		delete(r.rooms, connID)
	}
	return roomID, ok
}

// RoomOf reports the room a connection is currently routed to.
func (r *Registry) RoomOf(connID uuid.UUID) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.rooms[connID]
	return roomID, ok
}
