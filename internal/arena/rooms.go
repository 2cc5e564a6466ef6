// internal/arena/rooms.go
package arena

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RoomStatus is the shared lifecycle domain of both room types. Transitions
// are strictly forward; Finished is terminal.
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusReady    RoomStatus = "ready"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// DuelStore holds the active duel rooms.
type DuelStore struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*DuelRoom
}

// NewDuelStore returns an empty duel room store.
func NewDuelStore() *DuelStore {
	return &DuelStore{rooms: make(map[uuid.UUID]*DuelRoom)}
}

// Add registers a room.
func (s *DuelStore) Add(r *DuelRoom) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
}

// Get looks a room up by id.
func (s *DuelStore) Get(id uuid.UUID) (*DuelRoom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Delete removes a room. Idempotent: deferred deletion callbacks may race
// with disconnect teardown.
func (s *DuelStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// TeamStore holds the active team rooms and the join-code index.
type TeamStore struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*TeamRoom
	codes map[string]uuid.UUID
}

// NewTeamStore returns an empty team room store.
func NewTeamStore() *TeamStore {
	return &TeamStore{
		rooms: make(map[uuid.UUID]*TeamRoom),
		codes: make(map[string]uuid.UUID),
	}
}

// Add registers a room and assigns it a join code unique among active rooms.
func (s *TeamStore) Add(r *TeamRoom) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := newJoinCode()
	for {
		if _, taken := s.codes[code]; !taken {
			break
		}
		code = newJoinCode()
	}
	r.JoinCode = code
	s.codes[code] = r.ID
	s.rooms[r.ID] = r
	logrus.WithFields(logrus.Fields{"room": r.ID, "code": code}).Info("team room registered")
}

// Get looks a room up by id.
func (s *TeamStore) Get(id uuid.UUID) (*TeamRoom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// GetByCode resolves a join code to its room.
func (s *TeamStore) GetByCode(code string) (*TeamRoom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.codes[code]
	if !ok {
		return nil, false
	}
	r, ok := s.rooms[id]
	return r, ok
}

// Delete removes a room and frees its join code. Idempotent.
func (s *TeamStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return
	}
	delete(s.codes, r.JoinCode)
	delete(s.rooms, id)
}
