// internal/arena/errors.go
package arena

import "errors"

// Failure taxonomy surfaced to clients as error events. Everything here is
// scoped to one connection or room; nothing is fatal to the process.
var (
	ErrAlreadyQueued   = errors.New("already in matchmaking queue")
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotInRoom       = errors.New("not a participant of this room")
	ErrInvalidState    = errors.New("action not valid in the room's current state")
	ErrUnauthorized    = errors.New("only the host can perform this action")
	ErrRoomFull        = errors.New("room is full")
	ErrDuplicateAnswer = errors.New("answer already submitted for this question")
	ErrWrongQuestion   = errors.New("answer does not reference the current question")
)
