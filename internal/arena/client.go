// internal/arena/client.go
package arena

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Client is the in-memory handle for one live connection. The websocket
// layer owns the socket itself; the arena only ever pushes events onto
// OutChan and never blocks on a slow consumer.
type Client struct {
	// ID identifies the connection, not the account. A user reconnecting
	// gets a fresh Client with a fresh ID.
	ID       uuid.UUID
	UserID   uuid.UUID
	Username string

	OutChan chan any
	Cancel  func()
}

// NewClient builds a handle with a buffered outgoing channel.
func NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:      uuid.New(),
		UserID:  userID,
		OutChan: make(chan any, 16),
	}
}

// Write pushes an event onto the client's outgoing channel without blocking.
// Dropped events are logged; a consistently full channel means the write pump
// is gone and the read side will tear the connection down shortly.
func (c *Client) Write(ev any) {
	select {
	case c.OutChan <- ev:
	default:
		logrus.WithField("conn", c.ID).Warn("outgoing channel full, dropping event")
	}
}

// WriteError sends a generic error event to this client.
func (c *Client) WriteError(msg string) {
	c.Write(ErrorEvent{Type: EventError, Message: msg})
}
