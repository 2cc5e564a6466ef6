// internal/arena/queue.go
package arena

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxLevelGap is the widest level difference two duel candidates may have.
const maxLevelGap = 5

// regionGlobal matches any other region.
const regionGlobal = "global"

// Ticket is one waiting matchmaking entry, keyed by connection id.
type Ticket struct {
	Client   *Client
	UserID   uuid.UUID
	Username string
	Level    int
	Region   string
	Since    time.Time
}

// MatchQueue pairs duel candidates first-fit in arrival order.
type MatchQueue struct {
	mu      sync.Mutex
	tickets []*Ticket

	source   QuestionSource
	duels    *DuelStore
	registry *Registry
	settler  *Settler
	timings  Timings
	logger   *logrus.Logger
}

func NewMatchQueue(source QuestionSource, duels *DuelStore, registry *Registry, settler *Settler, timings Timings, logger *logrus.Logger) *MatchQueue {
	return &MatchQueue{
		source:   source,
		duels:    duels,
		registry: registry,
		settler:  settler,
		timings:  timings,
		logger:   logger,
	}
}

// Enqueue adds a candidate and scans for the oldest compatible opponent.
// A connection already waiting is rejected rather than re-queued. On a
// question-bank failure the candidate keeps their queue position and the
// requester gets the error.
func (q *MatchQueue) Enqueue(ctx context.Context, client *Client, userID uuid.UUID, username string, level int, region string) error {
	if region == "" {
		region = regionGlobal
	}
	ticket := &Ticket{
		Client:   client,
		UserID:   userID,
		Username: username,
		Level:    level,
		Region:   region,
		Since:    time.Now(),
	}

	q.mu.Lock()
	for _, t := range q.tickets {
		if t.Client.ID == client.ID {
			q.mu.Unlock()
			return ErrAlreadyQueued
		}
	}

	var match *Ticket
	idx := -1
	for i, t := range q.tickets {
		if compatible(ticket, t) {
			match, idx = t, i
			break
		}
	}
	if match == nil {
		q.tickets = append(q.tickets, ticket)
		q.mu.Unlock()
		client.Write(SearchingEvent{Type: EventSearching, Message: "Searching for an opponent..."})
		return nil
	}
	q.tickets = append(q.tickets[:idx], q.tickets[idx+1:]...)
	q.mu.Unlock()

	questions, err := q.source.SampleQuestions(ctx, q.timings.QuestionCount)
	if err != nil {
		// The candidate did nothing wrong; give their slot back at the front.
		q.mu.Lock()
		q.tickets = append([]*Ticket{match}, q.tickets...)
		q.mu.Unlock()
		q.logger.WithError(err).Error("question sampling failed, candidate re-queued")
		return fmt.Errorf("failed to load questions: %w", err)
	}

	room := NewDuelRoom(
		&Slot{Client: ticket.Client, UserID: ticket.UserID, Username: ticket.Username},
		&Slot{Client: match.Client, UserID: match.UserID, Username: match.Username},
		questions, q.timings, q.settler, q.logger,
		func(roomID uuid.UUID) {
			q.duels.Delete(roomID)
			q.registry.Unbind(ticket.Client.ID)
			q.registry.Unbind(match.Client.ID)
		},
	)
	q.duels.Add(room)
	q.registry.Bind(ticket.Client.ID, room.ID)
	q.registry.Bind(match.Client.ID, room.ID)

	q.logger.WithFields(logrus.Fields{
		"room":    room.ID,
		"player1": ticket.Username,
		"player2": match.Username,
	}).Info("duel matched")

	ticket.Client.Write(MatchFoundEvent{Type: EventMatchFound, RoomID: room.ID, Opponent: match.Username, Message: "Match found!"})
	match.Client.Write(MatchFoundEvent{Type: EventMatchFound, RoomID: room.ID, Opponent: ticket.Username, Message: "Match found!"})
	return nil
}

// Cancel removes a waiting ticket. Returns false when the connection was
// not queued, which callers treat as a no-op.
func (q *MatchQueue) Cancel(connID uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.tickets {
		if t.Client.ID == connID {
			q.tickets = append(q.tickets[:i], q.tickets[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the number of waiting tickets.
func (q *MatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tickets)
}

// compatible requires a level gap of at most maxLevelGap and either side
// queueing globally or both naming the same region.
func compatible(a, b *Ticket) bool {
	gap := a.Level - b.Level
	if gap < 0 {
		gap = -gap
	}
	if gap > maxLevelGap {
		return false
	}
	return a.Region == regionGlobal || b.Region == regionGlobal || a.Region == b.Region
}
