// internal/arena/testutil_test.go
package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/DevWisdom08/Football-Arena/internal/cache"
	"github.com/DevWisdom08/Football-Arena/internal/models"
)

// eventWait bounds how long tests block on an expected event.
const eventWait = 2 * time.Second

// errDB stands in for a failed store call.
var errDB = errors.New("store unavailable")

// testTimings shrink every deferred delay so timer-driven paths finish
// inside a test run.
func testTimings(questions int) Timings {
	return Timings{
		QuestionCount:     questions,
		NextQuestionDelay: 5 * time.Millisecond,
		DuelLinger:        20 * time.Millisecond,
		TeamLinger:        20 * time.Millisecond,
		AnswerTimeout:     0, // enabled per-test where needed
	}
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// makeQuestions builds a bank where every question's correct answer is "A".
func makeQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			ID:            uuid.New(),
			Text:          fmt.Sprintf("Question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
		}
	}
	return qs
}

// stubSource serves a fixed bank, or a fixed error when Err is set.
type stubSource struct {
	Bank []models.Question
	Err  error
}

func (s *stubSource) SampleQuestions(ctx context.Context, count int) ([]models.Question, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if count > len(s.Bank) {
		return nil, errors.New("bank exhausted")
	}
	return s.Bank[:count], nil
}

// stubProgression applies deltas to in-memory users and remembers every call.
// Setting err makes ApplyDelta fail, for every player or, when failFor is
// set, for that player only.
type stubProgression struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*models.User
	deltas  map[uuid.UUID][]models.ProgressionDelta
	err     error
	failFor uuid.UUID
}

func newStubProgression() *stubProgression {
	return &stubProgression{
		users:  make(map[uuid.UUID]*models.User),
		deltas: make(map[uuid.UUID][]models.ProgressionDelta),
	}
}

func (p *stubProgression) seed(id uuid.UUID, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[id] = &models.User{ID: id, Username: name, Level: 1}
}

func (p *stubProgression) Player(ctx context.Context, id uuid.UUID) (*models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[id]
	if !ok {
		return nil, errors.New("no such user")
	}
	cp := *u
	return &cp, nil
}

func (p *stubProgression) ApplyDelta(ctx context.Context, id uuid.UUID, delta models.ProgressionDelta) (*models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil && (p.failFor == uuid.Nil || p.failFor == id) {
		return nil, p.err
	}
	u, ok := p.users[id]
	if !ok {
		return nil, errors.New("no such user")
	}
	u.XP += delta.XP
	u.Coins += delta.Coins
	u.TotalGames += delta.TotalGames
	u.DuelsPlayed += delta.DuelsPlayed
	u.TeamMatchesPlayed += delta.TeamMatchesPlayed
	p.deltas[id] = append(p.deltas[id], delta)
	cp := *u
	return &cp, nil
}

func (p *stubProgression) deltasFor(id uuid.UUID) []models.ProgressionDelta {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.ProgressionDelta(nil), p.deltas[id]...)
}

// stubRecorder collects published match records.
type stubRecorder struct {
	mu      sync.Mutex
	records []cache.MatchRecord
}

func (r *stubRecorder) RecordMatch(ctx context.Context, record cache.MatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *stubRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *stubRecorder) last() cache.MatchRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[len(r.records)-1]
}

func testSettler(p ProgressionStore, h HistoryRecorder) *Settler {
	return &Settler{Progression: p, History: h, Logger: testLogger()}
}

// drain empties a client's outgoing channel and returns everything queued.
func drain(c *Client) []any {
	var evs []any
	for {
		select {
		case ev := <-c.OutChan:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

// waitEvent blocks until an event matching the predicate arrives on the
// client's channel, failing the test after the deadline. Non-matching
// events are discarded.
func waitEvent(t *testing.T, c *Client, timeout time.Duration, match func(any) bool) any {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-c.OutChan:
			if match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event")
			return nil
		}
	}
}

func isType[T any](ev any) bool {
	_, ok := ev.(T)
	return ok
}
