// internal/arena/duel.go
package arena

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/DevWisdom08/Football-Arena/internal/cache"
	"github.com/DevWisdom08/Football-Arena/internal/models"
)

// DuelRoom is the two-player room state machine. The matchmaking queue
// creates it directly in Ready status; every handler runs to completion
// under the room mutex, so within one room no two operations interleave.
type DuelRoom struct {
	ID    uuid.UUID
	SlotA *Slot
	SlotB *Slot

	// Questions is fixed at creation and identical for both slots.
	Questions  []models.Question
	Index      int
	Status     RoomStatus
	StartedAt  time.Time
	FinishedAt time.Time

	mu      sync.Mutex
	timings Timings
	settler *Settler
	logger  *logrus.Logger
	onClose func(roomID uuid.UUID)

	nextTimer   *time.Timer
	answerTimer *time.Timer
	deleteTimer *time.Timer
}

// NewDuelRoom builds a Ready room for a freshly matched pair. onClose is
// invoked exactly once when the room leaves the active set (post-finish
// linger expiry or disconnect teardown).
func NewDuelRoom(a, b *Slot, questions []models.Question, timings Timings, settler *Settler, logger *logrus.Logger, onClose func(uuid.UUID)) *DuelRoom {
	return &DuelRoom{
		ID:        uuid.New(),
		SlotA:     a,
		SlotB:     b,
		Questions: questions,
		Status:    StatusReady,
		timings:   timings,
		settler:   settler,
		logger:    logger,
		onClose:   onClose,
	}
}

// MarkReady flips the caller's ready flag. Once both slots are ready the
// room transitions to Playing and question index 0 goes out to both clients.
func (r *DuelRoom) MarkReady(connID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusReady && r.Status != StatusWaiting {
		return ErrInvalidState
	}
	slot := r.slotFor(connID)
	if slot == nil {
		return ErrNotInRoom
	}
	slot.Ready = true

	if !r.SlotA.Ready || !r.SlotB.Ready {
		r.broadcastLocked(PlayerReadyEvent{Type: EventPlayerReady, Message: "Waiting for other player..."})
		return nil
	}

	r.Status = StatusPlaying
	r.StartedAt = time.Now()
	r.broadcastLocked(GameStartedEvent{
		Type:           EventGameStarted,
		Question:       r.Questions[0].View(),
		QuestionNumber: 1,
		TotalQuestions: len(r.Questions),
	})
	r.scheduleAnswerTimeoutLocked()
	return nil
}

// SubmitAnswer records and scores one submission for the current question.
// A slot may answer each question index exactly once; duplicates are
// rejected without state change.
func (r *DuelRoom) SubmitAnswer(connID, questionID uuid.UUID, value string, timeMs int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusPlaying {
		return ErrInvalidState
	}
	slot := r.slotFor(connID)
	if slot == nil {
		return ErrNotInRoom
	}
	if len(slot.Answers) > r.Index {
		return ErrDuplicateAnswer
	}
	q := &r.Questions[r.Index]
	if questionID != q.ID {
		return ErrWrongQuestion
	}
	if timeMs < 0 {
		timeMs = 0
	}

	opp := r.opponentOf(slot)
	verdict := Adjudicate(q.CorrectAnswer, value, timeMs, opp.answerAt(r.Index), true)
	slot.Answers = append(slot.Answers, Answer{QuestionID: q.ID, Value: value, Correct: verdict.Correct, TimeMs: timeMs})
	slot.Score += verdict.Points

	slot.Client.Write(AnswerResultEvent{
		Type:          EventAnswerResult,
		Correct:       verdict.Correct,
		CorrectAnswer: q.CorrectAnswer,
		Score:         slot.Score,
		AttackResult:  verdict.Attack,
	})

	if r.barrierMetLocked() {
		r.advanceLocked()
	} else {
		opp.Client.Write(OpponentAnsweredEvent{
			Type:         EventOpponentAnswered,
			Message:      "Opponent has answered",
			Correct:      verdict.Correct,
			AttackResult: verdict.Attack,
		})
	}
	return nil
}

// HandleDisconnect tears the room down when either connection drops before
// Finished: the survivor is notified and no settlement runs.
func (r *DuelRoom) HandleDisconnect(connID uuid.UUID) {
	r.mu.Lock()
	if r.Status == StatusFinished {
		r.mu.Unlock()
		return
	}
	slot := r.slotFor(connID)
	if slot == nil {
		r.mu.Unlock()
		return
	}

	r.Status = StatusFinished
	r.FinishedAt = time.Now()
	r.stopTimersLocked()

	other := r.opponentOf(slot)
	other.Client.Write(OpponentDisconnectedEvent{
		Type:    EventOpponentDisconnected,
		Message: "Your opponent has disconnected",
	})
	r.logger.WithFields(logrus.Fields{"room": r.ID, "conn": connID}).Info("duel torn down on disconnect")
	r.mu.Unlock()

	r.close()
}

// barrierMetLocked reports whether both slots have answered the current index.
func (r *DuelRoom) barrierMetLocked() bool {
	return len(r.SlotA.Answers) == r.Index+1 && len(r.SlotB.Answers) == r.Index+1
}

// advanceLocked runs after the barrier completes: either schedules the next
// question push or finalizes the room.
func (r *DuelRoom) advanceLocked() {
	if r.answerTimer != nil {
		r.answerTimer.Stop()
		r.answerTimer = nil
	}

	if r.Index < len(r.Questions)-1 {
		r.Index++
		idx := r.Index
		r.nextTimer = time.AfterFunc(r.timings.NextQuestionDelay, func() {
			r.pushQuestion(idx)
		})
		return
	}
	r.finishLocked()
}

// pushQuestion is the deferred next-question delivery. Guarded: a room that
// finished or was torn down in the meantime makes this a no-op.
func (r *DuelRoom) pushQuestion(idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusPlaying || r.Index != idx {
		return
	}
	r.broadcastLocked(NextQuestionEvent{
		Type:           EventNextQuestion,
		Question:       r.Questions[idx].View(),
		QuestionNumber: idx + 1,
		TotalQuestions: len(r.Questions),
		Scores:         DuelScores{Player1: r.SlotA.Score, Player2: r.SlotB.Score},
	})
	r.scheduleAnswerTimeoutLocked()
}

// scheduleAnswerTimeoutLocked arms the per-question timeout, if enabled.
func (r *DuelRoom) scheduleAnswerTimeoutLocked() {
	if r.timings.AnswerTimeout <= 0 {
		return
	}
	idx := r.Index
	r.answerTimer = time.AfterFunc(r.timings.AnswerTimeout, func() {
		r.expireAnswers(idx)
	})
}

// expireAnswers force-records a blank, incorrect answer for every slot that
// has not answered the given index, then runs the normal barrier logic.
// Stale fires (index moved on, room no longer Playing) are no-ops.
func (r *DuelRoom) expireAnswers(idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusPlaying || r.Index != idx {
		return
	}
	q := &r.Questions[idx]
	ms := int(r.timings.AnswerTimeout / time.Millisecond)
	for _, slot := range []*Slot{r.SlotA, r.SlotB} {
		if len(slot.Answers) > idx {
			continue
		}
		slot.Answers = append(slot.Answers, Answer{QuestionID: q.ID, Correct: false, TimeMs: ms})
		slot.Client.Write(AnswerResultEvent{
			Type:          EventAnswerResult,
			Correct:       false,
			CorrectAnswer: q.CorrectAnswer,
			Score:         slot.Score,
		})
	}
	r.logger.WithFields(logrus.Fields{"room": r.ID, "question": idx}).Info("answer timeout expired")
	r.advanceLocked()
}

// finishLocked seals the room and hands the snapshot to settlement. The
// settlement call and final broadcast run outside the lock.
func (r *DuelRoom) finishLocked() {
	r.Status = StatusFinished
	r.FinishedAt = time.Now()
	r.stopTimersLocked()

	p1 := DuelPlayerResult{UserID: r.SlotA.UserID, Username: r.SlotA.Username, Score: r.SlotA.Score, CorrectAnswers: r.SlotA.correctCount()}
	p2 := DuelPlayerResult{UserID: r.SlotB.UserID, Username: r.SlotB.Username, Score: r.SlotB.Score, CorrectAnswers: r.SlotB.correctCount()}

	var winner string
	switch {
	case p1.Score > p2.Score:
		winner = p1.Username
	case p2.Score > p1.Score:
		winner = p2.Username
	default:
		winner = "Draw"
	}

	go r.settleAndBroadcast(p1, p2, winner)
}

// settleAndBroadcast runs settlement, delivers the enriched scoreboard, and
// schedules the delayed room deletion.
func (r *DuelRoom) settleAndBroadcast(p1, p2 DuelPlayerResult, winner string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	updated := map[string]*models.User{}
	if r.settler != nil {
		updated = r.settler.Settle(ctx, ModeDuel, []PlayerOutcome{
			{UserID: p1.UserID, Outcome: duelOutcome(p1.Score, p2.Score)},
			{UserID: p2.UserID, Outcome: duelOutcome(p2.Score, p1.Score)},
		})
		r.settler.Record(ctx, cache.MatchRecord{
			RoomID: r.ID,
			Mode:   ModeDuel,
			Winner: winner,
			Players: []cache.PlayerLine{
				{UserID: p1.UserID, Username: p1.Username, Score: p1.Score, CorrectAnswers: p1.CorrectAnswers},
				{UserID: p2.UserID, Username: p2.Username, Score: p2.Score, CorrectAnswers: p2.CorrectAnswers},
			},
			StartedAt:  r.StartedAt.Unix(),
			FinishedAt: r.FinishedAt.Unix(),
		})
	}

	ev := GameFinishedEvent{
		Type:         EventGameFinished,
		Player1:      p1,
		Player2:      p2,
		Winner:       winner,
		UpdatedUsers: updated,
	}
	r.SlotA.Client.Write(ev)
	r.SlotB.Client.Write(ev)

	r.mu.Lock()
	r.deleteTimer = time.AfterFunc(r.timings.DuelLinger, r.close)
	r.mu.Unlock()
}

// close removes the room from the active set. Safe to call more than once;
// the store delete and registry unbinds behind onClose are idempotent.
func (r *DuelRoom) close() {
	if r.onClose != nil {
		r.onClose(r.ID)
	}
}

func (r *DuelRoom) stopTimersLocked() {
	for _, t := range []*time.Timer{r.nextTimer, r.answerTimer, r.deleteTimer} {
		if t != nil {
			t.Stop()
		}
	}
	r.nextTimer, r.answerTimer, r.deleteTimer = nil, nil, nil
}

func (r *DuelRoom) broadcastLocked(ev any) {
	r.SlotA.Client.Write(ev)
	r.SlotB.Client.Write(ev)
}

func (r *DuelRoom) slotFor(connID uuid.UUID) *Slot {
	switch connID {
	case r.SlotA.Client.ID:
		return r.SlotA
	case r.SlotB.Client.ID:
		return r.SlotB
	default:
		return nil
	}
}

func (r *DuelRoom) opponentOf(s *Slot) *Slot {
	if s == r.SlotA {
		return r.SlotB
	}
	return r.SlotA
}

// duelOutcome maps a score pair to the scorer's outcome. Draws pay the
// non-win settlement amounts, so they are reported as losses here.
func duelOutcome(own, other int) Outcome {
	if own > other {
		return OutcomeWin
	}
	return OutcomeLoss
}
