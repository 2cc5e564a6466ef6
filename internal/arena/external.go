// internal/arena/external.go
package arena

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DevWisdom08/Football-Arena/internal/cache"
	"github.com/DevWisdom08/Football-Arena/internal/models"
)

// QuestionSource is the question bank contract. SampleQuestions must return
// exactly count questions or fail; the room fetches once and shares the
// sequence with every participant.
type QuestionSource interface {
	SampleQuestions(ctx context.Context, count int) ([]models.Question, error)
}

// ProgressionStore is the external player-progression contract, used only by
// the settlement bridge.
type ProgressionStore interface {
	Player(ctx context.Context, id uuid.UUID) (*models.User, error)
	ApplyDelta(ctx context.Context, id uuid.UUID, delta models.ProgressionDelta) (*models.User, error)
}

// HistoryRecorder hands finished-match summaries to the out-of-process
// stats consumer. Failures are logged, never propagated to players.
type HistoryRecorder interface {
	RecordMatch(ctx context.Context, record cache.MatchRecord) error
}

// Timings collects the deferred-action delays of the room state machines.
// Tests shrink these to keep timer-driven paths fast.
type Timings struct {
	// QuestionCount is the length of the sequence sampled per room.
	QuestionCount int
	// NextQuestionDelay is the pause between the barrier completing and the
	// next question being pushed.
	NextQuestionDelay time.Duration
	// DuelLinger and TeamLinger delay room deletion after finish so clients
	// can still read the final scoreboard.
	DuelLinger time.Duration
	TeamLinger time.Duration
	// AnswerTimeout force-records a blank answer for stalled players.
	// Zero disables the timeout entirely.
	AnswerTimeout time.Duration
}

// DefaultTimings mirror the production constants: 10 questions, 2s between
// questions, 10s/30s post-finish linger, 30s answer timeout.
func DefaultTimings() Timings {
	return Timings{
		QuestionCount:     10,
		NextQuestionDelay: 2 * time.Second,
		DuelLinger:        10 * time.Second,
		TeamLinger:        30 * time.Second,
		AnswerTimeout:     30 * time.Second,
	}
}
