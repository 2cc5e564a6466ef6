// internal/arena/settlement.go
package arena

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/DevWisdom08/Football-Arena/internal/cache"
	"github.com/DevWisdom08/Football-Arena/internal/models"
)

// Game modes as recorded in settlement and match history.
const (
	ModeDuel = "1v1"
	ModeTeam = "team"
)

// Outcome is one player's result from their own perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Progression rewards, keyed by mode and outcome. Duel draws pay the
// non-win amounts.
const (
	duelWinXP     = 100
	duelWinCoins  = 50
	duelLossXP    = 50
	duelLossCoins = 25

	teamWinXP     = 150
	teamWinCoins  = 75
	teamDrawXP    = 75
	teamDrawCoins = 35
	teamLossXP    = 50
	teamLossCoins = 25
)

// PlayerOutcome names one participant and how their game ended.
type PlayerOutcome struct {
	UserID  uuid.UUID
	Outcome Outcome
}

// Settler is the settlement bridge: it turns finished rooms into progression
// updates on the external store and match-history records on the history
// queue. Individual failures are logged and skipped; settlement never blocks
// result delivery.
type Settler struct {
	Progression ProgressionStore
	History     HistoryRecorder
	Logger      *logrus.Logger
}

// Settle applies the mode- and outcome-keyed progression delta for every
// participant and returns the updated records, keyed by user id string, for
// embedding in the final scoreboard broadcast. Players whose update failed
// are absent from the map.
func (s *Settler) Settle(ctx context.Context, mode string, outcomes []PlayerOutcome) map[string]*models.User {
	updated := make(map[string]*models.User, len(outcomes))
	for _, po := range outcomes {
		delta := deltaFor(mode, po.Outcome)
		user, err := s.Progression.ApplyDelta(ctx, po.UserID, delta)
		if err != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"user": po.UserID,
				"mode": mode,
			}).Error("progression update failed, skipping player")
			continue
		}
		updated[po.UserID.String()] = user
	}
	return updated
}

// Record publishes the finished-match summary to the history queue.
// Best-effort only.
func (s *Settler) Record(ctx context.Context, rec cache.MatchRecord) {
	if s.History == nil {
		return
	}
	if err := s.History.RecordMatch(ctx, rec); err != nil {
		s.Logger.WithError(err).WithField("room", rec.RoomID).Warn("match history publish failed")
	}
}

// deltaFor maps mode+outcome to the additive progression update.
func deltaFor(mode string, outcome Outcome) models.ProgressionDelta {
	if mode == ModeTeam {
		d := models.ProgressionDelta{TotalGames: 1, TeamMatchesPlayed: 1}
		switch outcome {
		case OutcomeWin:
			d.XP, d.Coins = teamWinXP, teamWinCoins
		case OutcomeDraw:
			d.XP, d.Coins = teamDrawXP, teamDrawCoins
		default:
			d.XP, d.Coins = teamLossXP, teamLossCoins
		}
		return d
	}

	d := models.ProgressionDelta{TotalGames: 1, DuelsPlayed: 1}
	if outcome == OutcomeWin {
		d.XP, d.Coins = duelWinXP, duelWinCoins
	} else {
		d.XP, d.Coins = duelLossXP, duelLossCoins
	}
	return d
}
