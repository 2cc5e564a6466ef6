// internal/arena/team.go
package arena

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/DevWisdom08/Football-Arena/internal/cache"
	"github.com/DevWisdom08/Football-Arena/internal/models"
)

// Team labels. Players are partitioned into two groups whose sizes differ
// by at most one after any balancing operation.
const (
	TeamA = "A"
	TeamB = "B"
)

// MaxTeamPlayers caps room capacity regardless of what the host requests.
const MaxTeamPlayers = 10

// TeamPlayer is one seat in a team room: a slot plus its team assignment.
type TeamPlayer struct {
	Slot
	Team string
}

// TeamRoom is the N-player, code-joined, host-controlled room state machine.
type TeamRoom struct {
	ID         uuid.UUID
	JoinCode   string
	HostID     uuid.UUID
	MaxPlayers int

	// Players is keyed by connection id; the room owns every entry.
	Players map[uuid.UUID]*TeamPlayer

	Questions  []models.Question
	Index      int
	Status     RoomStatus
	TeamAScore int
	TeamBScore int
	StartedAt  time.Time
	FinishedAt time.Time

	mu      sync.Mutex
	timings Timings
	settler *Settler
	logger  *logrus.Logger

	// onClose receives the remaining members' connection ids so the caller
	// can drop their registry bindings along with the room.
	onClose func(roomID uuid.UUID, members []uuid.UUID)

	nextTimer   *time.Timer
	answerTimer *time.Timer
	deleteTimer *time.Timer
}

// NewTeamRoom builds a Waiting room with the host seated on team A. The
// join code is assigned when the room is added to the TeamStore.
func NewTeamRoom(host *Client, hostUserID uuid.UUID, hostName string, maxPlayers int, questions []models.Question, timings Timings, settler *Settler, logger *logrus.Logger, onClose func(roomID uuid.UUID, members []uuid.UUID)) *TeamRoom {
	if maxPlayers <= 0 || maxPlayers > MaxTeamPlayers {
		maxPlayers = MaxTeamPlayers
	}
	r := &TeamRoom{
		ID:         uuid.New(),
		HostID:     hostUserID,
		MaxPlayers: maxPlayers,
		Players:    make(map[uuid.UUID]*TeamPlayer),
		Questions:  questions,
		Status:     StatusWaiting,
		timings:    timings,
		settler:    settler,
		logger:     logger,
		onClose:    onClose,
	}
	r.Players[host.ID] = &TeamPlayer{
		Slot: Slot{UserID: hostUserID, Client: host, Username: hostName},
		Team: TeamA,
	}
	return r
}

// Join seats a new player. Without a team preference the smaller team gets
// them, ties favoring team A. The updated room state is broadcast to all
// members.
func (r *TeamRoom) Join(client *Client, userID uuid.UUID, username, preferredTeam string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusWaiting {
		return ErrInvalidState
	}
	if len(r.Players) >= r.MaxPlayers {
		return ErrRoomFull
	}

	team := preferredTeam
	if team != TeamA && team != TeamB {
		countA := r.teamCountLocked(TeamA)
		if countA <= len(r.Players)-countA {
			team = TeamA
		} else {
			team = TeamB
		}
	}

	r.Players[client.ID] = &TeamPlayer{
		Slot: Slot{UserID: userID, Client: client, Username: username},
		Team: team,
	}

	client.Write(TeamRoomJoinedEvent{
		Type:     EventTeamRoomJoined,
		RoomID:   r.ID,
		RoomCode: r.JoinCode,
		Team:     team,
		Message:  "Joined room " + r.JoinCode,
	})
	r.broadcastStateLocked()
	return nil
}

// Leave removes a player. Unknown connections are a no-op. An emptied room
// closes immediately; otherwise the host role is reassigned if needed, the
// barrier is re-checked (a leaver may have been the last unanswered player),
// and state is rebroadcast.
func (r *TeamRoom) Leave(connID uuid.UUID) {
	r.mu.Lock()
	p, ok := r.Players[connID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.Players, connID)

	if len(r.Players) == 0 {
		r.stopTimersLocked()
		r.mu.Unlock()
		r.close()
		return
	}

	if p.UserID == r.HostID {
		for _, rest := range r.Players {
			r.HostID = rest.UserID
			break
		}
		r.logger.WithFields(logrus.Fields{"room": r.ID, "host": r.HostID}).Info("host reassigned")
	}

	if r.Status == StatusPlaying && r.barrierMetLocked() {
		r.advanceLocked()
	}
	r.broadcastStateLocked()
	r.mu.Unlock()
}

// MarkReady flips a player's ready flag while the room is still forming.
// Team games never auto-start; the host starts explicitly.
func (r *TeamRoom) MarkReady(connID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusWaiting {
		return ErrInvalidState
	}
	p, ok := r.Players[connID]
	if !ok {
		return ErrNotInRoom
	}
	p.Ready = true
	r.broadcastStateLocked()
	return nil
}

// Shuffle uniformly permutes all players and re-assigns teams by index
// parity, which keeps the two team sizes within one of each other.
// Host-only, Waiting-only, two players minimum.
func (r *TeamRoom) Shuffle(connID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.Players[connID]
	if !ok {
		return ErrNotInRoom
	}
	if p.UserID != r.HostID {
		return ErrUnauthorized
	}
	if r.Status != StatusWaiting {
		return ErrInvalidState
	}
	if len(r.Players) < 2 {
		return ErrInvalidState
	}

	players := make([]*TeamPlayer, 0, len(r.Players))
	for _, tp := range r.Players {
		players = append(players, tp)
	}
	rand.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
	for i, tp := range players {
		if i%2 == 0 {
			tp.Team = TeamA
		} else {
			tp.Team = TeamB
		}
	}

	r.broadcastLocked(TeamsShuffledEvent{Type: EventTeamsShuffled, Message: "Teams have been shuffled!"})
	r.broadcastStateLocked()
	return nil
}

// Start begins play. Host-only, Waiting-only, two players minimum.
func (r *TeamRoom) Start(connID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.Players[connID]
	if !ok {
		return ErrNotInRoom
	}
	if p.UserID != r.HostID {
		return ErrUnauthorized
	}
	if r.Status != StatusWaiting {
		return ErrInvalidState
	}
	if len(r.Players) < 2 {
		return ErrInvalidState
	}

	r.Status = StatusPlaying
	r.StartedAt = time.Now()
	r.broadcastLocked(TeamGameStartedEvent{
		Type:           EventTeamGameStarted,
		Question:       r.Questions[0].View(),
		QuestionNumber: 1,
		TotalQuestions: len(r.Questions),
	})
	r.scheduleAnswerTimeoutLocked()
	return nil
}

// SubmitAnswer scores one submission. Team mode awards flat correctness
// points (no attack bonuses) and adds them to the submitter's team
// aggregate. The barrier requires every current player to have answered.
func (r *TeamRoom) SubmitAnswer(connID, questionID uuid.UUID, value string, timeMs int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusPlaying {
		return ErrInvalidState
	}
	p, ok := r.Players[connID]
	if !ok {
		return ErrNotInRoom
	}
	if len(p.Answers) > r.Index {
		return ErrDuplicateAnswer
	}
	q := &r.Questions[r.Index]
	if questionID != q.ID {
		return ErrWrongQuestion
	}
	if timeMs < 0 {
		timeMs = 0
	}

	verdict := Adjudicate(q.CorrectAnswer, value, timeMs, nil, false)
	p.Answers = append(p.Answers, Answer{QuestionID: q.ID, Value: value, Correct: verdict.Correct, TimeMs: timeMs})
	p.Score += verdict.Points
	if verdict.Correct {
		if p.Team == TeamA {
			r.TeamAScore += verdict.Points
		} else {
			r.TeamBScore += verdict.Points
		}
	}

	teamScore := r.TeamAScore
	if p.Team == TeamB {
		teamScore = r.TeamBScore
	}
	p.Client.Write(TeamAnswerResultEvent{
		Type:          EventTeamAnswerResult,
		Correct:       verdict.Correct,
		CorrectAnswer: q.CorrectAnswer,
		YourScore:     p.Score,
		TeamScore:     teamScore,
	})
	r.broadcastLocked(TeamPlayerAnsweredEvent{Type: EventTeamPlayerAnswered, Username: p.Username, Team: p.Team})

	if r.barrierMetLocked() {
		r.advanceLocked()
	}
	return nil
}

// barrierMetLocked reports whether every current player answered the
// current index.
func (r *TeamRoom) barrierMetLocked() bool {
	for _, p := range r.Players {
		if len(p.Answers) != r.Index+1 {
			return false
		}
	}
	return len(r.Players) > 0
}

func (r *TeamRoom) advanceLocked() {
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

func (r *TeamRoom) pushQuestion(idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusPlaying || r.Index != idx {
		return
	}
	r.broadcastLocked(TeamNextQuestionEvent{
		Type:           EventTeamNextQuestion,
		Question:       r.Questions[idx].View(),
		QuestionNumber: idx + 1,
		TotalQuestions: len(r.Questions),
		TeamAScore:     r.TeamAScore,
		TeamBScore:     r.TeamBScore,
	})
	r.scheduleAnswerTimeoutLocked()
}

func (r *TeamRoom) scheduleAnswerTimeoutLocked() {
	if r.timings.AnswerTimeout <= 0 {
		return
	}
	idx := r.Index
	r.answerTimer = time.AfterFunc(r.timings.AnswerTimeout, func() {
		r.expireAnswers(idx)
	})
}

// expireAnswers force-records blank answers for stalled players, then runs
// the barrier. Stale fires are no-ops.
func (r *TeamRoom) expireAnswers(idx int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusPlaying || r.Index != idx {
		return
	}
	q := &r.Questions[idx]
	ms := int(r.timings.AnswerTimeout / time.Millisecond)
	for _, p := range r.Players {
		if len(p.Answers) > idx {
			continue
		}
		p.Answers = append(p.Answers, Answer{QuestionID: q.ID, Correct: false, TimeMs: ms})
		p.Client.Write(TeamAnswerResultEvent{
			Type:          EventTeamAnswerResult,
			Correct:       false,
			CorrectAnswer: q.CorrectAnswer,
			YourScore:     p.Score,
			TeamScore:     r.teamScoreOf(p.Team),
		})
	}
	r.logger.WithFields(logrus.Fields{"room": r.ID, "question": idx}).Info("answer timeout expired")
	r.advanceLocked()
}

// finishLocked seals the room; settlement and broadcast run outside the lock.
func (r *TeamRoom) finishLocked() {
	r.Status = StatusFinished
	r.FinishedAt = time.Now()
	r.stopTimersLocked()

	var resultA, resultB TeamResult
	resultA.Score = r.TeamAScore
	resultB.Score = r.TeamBScore

	outcomes := make([]PlayerOutcome, 0, len(r.Players))
	lines := make([]cache.PlayerLine, 0, len(r.Players))
	clients := make([]*Client, 0, len(r.Players))

	var winningTeam string
	switch {
	case r.TeamAScore > r.TeamBScore:
		winningTeam = TeamA
	case r.TeamBScore > r.TeamAScore:
		winningTeam = TeamB
	}

	for _, p := range r.Players {
		member := TeamMemberResult{Username: p.Username, Score: p.Score, CorrectAnswers: p.correctCount()}
		if p.Team == TeamA {
			resultA.Players = append(resultA.Players, member)
		} else {
			resultB.Players = append(resultB.Players, member)
		}

		outcome := OutcomeLoss
		if winningTeam == "" {
			outcome = OutcomeDraw
		} else if p.Team == winningTeam {
			outcome = OutcomeWin
		}
		outcomes = append(outcomes, PlayerOutcome{UserID: p.UserID, Outcome: outcome})
		lines = append(lines, cache.PlayerLine{
			UserID:         p.UserID,
			Username:       p.Username,
			Team:           p.Team,
			Score:          p.Score,
			CorrectAnswers: p.correctCount(),
		})
		clients = append(clients, p.Client)
	}

	winner := "Draw"
	if winningTeam == TeamA {
		winner = "Team A"
	} else if winningTeam == TeamB {
		winner = "Team B"
	}

	go r.settleAndBroadcast(resultA, resultB, winner, outcomes, lines, clients)
}

func (r *TeamRoom) settleAndBroadcast(resultA, resultB TeamResult, winner string, outcomes []PlayerOutcome, lines []cache.PlayerLine, clients []*Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	updated := map[string]*models.User{}
	if r.settler != nil {
		updated = r.settler.Settle(ctx, ModeTeam, outcomes)
		r.settler.Record(ctx, cache.MatchRecord{
			RoomID:     r.ID,
			Mode:       ModeTeam,
			Winner:     winner,
			Players:    lines,
			StartedAt:  r.StartedAt.Unix(),
			FinishedAt: r.FinishedAt.Unix(),
		})
	}

	ev := TeamGameFinishedEvent{
		Type:         EventTeamGameFinished,
		TeamA:        resultA,
		TeamB:        resultB,
		Winner:       winner,
		UpdatedUsers: updated,
	}
	for _, c := range clients {
		c.Write(ev)
	}

	r.mu.Lock()
	r.deleteTimer = time.AfterFunc(r.timings.TeamLinger, r.close)
	r.mu.Unlock()
}

func (r *TeamRoom) close() {
	if r.onClose == nil {
		return
	}
	r.mu.Lock()
	members := make([]uuid.UUID, 0, len(r.Players))
	for connID := range r.Players {
		members = append(members, connID)
	}
	r.mu.Unlock()
	r.onClose(r.ID, members)
}

func (r *TeamRoom) stopTimersLocked() {
	for _, t := range []*time.Timer{r.nextTimer, r.answerTimer, r.deleteTimer} {
		if t != nil {
			t.Stop()
		}
	}
	r.nextTimer, r.answerTimer, r.deleteTimer = nil, nil, nil
}

func (r *TeamRoom) teamCountLocked(team string) int {
	n := 0
	for _, p := range r.Players {
		if p.Team == team {
			n++
		}
	}
	return n
}

func (r *TeamRoom) teamScoreOf(team string) int {
	if team == TeamB {
		return r.TeamBScore
	}
	return r.TeamAScore
}

func (r *TeamRoom) broadcastLocked(ev any) {
	for _, p := range r.Players {
		p.Client.Write(ev)
	}
}

// BroadcastState sends the current room snapshot to every member.
func (r *TeamRoom) BroadcastState() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastStateLocked()
}

// broadcastStateLocked sends the full room snapshot to every member. Called
// after every join, leave, ready change, and shuffle.
func (r *TeamRoom) broadcastStateLocked() {
	players := make([]TeamPlayerView, 0, len(r.Players))
	var teamA, teamB []TeamPlayerView
	for _, p := range r.Players {
		view := TeamPlayerView{
			UserID:   p.UserID,
			Username: p.Username,
			Team:     p.Team,
			Ready:    p.Ready,
			Score:    p.Score,
		}
		players = append(players, view)
		if p.Team == TeamA {
			teamA = append(teamA, view)
		} else {
			teamB = append(teamB, view)
		}
	}
	r.broadcastLocked(TeamRoomStateEvent{
		Type:        EventTeamRoomState,
		RoomCode:    r.JoinCode,
		HostID:      r.HostID,
		Players:     players,
		TeamA:       teamA,
		TeamB:       teamB,
		PlayerCount: len(r.Players),
		MaxPlayers:  r.MaxPlayers,
		Status:      string(r.Status),
		TeamAScore:  r.TeamAScore,
		TeamBScore:  r.TeamBScore,
	})
}
