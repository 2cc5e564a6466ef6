// internal/arena/team_test.go
package arena

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teamFixture struct {
	room        *TeamRoom
	host        *Client
	progression *stubProgression
	recorder    *stubRecorder
	store       *TeamStore
}

func newTeamFixture(t *testing.T, questions, maxPlayers int, timings Timings) *teamFixture {
	t.Helper()
	host := NewClient(uuid.New())
	progression := newStubProgression()
	progression.seed(host.UserID, "host")
	recorder := &stubRecorder{}
	store := NewTeamStore()

	room := NewTeamRoom(host, host.UserID, "host", maxPlayers, makeQuestions(questions), timings,
		testSettler(progression, recorder), testLogger(), func(roomID uuid.UUID, _ []uuid.UUID) { store.Delete(roomID) })
	store.Add(room)

	return &teamFixture{room: room, host: host, progression: progression, recorder: recorder, store: store}
}

func (f *teamFixture) addPlayer(t *testing.T, name, team string) *Client {
	t.Helper()
	c := NewClient(uuid.New())
	f.progression.seed(c.UserID, name)
	require.NoError(t, f.room.Join(c, c.UserID, name, team))
	return c
}

func TestTeamStoreAssignsUniqueCodes(t *testing.T) {
	store := NewTeamStore()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		host := NewClient(uuid.New())
		room := NewTeamRoom(host, host.UserID, "host", 4, makeQuestions(1), testTimings(1), nil, testLogger(), nil)
		store.Add(room)

		require.Len(t, room.JoinCode, 6)
		for _, ch := range room.JoinCode {
			assert.Contains(t, codeAlphabet, string(ch))
		}
		assert.False(t, seen[room.JoinCode], "join code %q issued twice", room.JoinCode)
		seen[room.JoinCode] = true

		got, ok := store.GetByCode(room.JoinCode)
		require.True(t, ok)
		assert.Equal(t, room.ID, got.ID)
	}
}

func TestTeamStoreDeleteFreesCode(t *testing.T) {
	f := newTeamFixture(t, 1, 4, testTimings(1))
	code := f.room.JoinCode

	f.store.Delete(f.room.ID)
	_, ok := f.store.GetByCode(code)
	assert.False(t, ok)

	// Idempotent.
	f.store.Delete(f.room.ID)
}

func TestTeamJoinAutoBalances(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))

	// Host sits on A, so the next two joiners alternate B, A.
	b := f.addPlayer(t, "p2", "")
	c := f.addPlayer(t, "p3", "")

	assert.Equal(t, TeamB, f.room.Players[b.ID].Team)
	assert.Equal(t, TeamA, f.room.Players[c.ID].Team)

	joined := waitEvent(t, b, eventWait, isType[TeamRoomJoinedEvent]).(TeamRoomJoinedEvent)
	assert.Equal(t, TeamB, joined.Team)
	assert.Equal(t, f.room.JoinCode, joined.RoomCode)

	// A state snapshot reaches every member after the join.
	state := waitEvent(t, f.host, eventWait, isType[TeamRoomStateEvent]).(TeamRoomStateEvent)
	assert.Equal(t, f.room.HostID, state.HostID)
}

func TestTeamJoinHonorsPreference(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))
	c := f.addPlayer(t, "p2", TeamA)
	assert.Equal(t, TeamA, f.room.Players[c.ID].Team)
}

func TestTeamJoinRejectsFullRoom(t *testing.T) {
	f := newTeamFixture(t, 1, 2, testTimings(1))
	f.addPlayer(t, "p2", "")

	late := NewClient(uuid.New())
	err := f.room.Join(late, late.UserID, "p3", "")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestTeamJoinRejectsStartedGame(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))
	f.addPlayer(t, "p2", "")
	require.NoError(t, f.room.Start(f.host.ID))

	late := NewClient(uuid.New())
	err := f.room.Join(late, late.UserID, "p3", "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTeamShuffleHostOnlyAndBalanced(t *testing.T) {
	f := newTeamFixture(t, 1, 8, testTimings(1))
	var clients []*Client
	for i := 0; i < 4; i++ {
		clients = append(clients, f.addPlayer(t, "p", TeamA))
	}

	err := f.room.Shuffle(clients[0].ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.room.Shuffle(f.host.ID))

	countA, countB := 0, 0
	for _, p := range f.room.Players {
		switch p.Team {
		case TeamA:
			countA++
		case TeamB:
			countB++
		default:
			t.Fatalf("player without team assignment")
		}
	}
	assert.Equal(t, 5, countA+countB)
	diff := countA - countB
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, 1)

	waitEvent(t, f.host, eventWait, isType[TeamsShuffledEvent])
}

func TestTeamStartRequiresHostAndTwoPlayers(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))

	err := f.room.Start(f.host.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	p2 := f.addPlayer(t, "p2", "")
	err = f.room.Start(p2.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.room.Start(f.host.ID))
	assert.Equal(t, StatusPlaying, f.room.Status)
	started := waitEvent(t, p2, eventWait, isType[TeamGameStartedEvent]).(TeamGameStartedEvent)
	assert.Equal(t, 1, started.QuestionNumber)

	// Starting twice is rejected.
	err = f.room.Start(f.host.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTeamBarrierWaitsForEveryPlayer(t *testing.T) {
	f := newTeamFixture(t, 2, 6, testTimings(2))
	p2 := f.addPlayer(t, "p2", "")
	p3 := f.addPlayer(t, "p3", "")
	require.NoError(t, f.room.Start(f.host.ID))
	q0 := f.room.Questions[0].ID

	require.NoError(t, f.room.SubmitAnswer(f.host.ID, q0, "A", 100))
	require.NoError(t, f.room.SubmitAnswer(p2.ID, q0, "A", 200))
	assert.Equal(t, 0, f.room.Index)

	require.NoError(t, f.room.SubmitAnswer(p3.ID, q0, "B", 300))

	next := waitEvent(t, p2, eventWait, isType[TeamNextQuestionEvent]).(TeamNextQuestionEvent)
	assert.Equal(t, 2, next.QuestionNumber)
}

func TestTeamScoringIsFlatAndAggregated(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))
	p2 := f.addPlayer(t, "p2", TeamB)
	require.NoError(t, f.room.Start(f.host.ID))
	drain(f.host)
	drain(p2)
	q0 := f.room.Questions[0].ID

	// Fast correct answer earns flat points, no attack tag exists in team mode.
	require.NoError(t, f.room.SubmitAnswer(f.host.ID, q0, "A", 10))
	res := waitEvent(t, f.host, eventWait, isType[TeamAnswerResultEvent]).(TeamAnswerResultEvent)
	assert.True(t, res.Correct)
	assert.Equal(t, BasePoints, res.YourScore)
	assert.Equal(t, BasePoints, res.TeamScore)

	announced := waitEvent(t, p2, eventWait, isType[TeamPlayerAnsweredEvent]).(TeamPlayerAnsweredEvent)
	assert.Equal(t, "host", announced.Username)
	assert.Equal(t, TeamA, announced.Team)
}

func TestTeamFinishSettlesByTeamOutcome(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))
	p2 := f.addPlayer(t, "p2", TeamB)
	require.NoError(t, f.room.Start(f.host.ID))
	q0 := f.room.Questions[0].ID

	require.NoError(t, f.room.SubmitAnswer(f.host.ID, q0, "A", 100))
	require.NoError(t, f.room.SubmitAnswer(p2.ID, q0, "B", 100))

	fin := waitEvent(t, f.host, eventWait, isType[TeamGameFinishedEvent]).(TeamGameFinishedEvent)
	assert.Equal(t, "Team A", fin.Winner)
	assert.Equal(t, BasePoints, fin.TeamA.Score)
	assert.Equal(t, 0, fin.TeamB.Score)

	winDeltas := f.progression.deltasFor(f.host.UserID)
	require.Len(t, winDeltas, 1)
	assert.Equal(t, 150, winDeltas[0].XP)
	assert.Equal(t, 75, winDeltas[0].Coins)
	assert.Equal(t, 1, winDeltas[0].TeamMatchesPlayed)

	lossDeltas := f.progression.deltasFor(p2.UserID)
	require.Len(t, lossDeltas, 1)
	assert.Equal(t, 50, lossDeltas[0].XP)
	assert.Equal(t, 25, lossDeltas[0].Coins)

	rec := f.recorder.last()
	assert.Equal(t, ModeTeam, rec.Mode)
	assert.Equal(t, "Team A", rec.Winner)

	require.Eventually(t, func() bool {
		_, ok := f.store.Get(f.room.ID)
		return !ok
	}, eventWait, 5*time.Millisecond)
}

func TestTeamSettlementToleratesFailedPlayer(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))
	p2 := f.addPlayer(t, "p2", TeamB)
	f.progression.err = errDB
	f.progression.failFor = p2.UserID
	require.NoError(t, f.room.Start(f.host.ID))
	q0 := f.room.Questions[0].ID

	require.NoError(t, f.room.SubmitAnswer(f.host.ID, q0, "A", 100))
	require.NoError(t, f.room.SubmitAnswer(p2.ID, q0, "B", 100))

	// The scoreboard still reaches every player when one reward write fails.
	fin := waitEvent(t, f.host, eventWait, isType[TeamGameFinishedEvent]).(TeamGameFinishedEvent)
	waitEvent(t, p2, eventWait, isType[TeamGameFinishedEvent])
	assert.Equal(t, "Team A", fin.Winner)

	require.Contains(t, fin.UpdatedUsers, f.host.UserID.String())
	assert.NotContains(t, fin.UpdatedUsers, p2.UserID.String())
	assert.Equal(t, 150, fin.UpdatedUsers[f.host.UserID.String()].XP)
	assert.Equal(t, 1, f.recorder.count())
}

func TestTeamDrawPaysDrawRewards(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))
	p2 := f.addPlayer(t, "p2", TeamB)
	require.NoError(t, f.room.Start(f.host.ID))
	q0 := f.room.Questions[0].ID

	require.NoError(t, f.room.SubmitAnswer(f.host.ID, q0, "A", 100))
	require.NoError(t, f.room.SubmitAnswer(p2.ID, q0, "A", 100))

	fin := waitEvent(t, f.host, eventWait, isType[TeamGameFinishedEvent]).(TeamGameFinishedEvent)
	assert.Equal(t, "Draw", fin.Winner)

	for _, id := range []uuid.UUID{f.host.UserID, p2.UserID} {
		deltas := f.progression.deltasFor(id)
		require.Len(t, deltas, 1)
		assert.Equal(t, 75, deltas[0].XP)
		assert.Equal(t, 35, deltas[0].Coins)
	}
}

func TestTeamLeaveReassignsHost(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))
	p2 := f.addPlayer(t, "p2", "")

	f.room.Leave(f.host.ID)
	assert.Equal(t, p2.UserID, f.room.HostID)

	// Unknown connections are a no-op.
	f.room.Leave(uuid.New())
	assert.Len(t, f.room.Players, 1)
}

func TestTeamLeaveEmptyRoomCloses(t *testing.T) {
	f := newTeamFixture(t, 1, 6, testTimings(1))
	code := f.room.JoinCode

	f.room.Leave(f.host.ID)

	_, ok := f.store.Get(f.room.ID)
	assert.False(t, ok)
	_, ok = f.store.GetByCode(code)
	assert.False(t, ok)
}

func TestTeamLeaveDuringPlayReleasesBarrier(t *testing.T) {
	f := newTeamFixture(t, 2, 6, testTimings(2))
	p2 := f.addPlayer(t, "p2", "")
	p3 := f.addPlayer(t, "p3", "")
	require.NoError(t, f.room.Start(f.host.ID))
	q0 := f.room.Questions[0].ID

	require.NoError(t, f.room.SubmitAnswer(f.host.ID, q0, "A", 100))
	require.NoError(t, f.room.SubmitAnswer(p2.ID, q0, "A", 200))

	// The only unanswered player leaves; the room must advance.
	f.room.Leave(p3.ID)

	next := waitEvent(t, p2, eventWait, isType[TeamNextQuestionEvent]).(TeamNextQuestionEvent)
	assert.Equal(t, 2, next.QuestionNumber)
}

func TestTeamAnswerTimeoutFillsBlanks(t *testing.T) {
	timings := testTimings(1)
	timings.AnswerTimeout = 15 * time.Millisecond
	f := newTeamFixture(t, 1, 6, timings)
	p2 := f.addPlayer(t, "p2", TeamB)
	require.NoError(t, f.room.Start(f.host.ID))
	q0 := f.room.Questions[0].ID

	require.NoError(t, f.room.SubmitAnswer(f.host.ID, q0, "A", 50))

	fin := waitEvent(t, p2, eventWait, isType[TeamGameFinishedEvent]).(TeamGameFinishedEvent)
	assert.Equal(t, "Team A", fin.Winner)
	assert.Len(t, f.room.Players[p2.ID].Answers, 1)
	assert.False(t, f.room.Players[p2.ID].Answers[0].Correct)
}
