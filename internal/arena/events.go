// internal/arena/events.go
package arena

import (
	"github.com/google/uuid"

	"github.com/DevWisdom08/Football-Arena/internal/models"
)

// Event type names. Each outgoing event is a closed struct variant carrying
// its own type tag; the websocket layer marshals them as-is.
const (
	EventError                = "error"
	EventSearching            = "searchingForMatch"
	EventMatchFound           = "matchFound"
	EventMatchCancelled       = "matchCancelled"
	EventPlayerReady          = "playerReady"
	EventGameStarted          = "gameStarted"
	EventAnswerResult         = "answerResult"
	EventOpponentAnswered     = "opponentAnswered"
	EventNextQuestion         = "nextQuestion"
	EventGameFinished         = "gameFinished"
	EventOpponentDisconnected = "opponentDisconnected"

	EventTeamRoomCreated      = "teamRoomCreated"
	EventTeamRoomJoined       = "teamRoomJoined"
	EventTeamRoomState        = "teamRoomState"
	EventTeamsShuffled        = "teamsShuffled"
	EventTeamGameStarted      = "teamGameStarted"
	EventTeamAnswerResult     = "teamAnswerResult"
	EventTeamPlayerAnswered   = "teamPlayerAnswered"
	EventTeamNextQuestion     = "teamNextQuestion"
	EventTeamGameFinished     = "teamGameFinished"
)

// ErrorEvent reports any rejected request back to its sender.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SearchingEvent acknowledges a findMatch request while the scan runs.
type SearchingEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// MatchFoundEvent tells both parties of a fresh pairing which room to join.
type MatchFoundEvent struct {
	Type     string    `json:"type"`
	RoomID   uuid.UUID `json:"roomId"`
	Opponent string    `json:"opponent"`
	Message  string    `json:"message"`
}

// MatchCancelledEvent acknowledges a cancelMatch request.
type MatchCancelledEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// PlayerReadyEvent tells a duel room that one slot is ready.
type PlayerReadyEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// GameStartedEvent carries question index 0 once both slots are ready.
type GameStartedEvent struct {
	Type           string              `json:"type"`
	Question       models.QuestionView `json:"question"`
	QuestionNumber int                 `json:"questionNumber"`
	TotalQuestions int                 `json:"totalQuestions"`
}

// AnswerResultEvent is the private verdict for a submitted answer.
type AnswerResultEvent struct {
	Type          string `json:"type"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Score         int    `json:"score"`
	AttackResult  string `json:"attackResult,omitempty"`
}

// OpponentAnsweredEvent notifies the other duel slot without revealing the
// submitted value.
type OpponentAnsweredEvent struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	Correct      bool   `json:"correct"`
	AttackResult string `json:"attackResult,omitempty"`
}

// DuelScores pairs the running scores broadcast between questions.
type DuelScores struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// NextQuestionEvent advances both duel slots to the next question.
type NextQuestionEvent struct {
	Type           string              `json:"type"`
	Question       models.QuestionView `json:"question"`
	QuestionNumber int                 `json:"questionNumber"`
	TotalQuestions int                 `json:"totalQuestions"`
	Scores         DuelScores          `json:"scores"`
}

// DuelPlayerResult is one slot's line in the final duel scoreboard.
type DuelPlayerResult struct {
	UserID         uuid.UUID `json:"userId"`
	Username       string    `json:"username"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correctAnswers"`
}

// GameFinishedEvent is the duel's final scoreboard, enriched with the
// settled player records.
type GameFinishedEvent struct {
	Type         string                  `json:"type"`
	Player1      DuelPlayerResult        `json:"player1"`
	Player2      DuelPlayerResult        `json:"player2"`
	Winner       string                  `json:"winner"`
	UpdatedUsers map[string]*models.User `json:"updatedUsers"`
}

// OpponentDisconnectedEvent notifies the surviving duel slot before teardown.
type OpponentDisconnectedEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// TeamRoomCreatedEvent returns the new room's id and join code to the host.
type TeamRoomCreatedEvent struct {
	Type     string    `json:"type"`
	RoomID   uuid.UUID `json:"roomId"`
	RoomCode string    `json:"roomCode"`
	Message  string    `json:"message"`
}

// TeamRoomJoinedEvent confirms a join and the assigned team.
type TeamRoomJoinedEvent struct {
	Type     string    `json:"type"`
	RoomID   uuid.UUID `json:"roomId"`
	RoomCode string    `json:"roomCode"`
	Team     string    `json:"team"`
	Message  string    `json:"message"`
}

// TeamPlayerView is one player's line in a team room state broadcast.
type TeamPlayerView struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Team     string    `json:"team"`
	Ready    bool      `json:"ready"`
	Score    int       `json:"score"`
}

// TeamRoomStateEvent is rebroadcast to every member after each join, leave,
// ready change, and shuffle.
type TeamRoomStateEvent struct {
	Type        string           `json:"type"`
	RoomCode    string           `json:"roomCode"`
	HostID      uuid.UUID        `json:"hostId"`
	Players     []TeamPlayerView `json:"players"`
	TeamA       []TeamPlayerView `json:"teamA"`
	TeamB       []TeamPlayerView `json:"teamB"`
	PlayerCount int              `json:"playerCount"`
	MaxPlayers  int              `json:"maxPlayers"`
	Status      string           `json:"status"`
	TeamAScore  int              `json:"teamAScore"`
	TeamBScore  int              `json:"teamBScore"`
}

// TeamsShuffledEvent announces a host-triggered shuffle.
type TeamsShuffledEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// TeamGameStartedEvent carries question index 0 on explicit host start.
type TeamGameStartedEvent struct {
	Type           string              `json:"type"`
	Question       models.QuestionView `json:"question"`
	QuestionNumber int                 `json:"questionNumber"`
	TotalQuestions int                 `json:"totalQuestions"`
}

// TeamAnswerResultEvent is the private verdict in team mode.
type TeamAnswerResultEvent struct {
	Type          string `json:"type"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	YourScore     int    `json:"yourScore"`
	TeamScore     int    `json:"teamScore"`
}

// TeamPlayerAnsweredEvent announces to the room that a player has answered.
type TeamPlayerAnsweredEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Team     string `json:"team"`
}

// TeamNextQuestionEvent advances the whole room to the next question.
type TeamNextQuestionEvent struct {
	Type           string              `json:"type"`
	Question       models.QuestionView `json:"question"`
	QuestionNumber int                 `json:"questionNumber"`
	TotalQuestions int                 `json:"totalQuestions"`
	TeamAScore     int                 `json:"teamAScore"`
	TeamBScore     int                 `json:"teamBScore"`
}

// TeamMemberResult is one player's line in the team scoreboard.
type TeamMemberResult struct {
	Username       string `json:"username"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
}

// TeamResult aggregates one team's final standing.
type TeamResult struct {
	Score   int                `json:"score"`
	Players []TeamMemberResult `json:"players"`
}

// TeamGameFinishedEvent is the team game's final scoreboard.
type TeamGameFinishedEvent struct {
	Type         string                  `json:"type"`
	TeamA        TeamResult              `json:"teamA"`
	TeamB        TeamResult              `json:"teamB"`
	Winner       string                  `json:"winner"`
	UpdatedUsers map[string]*models.User `json:"updatedUsers"`
}
