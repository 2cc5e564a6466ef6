// internal/handlers/arena_server.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/DevWisdom08/Football-Arena/internal/arena"
)

// ArenaServer owns the shared matchmaking and room state and routes decoded
// client messages to the right room or queue operation.
type ArenaServer struct {
	Logger    *logrus.Logger
	Registry  *arena.Registry
	Queue     *arena.MatchQueue
	Duels     *arena.DuelStore
	Teams     *arena.TeamStore
	Questions arena.QuestionSource
	Settler   *arena.Settler
	Timings   arena.Timings
}

// NewArenaServer wires the queue, stores, and settlement bridge together.
func NewArenaServer(questions arena.QuestionSource, progression arena.ProgressionStore, history arena.HistoryRecorder, timings arena.Timings, logger *logrus.Logger) *ArenaServer {
	registry := arena.NewRegistry()
	duels := arena.NewDuelStore()
	teams := arena.NewTeamStore()
	settler := &arena.Settler{Progression: progression, History: history, Logger: logger}
	return &ArenaServer{
		Logger:    logger,
		Registry:  registry,
		Queue:     arena.NewMatchQueue(questions, duels, registry, settler, timings, logger),
		Duels:     duels,
		Teams:     teams,
		Questions: questions,
		Settler:   settler,
		Timings:   timings,
	}
}

// arenaEnvelope is the first decode pass: just enough to dispatch on type.
type arenaEnvelope struct {
	Type string `json:"type"`
}

type findMatchRequest struct {
	Level  int    `json:"level"`
	Region string `json:"region,omitempty"`
}

type submitAnswerRequest struct {
	QuestionID uuid.UUID `json:"questionId"`
	Answer     string    `json:"answer"`
	TimeSpent  int       `json:"timeSpent"`
}

type createTeamRoomRequest struct {
	MaxPlayers int `json:"maxPlayers"`
}

type joinTeamRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Team     string `json:"team,omitempty"`
}

// HandleMessage decodes one inbound frame and executes it. Every rejection
// comes back to the sender as an error event; nothing here is fatal to the
// connection.
func (s *ArenaServer) HandleMessage(ctx context.Context, client *arena.Client, data []byte) {
	var env arenaEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		client.WriteError("Invalid JSON format.")
		return
	}

	s.Logger.WithFields(logrus.Fields{
		"conn": client.ID,
		"user": client.UserID,
		"type": env.Type,
	}).Debug("arena message")

	var err error
	switch env.Type {
	case "findMatch":
		var req findMatchRequest
		if err = json.Unmarshal(data, &req); err == nil {
			err = s.Queue.Enqueue(ctx, client, client.UserID, client.Username, req.Level, req.Region)
		}

	case "cancelMatch":
		s.Queue.Cancel(client.ID)
		client.Write(arena.MatchCancelledEvent{Type: arena.EventMatchCancelled, Message: "Matchmaking cancelled."})

	case "playerReady":
		var room *arena.DuelRoom
		if room, err = s.duelRoomOf(client.ID); err == nil {
			err = room.MarkReady(client.ID)
		}

	case "submitAnswer":
		var req submitAnswerRequest
		if err = json.Unmarshal(data, &req); err == nil {
			var room *arena.DuelRoom
			if room, err = s.duelRoomOf(client.ID); err == nil {
				err = room.SubmitAnswer(client.ID, req.QuestionID, req.Answer, req.TimeSpent)
			}
		}

	case "createTeamRoom":
		var req createTeamRoomRequest
		if err = json.Unmarshal(data, &req); err == nil {
			err = s.createTeamRoom(ctx, client, req.MaxPlayers)
		}

	case "joinTeamRoom":
		var req joinTeamRoomRequest
		if err = json.Unmarshal(data, &req); err == nil {
			err = s.joinTeamRoom(client, req.RoomCode, req.Team)
		}

	case "leaveTeamRoom":
		// Leaving when not in a team room is a no-op.
		if roomID, ok := s.Registry.RoomOf(client.ID); ok {
			if room, found := s.Teams.Get(roomID); found {
				s.Registry.Unbind(client.ID)
				room.Leave(client.ID)
			}
		}

	case "teamPlayerReady":
		var room *arena.TeamRoom
		if room, err = s.teamRoomOf(client.ID); err == nil {
			err = room.MarkReady(client.ID)
		}

	case "shuffleTeams":
		var room *arena.TeamRoom
		if room, err = s.teamRoomOf(client.ID); err == nil {
			err = room.Shuffle(client.ID)
		}

	case "startTeamGame":
		var room *arena.TeamRoom
		if room, err = s.teamRoomOf(client.ID); err == nil {
			err = room.Start(client.ID)
		}

	case "teamSubmitAnswer":
		var req submitAnswerRequest
		if err = json.Unmarshal(data, &req); err == nil {
			var room *arena.TeamRoom
			if room, err = s.teamRoomOf(client.ID); err == nil {
				err = room.SubmitAnswer(client.ID, req.QuestionID, req.Answer, req.TimeSpent)
			}
		}

	default:
		client.WriteError("Unknown message type: " + env.Type)
		return
	}

	if err != nil {
		client.WriteError(errorMessage(err))
	}
}

// Disconnect tears down everything the connection participates in: pending
// matchmaking, duel rooms (forfeits), and team rooms (leaves). Safe to call
// for connections with no arena state.
func (s *ArenaServer) Disconnect(connID uuid.UUID) {
	s.Queue.Cancel(connID)

	roomID, ok := s.Registry.Unbind(connID)
	if !ok {
		return
	}
	if room, found := s.Duels.Get(roomID); found {
		room.HandleDisconnect(connID)
		return
	}
	if room, found := s.Teams.Get(roomID); found {
		room.Leave(connID)
	}
}

func (s *ArenaServer) createTeamRoom(ctx context.Context, client *arena.Client, maxPlayers int) error {
	questions, err := s.Questions.SampleQuestions(ctx, s.Timings.QuestionCount)
	if err != nil {
		s.Logger.WithError(err).Error("question sampling failed, team room not created")
		return errors.New("failed to load questions")
	}

	room := arena.NewTeamRoom(client, client.UserID, client.Username, maxPlayers, questions, s.Timings, s.Settler, s.Logger, func(roomID uuid.UUID, members []uuid.UUID) {
		s.Teams.Delete(roomID)
		for _, connID := range members {
			s.Registry.Unbind(connID)
		}
	})
	s.Teams.Add(room)
	s.Registry.Bind(client.ID, room.ID)

	client.Write(arena.TeamRoomCreatedEvent{
		Type:     arena.EventTeamRoomCreated,
		RoomID:   room.ID,
		RoomCode: room.JoinCode,
		Message:  "Room created. Share the code with your friends!",
	})
	room.BroadcastState()
	return nil
}

func (s *ArenaServer) joinTeamRoom(client *arena.Client, roomCode, team string) error {
	room, ok := s.Teams.GetByCode(roomCode)
	if !ok {
		return arena.ErrRoomNotFound
	}
	if err := room.Join(client, client.UserID, client.Username, team); err != nil {
		return err
	}
	s.Registry.Bind(client.ID, room.ID)
	return nil
}

func (s *ArenaServer) duelRoomOf(connID uuid.UUID) (*arena.DuelRoom, error) {
	roomID, ok := s.Registry.RoomOf(connID)
	if !ok {
		return nil, arena.ErrNotInRoom
	}
	room, ok := s.Duels.Get(roomID)
	if !ok {
		return nil, arena.ErrRoomNotFound
	}
	return room, nil
}

func (s *ArenaServer) teamRoomOf(connID uuid.UUID) (*arena.TeamRoom, error) {
	roomID, ok := s.Registry.RoomOf(connID)
	if !ok {
		return nil, arena.ErrNotInRoom
	}
	room, ok := s.Teams.Get(roomID)
	if !ok {
		return nil, arena.ErrRoomNotFound
	}
	return room, nil
}

// errorMessage maps arena sentinel errors to client-facing text.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, arena.ErrAlreadyQueued):
		return "You are already searching for a match."
	case errors.Is(err, arena.ErrRoomNotFound):
		return "Room not found."
	case errors.Is(err, arena.ErrNotInRoom):
		return "You are not in a room."
	case errors.Is(err, arena.ErrInvalidState):
		return "That action is not allowed right now."
	case errors.Is(err, arena.ErrUnauthorized):
		return "Only the host can do that."
	case errors.Is(err, arena.ErrRoomFull):
		return "Room is full."
	case errors.Is(err, arena.ErrDuplicateAnswer):
		return "You already answered this question."
	case errors.Is(err, arena.ErrWrongQuestion):
		return "That answer is for a different question."
	default:
		return err.Error()
	}
}
