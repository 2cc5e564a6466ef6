// internal/models/user.go
package models

import "github.com/google/uuid"

// User is the persistent player record owned by the progression store.
// The arena core never mutates one directly; it reads them and applies
// ProgressionDelta updates through the database layer at settlement.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email,omitempty"`
	Password    string    `json:"-"`
	Username    string    `json:"username"`
	IsEphemeral bool      `json:"isEphemeral"`

	Level             int `json:"level"`
	XP                int `json:"xp"`
	Coins             int `json:"coins"`
	TotalGames        int `json:"totalGames"`
	DuelsPlayed       int `json:"challenge1v1Played"`
	TeamMatchesPlayed int `json:"teamMatchesPlayed"`
}

// ProgressionDelta is an additive progression update applied at settlement.
// Level is intentionally absent: it is managed by the account surface, not
// the match engine.
type ProgressionDelta struct {
	XP                int
	Coins             int
	TotalGames        int
	DuelsPlayed       int
	TeamMatchesPlayed int
}
