package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DevWisdom08/Football-Arena/internal/auth"
	"github.com/DevWisdom08/Football-Arena/internal/models"
)

func CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}

	hash, err := auth.CreateHash(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	if user.Level == 0 {
		user.Level = 1
	}

	q := `INSERT INTO users (id, email, password, username, is_ephemeral, level, xp, coins)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			user.ID, user.Email, user.Password, user.Username,
			user.IsEphemeral, user.Level, user.XP, user.Coins,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

const userColumns = `id, email, password, username, is_ephemeral,
	       level, xp, coins, total_games, duels_played, team_matches_played`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Username, &u.IsEphemeral,
		&u.Level, &u.XP, &u.Coins, &u.TotalGames, &u.DuelsPlayed, &u.TeamMatchesPlayed,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(DB.QueryRow(ctx, q, email))
}

func GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(DB.QueryRow(ctx, q, id))
}

func AuthenticateUser(ctx context.Context, email, password string) (string, error) {
	user, err := GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("user not found or db error: %w", err)
	}

	match, err := auth.ComparePasswordAndHash(password, user.Password)
	if err != nil || !match {
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := auth.CreateJWT(user.ID.String())
	if err != nil {
		return "", fmt.Errorf("failed to create jwt: %w", err)
	}

	return token, nil
}

// UpdateUserCredentials updates a user's email/password and ephemeral flag in DB
func UpdateUserCredentials(ctx context.Context, u *models.User) error {
	hashed, err := auth.CreateHash(u.Password)
	if err != nil {
		return err
	}

	q := `UPDATE users SET email = $1, password = $2, is_ephemeral = $3 WHERE id = $4`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q, u.Email, hashed, u.IsEphemeral, u.ID)
		return e
	})
	if err != nil {
		return fmt.Errorf("failed to update user credentials: %w", err)
	}
	return nil
}

// ApplyProgressionDelta adds the delta to the user's counters in one
// statement and returns the updated row.
func ApplyProgressionDelta(ctx context.Context, id uuid.UUID, delta models.ProgressionDelta) (*models.User, error) {
	q := `
	UPDATE users
	SET xp = xp + $1,
	    coins = coins + $2,
	    total_games = total_games + $3,
	    duels_played = duels_played + $4,
	    team_matches_played = team_matches_played + $5
	WHERE id = $6
	RETURNING ` + userColumns

	return scanUser(DB.QueryRow(ctx, q,
		delta.XP, delta.Coins, delta.TotalGames,
		delta.DuelsPlayed, delta.TeamMatchesPlayed, id,
	))
}

// Progression adapts the users table to the arena settlement interface.
type Progression struct{}

func (Progression) Player(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return GetUserByID(ctx, id)
}

func (Progression) ApplyDelta(ctx context.Context, id uuid.UUID, delta models.ProgressionDelta) (*models.User, error) {
	return ApplyProgressionDelta(ctx, id, delta)
}
