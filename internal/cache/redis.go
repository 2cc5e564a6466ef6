// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// DefaultHistoryQueue is the Redis list the stats consumer drains.
var DefaultHistoryQueue = "arena_match_history"

// PlayerLine is one participant's summary inside a MatchRecord.
type PlayerLine struct {
	UserID         uuid.UUID `json:"user_id"`
	Username       string    `json:"username"`
	Team           string    `json:"team,omitempty"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
}

// MatchRecord is the finished-room summary handed off to the out-of-process
// match-history consumer.
type MatchRecord struct {
	RoomID     uuid.UUID    `json:"room_id"`
	Mode       string       `json:"mode"`
	Winner     string       `json:"winner"`
	Players    []PlayerLine `json:"players"`
	StartedAt  int64        `json:"started_at"`
	FinishedAt int64        `json:"finished_at"`
}

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// Recorder publishes match records onto the Redis history queue.
type Recorder struct{}

// RecordMatch serializes the record to JSON and pushes it onto the queue.
// Best-effort: callers log and move on when this fails.
func (Recorder) RecordMatch(ctx context.Context, record MatchRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal MatchRecord: %w", err)
	}

	queueName := getEnv("ARENA_HISTORY_QUEUE", DefaultHistoryQueue)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
