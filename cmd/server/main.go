// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/DevWisdom08/Football-Arena/internal/arena"
	"github.com/DevWisdom08/Football-Arena/internal/auth"
	"github.com/DevWisdom08/Football-Arena/internal/cache"
	"github.com/DevWisdom08/Football-Arena/internal/database"
	"github.com/DevWisdom08/Football-Arena/internal/handlers"
	"github.com/DevWisdom08/Football-Arena/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()
	if err := cache.ConnectRedis(); err != nil {
		log.Fatalf("redis connect error: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)
	mux.HandleFunc("/user/claim", handlers.ClaimEphemeralHandler)

	// arena websocket
	srv := handlers.NewArenaServer(
		database.QuestionBank{},
		database.Progression{},
		cache.Recorder{},
		timingsFromEnv(),
		logger,
	)

	mux.Handle("/arena/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ArenaWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// timingsFromEnv starts from the production defaults and applies any
// overrides. ARENA_ANSWER_TIMEOUT=0 disables the per-question timeout.
func timingsFromEnv() arena.Timings {
	t := arena.DefaultTimings()
	if v := os.Getenv("ARENA_QUESTION_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			t.QuestionCount = n
		}
	}
	if v := os.Getenv("ARENA_ANSWER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			t.AnswerTimeout = d
		}
	}
	return t
}
