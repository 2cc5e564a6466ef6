// internal/handlers/arena_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/DevWisdom08/Football-Arena/internal/arena"
	"github.com/DevWisdom08/Football-Arena/internal/database"
	"github.com/DevWisdom08/Football-Arena/internal/middleware"
)

// ArenaWSHandler upgrades the connection, authenticates the user (minting an
// ephemeral guest if needed), and runs the read loop. All game state lives
// in the ArenaServer; one Client handle per socket.
func ArenaWSHandler(logger *logrus.Logger, s *ArenaServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"arena"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "arena" {
			c.Close(BadSubprotocolError, "client must speak the arena subprotocol")
			return
		}

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("user authentication failed: %v", err)
			c.Close(websocket.StatusPolicyViolation, "Authentication failed.")
			return
		}

		username := "Guest"
		if u, err := database.GetUserByID(r.Context(), userID); err == nil {
			username = u.Username
		} else {
			logger.Warnf("failed to load user %s, using fallback name: %v", userID, err)
		}

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		client := arena.NewClient(userID)
		client.Username = username
		client.Cancel = cancel

		go arenaWritePump(ctx, c, client, logger)

		readArenaMessages(ctx, c, s, client, logger)

		// Cleanup after the read loop exits for any reason.
		cancel()
		s.Disconnect(client.ID)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
	}
}

// readArenaMessages blocks reading frames until close or error. Each text
// frame is handed to the ArenaServer for dispatch.
func readArenaMessages(ctx context.Context, c *websocket.Conn, s *ArenaServer, client *arena.Client, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for user %s", client.UserID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("websocket context canceled for user %s", client.UserID)
			} else {
				logger.Warnf("read error for user %s: %v (close status: %d)", client.UserID, err, closeStatus)
			}
			return
		}

		if typ != websocket.MessageText {
			logger.Warnf("non-text message type %d from user %s, ignoring", typ, client.UserID)
			continue
		}

		s.HandleMessage(ctx, client, data)
	}
}

// arenaWritePump drains the client's outgoing channel onto the socket and
// pings periodically to keep intermediaries from closing an idle connection.
func arenaWritePump(ctx context.Context, c *websocket.Conn, client *arena.Client, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-client.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warnf("failed to marshal outgoing event for user %s: %v", client.UserID, err)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("failed to write to websocket for user %s: %v", client.UserID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("ping failed for user %s: %v", client.UserID, err)
				return
			}
		}
	}
}
