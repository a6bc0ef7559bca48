package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yourusername/ytdwt-go/internal/app"
	"github.com/yourusername/ytdwt-go/internal/domain"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// SessionWebSocketHandler pushes session snapshots to WebSocket clients
type SessionWebSocketHandler struct {
	state        *app.SharedState
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewSessionWebSocketHandler creates a new WebSocket handler polling state every pollInterval
func NewSessionWebSocketHandler(state *app.SharedState, pollInterval time.Duration, log *zap.Logger) *SessionWebSocketHandler {
	return &SessionWebSocketHandler{
		state:        state,
		pollInterval: pollInterval,
		logger:       log,
	}
}

// HandleWebSocket handles GET /api/v1/session/ws. The current snapshot is
// sent on connect and again on every poll tick where it changed.
func (h *SessionWebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("WebSocket client connected",
		zap.String("remote_addr", c.Request.RemoteAddr))

	// Read messages from client so close frames and pongs are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	last := h.state.Snapshot()
	if err := h.send(conn, last); err != nil {
		return
	}

	poll := time.NewTicker(h.pollInterval)
	defer poll.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-poll.C:
			snapshot := h.state.Snapshot()
			if snapshot == last {
				continue
			}
			last = snapshot
			if err := h.send(conn, snapshot); err != nil {
				h.logger.Debug("Failed to send snapshot", zap.Error(err))
				return
			}

		case <-ping.C:
			deadline := time.Now().Add(writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}

func (h *SessionWebSocketHandler) send(conn *websocket.Conn, snapshot domain.SessionState) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(snapshot)
}
