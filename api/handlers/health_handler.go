package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/ytdwt-go/internal/app"
	"github.com/yourusername/ytdwt-go/internal/infrastructure"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	session *app.Session
	binary  string
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(session *app.Session, binary, version string) *HealthHandler {
	return &HealthHandler{
		session: session,
		binary:  binary,
		version: version,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Session struct {
		Phase string `json:"phase"`
	} `json:"session"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	response.Session.Phase = h.session.Snapshot().Phase.String()

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready. The service is ready when yt-dlp can be found.
func (h *HealthHandler) Ready(c *gin.Context) {
	path, err := infrastructure.LookupExecutable(h.binary)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "ytdlp": path})
}
