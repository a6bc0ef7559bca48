package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/ytdwt-go/internal/app"
	"github.com/yourusername/ytdwt-go/internal/domain"
	"go.uber.org/zap"
)

// SessionHandler handles download session requests
type SessionHandler struct {
	ctx      context.Context
	session  *app.Session
	settings *app.Settings
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler. Runs started over HTTP
// are bound to ctx rather than to the request.
func NewSessionHandler(ctx context.Context, session *app.Session, settings *app.Settings, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		ctx:      ctx,
		session:  session,
		settings: settings,
		logger:   logger,
	}
}

// StartDownloadRequest represents a request to start a download.
// Omitted fields fall back to the saved settings.
type StartDownloadRequest struct {
	URL       string         `json:"url" binding:"required"`
	OutputDir string         `json:"output_dir,omitempty"`
	Quality   domain.Quality `json:"quality,omitempty"`
	AudioOnly *bool          `json:"audio_only,omitempty"`
	Playlist  bool           `json:"playlist,omitempty"`
}

// GetSession handles GET /api/v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// StartDownload handles POST /api/v1/session
func (h *SessionHandler) StartDownload(c *gin.Context) {
	var body StartDownloadRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.settings.NewRequest(body.URL, body.OutputDir, body.Quality, body.AudioOnly, body.Playlist)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.session.Start(h.ctx, req); err != nil {
		if errors.Is(err, app.ErrSessionBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Download requested over HTTP", zap.String("url", req.URL))
	c.JSON(http.StatusAccepted, h.session.Snapshot())
}
