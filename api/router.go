package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/ytdwt-go/api/handlers"
	"github.com/yourusername/ytdwt-go/api/middleware"
	"github.com/yourusername/ytdwt-go/internal/app"
	"github.com/yourusername/ytdwt-go/internal/domain"
)

// RouterDeps are the collaborators the HTTP API is built on.
// History is optional; its routes are only registered when set.
type RouterDeps struct {
	Session  *app.Session
	Settings *app.Settings
	History  domain.HistoryRepository
	Config   *domain.Config
	Version  string
	Logger   *zap.Logger
}

// SetupRouter sets up the HTTP router. Runs started over HTTP live as long as ctx.
func SetupRouter(ctx context.Context, deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())

	healthHandler := handlers.NewHealthHandler(deps.Session, deps.Config.YTDLP.Binary, deps.Version)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		sessionHandler := handlers.NewSessionHandler(ctx, deps.Session, deps.Settings, deps.Logger)
		wsHandler := handlers.NewSessionWebSocketHandler(deps.Session.State(), deps.Config.UI.PollInterval, deps.Logger)
		session := v1.Group("/session")
		{
			session.GET("", sessionHandler.GetSession)
			session.POST("", sessionHandler.StartDownload)
			session.GET("/ws", wsHandler.HandleWebSocket)
		}

		settingsHandler := handlers.NewSettingsHandler(deps.Settings, deps.Logger)
		v1.GET("/settings", settingsHandler.GetSettings)
		v1.PUT("/settings", settingsHandler.SaveSettings)

		if deps.History != nil {
			historyHandler := handlers.NewHistoryHandler(deps.History, deps.Logger)
			history := v1.Group("/history")
			{
				history.GET("", historyHandler.ListHistory)
				history.GET("/stats", historyHandler.GetStats)
				history.GET("/:id", historyHandler.GetRecord)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.String(http.StatusNotFound, "ytdwt: try /api/v1/session or /health")
	})

	return router
}
