package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/ytdwt-go/internal/app"
	"github.com/yourusername/ytdwt-go/internal/domain"
	"go.uber.org/zap"
)

// SettingsHandler reads and saves the user defaults
type SettingsHandler struct {
	settings *app.Settings
	logger   *zap.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *app.Settings, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		logger:   logger,
	}
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings":        h.settings.Current(),
		"quality_options": domain.QualityOptions(),
	})
}

// SaveSettings handles PUT /api/v1/settings
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var body domain.UserSettings
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settings.Save(body); err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to save settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Settings saved", zap.String("path", h.settings.Path()))
	c.JSON(http.StatusOK, gin.H{"settings": h.settings.Current()})
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidQuality) ||
		errors.Is(err, domain.ErrInvalidFormat) ||
		errors.Is(err, domain.ErrEmptyOutputDir)
}
