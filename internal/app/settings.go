package app

import (
	"fmt"
	"sync"

	"github.com/yourusername/ytdwt-go/internal/domain"
)

// Settings gives front ends shared access to the loaded configuration and
// saves the user defaults on request
type Settings struct {
	mu     sync.RWMutex
	config *domain.Config
	path   string
}

// NewSettings wraps a loaded configuration and the file it is saved to
func NewSettings(config *domain.Config, path string) *Settings {
	return &Settings{config: config, path: path}
}

// Current returns the user defaults
func (s *Settings) Current() domain.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.UserSettings()
}

// Path returns the configuration file path
func (s *Settings) Path() string {
	return s.path
}

// Save validates and stores the user defaults, then writes the config file
func (s *Settings) Save(settings domain.UserSettings) error {
	settings.OutputDir = expandPath(settings.OutputDir)
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.config.UserSettings()
	s.config.ApplyUserSettings(settings)
	if err := SaveConfig(s.config, s.path); err != nil {
		s.config.ApplyUserSettings(previous)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// NewRequest builds a request for url, filling unset fields from the user defaults
func (s *Settings) NewRequest(url, outputDir string, quality domain.Quality, audioOnly *bool, playlist bool) (domain.DownloadRequest, error) {
	defaults := s.Current()
	if outputDir == "" {
		outputDir = defaults.OutputDir
	}
	if quality == "" {
		quality = defaults.Quality
	}
	audio := defaults.Format == domain.FormatAudio
	if audioOnly != nil {
		audio = *audioOnly
	}
	return domain.NewDownloadRequest(url, expandPath(outputDir), quality, audio, playlist)
}
