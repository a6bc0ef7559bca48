package domain

import (
	"fmt"
	"time"
)

// Config represents the application configuration.
// The three default_* keys are the user settings saved from the front ends.
type Config struct {
	DefaultOutputDir string             `mapstructure:"default_output_dir"`
	DefaultQuality   Quality            `mapstructure:"default_quality"`
	DefaultFormat    DownloadFormat     `mapstructure:"default_format"`
	YTDLP            YTDLPConfig        `mapstructure:"ytdlp"`
	Server           ServerConfig       `mapstructure:"server"`
	History          HistoryConfig      `mapstructure:"history"`
	UI               UIConfig           `mapstructure:"ui"`
	Notification     NotificationConfig `mapstructure:"notification"`
	Logging          LoggingConfig      `mapstructure:"logging"`
}

// YTDLPConfig contains yt-dlp specific configuration
type YTDLPConfig struct {
	Binary string `mapstructure:"binary"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// HistoryConfig contains run history configuration
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// UIConfig contains settings for the observers polling the session state
type UIConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultOutputDir: "$HOME/Downloads",
		DefaultQuality:   QualityBest,
		DefaultFormat:    FormatVideo,
		YTDLP: YTDLPConfig{
			Binary: "yt-dlp",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "$HOME/.ytdwt/history.db",
		},
		UI: UIConfig{
			PollInterval: 100 * time.Millisecond,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}

// DefaultRequest builds a request for url from the saved user settings
func (c *Config) DefaultRequest(url string) (DownloadRequest, error) {
	return NewDownloadRequest(url, c.DefaultOutputDir, c.DefaultQuality, c.DefaultFormat == FormatAudio, false)
}

// UserSettings are the defaults a user can change and save from a front end
type UserSettings struct {
	OutputDir string         `json:"default_output_dir"`
	Quality   Quality        `json:"default_quality"`
	Format    DownloadFormat `json:"default_format"`
}

// Validate checks that the settings can be saved
func (u UserSettings) Validate() error {
	if u.OutputDir == "" {
		return ErrEmptyOutputDir
	}
	if !ValidateQuality(u.Quality) {
		return fmt.Errorf("%w: %q", ErrInvalidQuality, u.Quality)
	}
	if !ValidateFormat(u.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, u.Format)
	}
	return nil
}

// UserSettings returns the saved defaults of the configuration
func (c *Config) UserSettings() UserSettings {
	return UserSettings{
		OutputDir: c.DefaultOutputDir,
		Quality:   c.DefaultQuality,
		Format:    c.DefaultFormat,
	}
}

// ApplyUserSettings replaces the saved defaults
func (c *Config) ApplyUserSettings(u UserSettings) {
	c.DefaultOutputDir = u.OutputDir
	c.DefaultQuality = u.Quality
	c.DefaultFormat = u.Format
}
