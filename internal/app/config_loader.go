package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/yourusername/ytdwt-go/internal/domain"
)

// DefaultConfigPath returns <user config dir>/ytdwt/config.json
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return expandPath("~/.config/ytdwt/config.json")
	}
	return filepath.Join(dir, "ytdwt", "config.json")
}

// LoadConfig loads configuration from a JSON file and YTDWT_ environment
// variables. It always returns a usable config: when the file exists but
// cannot be used, the defaults are returned together with an error
// describing why, which callers report as a warning.
func LoadConfig(configPath string) (*domain.Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath()
	}

	config := domain.DefaultConfig()
	v := newViper(config)
	v.SetConfigFile(configPath)

	var loadErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			loadErr = fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		// Missing file: defaults plus environment
	}

	if err := v.Unmarshal(config); err != nil {
		config = domain.DefaultConfig()
		loadErr = errors.Join(loadErr, fmt.Errorf("failed to unmarshal config: %w", err))
	}

	config = expandPaths(normalizeConfig(config))
	return config, loadErr
}

// SaveConfig writes the configuration as JSON, creating the directory if needed
func SaveConfig(config *domain.Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	v := viper.New()
	v.SetConfigType("json")

	// Individual keys keep the file in the same shape LoadConfig reads
	v.Set("default_output_dir", config.DefaultOutputDir)
	v.Set("default_quality", string(config.DefaultQuality))
	v.Set("default_format", string(config.DefaultFormat))
	v.Set("ytdlp.binary", config.YTDLP.Binary)
	v.Set("server.host", config.Server.Host)
	v.Set("server.port", config.Server.Port)
	v.Set("history.enabled", config.History.Enabled)
	v.Set("history.database_path", config.History.DatabasePath)
	v.Set("ui.poll_interval", config.UI.PollInterval.String())
	v.Set("notification.enabled", config.Notification.Enabled)
	v.Set("notification.method", config.Notification.Method)
	v.Set("logging.level", config.Logging.Level)
	v.Set("logging.format", config.Logging.Format)
	v.Set("logging.output_path", config.Logging.OutputPath)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// newViper registers every key with its default so environment overrides
// reach Unmarshal even when the file does not mention the key
func newViper(defaults *domain.Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix("YTDWT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("default_output_dir", defaults.DefaultOutputDir)
	v.SetDefault("default_quality", string(defaults.DefaultQuality))
	v.SetDefault("default_format", string(defaults.DefaultFormat))
	v.SetDefault("ytdlp.binary", defaults.YTDLP.Binary)
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("history.enabled", defaults.History.Enabled)
	v.SetDefault("history.database_path", defaults.History.DatabasePath)
	v.SetDefault("ui.poll_interval", defaults.UI.PollInterval.String())
	v.SetDefault("notification.enabled", defaults.Notification.Enabled)
	v.SetDefault("notification.method", defaults.Notification.Method)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output_path", defaults.Logging.OutputPath)
	return v
}

// normalizeConfig replaces unusable values with their defaults
func normalizeConfig(config *domain.Config) *domain.Config {
	defaults := domain.DefaultConfig()

	if strings.TrimSpace(config.DefaultOutputDir) == "" {
		config.DefaultOutputDir = defaults.DefaultOutputDir
	}
	if !domain.ValidateQuality(config.DefaultQuality) {
		config.DefaultQuality = defaults.DefaultQuality
	}
	if !domain.ValidateFormat(config.DefaultFormat) {
		config.DefaultFormat = defaults.DefaultFormat
	}
	if config.YTDLP.Binary == "" {
		config.YTDLP.Binary = defaults.YTDLP.Binary
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		config.Server.Port = defaults.Server.Port
	}
	if config.History.DatabasePath == "" {
		config.History.DatabasePath = defaults.History.DatabasePath
	}
	if config.UI.PollInterval <= 0 {
		config.UI.PollInterval = defaults.UI.PollInterval
	}
	if config.UI.PollInterval < 10*time.Millisecond {
		config.UI.PollInterval = 10 * time.Millisecond
	}
	if config.Logging.Level == "" {
		config.Logging.Level = defaults.Logging.Level
	}

	return config
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.DefaultOutputDir = expandPath(config.DefaultOutputDir)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	// $HOME is resolved through os.UserHomeDir so it works where HOME is unset
	if strings.Contains(path, "$HOME") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return os.ExpandEnv(path)
}
