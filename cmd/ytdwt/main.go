package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/ytdwt-go/internal/app"
	"github.com/yourusername/ytdwt-go/internal/domain"
	"github.com/yourusername/ytdwt-go/pkg/logger"
)

var version = "dev"

var (
	configPath string
	logLevel   string

	cfg *domain.Config
	log *zap.Logger

	rootCmd = &cobra.Command{
		Use:           "ytdwt",
		Short:         "ytdwt - a yt-dlp download supervisor",
		Long:          `Download videos and audio with yt-dlp while following progress in the terminal or over HTTP.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}
)

// errSilent signals a failure that was already reported to the user
var errSilent = errors.New("failure already reported")

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <user config dir>/ytdwt/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(checkCmd)
}

// setup loads the configuration and builds the logger shared by all commands
func setup() error {
	if configPath == "" {
		configPath = app.DefaultConfigPath()
	}

	var loadErr error
	cfg, loadErr = app.LoadConfig(configPath)
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	var err error
	log, err = logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if loadErr != nil {
		log.Warn("Ignoring unusable config file, using defaults",
			zap.String("path", configPath),
			zap.Error(loadErr))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
