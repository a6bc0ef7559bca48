package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/ytdwt-go/internal/app"
	"github.com/yourusername/ytdwt-go/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the saved settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"Key", "Value"},
			configRows(configPath, cfg),
			nil,
		))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a default: default_output_dir, default_quality or default_format",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := app.NewSettings(cfg, configPath)

		updated, err := applySetting(settings.Current(), args[0], args[1])
		if err != nil {
			return err
		}
		if err := settings.Save(updated); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s = %s to %s\n", args[0], args[1], settings.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// applySetting returns current with one user default replaced
func applySetting(current domain.UserSettings, key, value string) (domain.UserSettings, error) {
	switch key {
	case "default_output_dir":
		current.OutputDir = value
	case "default_quality":
		current.Quality = domain.Quality(strings.ToLower(value))
	case "default_format":
		current.Format = domain.DownloadFormat(strings.ToLower(value))
	default:
		return current, fmt.Errorf("unknown setting %q (expected default_output_dir, default_quality or default_format)", key)
	}
	return current, current.Validate()
}

func configRows(path string, config *domain.Config) [][]string {
	return [][]string{
		{"config file", path},
		{"default_output_dir", config.DefaultOutputDir},
		{"default_quality", string(config.DefaultQuality)},
		{"default_format", string(config.DefaultFormat)},
		{"ytdlp.binary", config.YTDLP.Binary},
		{"server", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)},
		{"history.enabled", strconv.FormatBool(config.History.Enabled)},
		{"history.database_path", config.History.DatabasePath},
		{"ui.poll_interval", config.UI.PollInterval.String()},
		{"notification", notificationSummary(config.Notification)},
		{"logging", fmt.Sprintf("%s (%s, %s)", config.Logging.Level, config.Logging.Format, config.Logging.OutputPath)},
	}
}

func notificationSummary(n domain.NotificationConfig) string {
	if !n.Enabled {
		return "disabled"
	}
	return n.Method
}
