package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/ytdwt-go/internal/app"
	"github.com/yourusername/ytdwt-go/internal/domain"
)

var (
	downloadOutputDir    string
	downloadQuality      string
	downloadAudio        bool
	downloadPlaylist     bool
	downloadSaveSettings bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download a video or playlist and follow its progress",
	Long: `Download a URL with yt-dlp. Unset options fall back to the saved settings.
Progress is drawn as a bar on a terminal and as plain lines otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutputDir, "output", "o", "", "Output directory")
	downloadCmd.Flags().StringVarP(&downloadQuality, "quality", "q", "", "Quality: best, 1080p, 720p or 480p")
	downloadCmd.Flags().BoolVar(&downloadAudio, "audio", false, "Extract audio only (MP3)")
	downloadCmd.Flags().BoolVar(&downloadPlaylist, "playlist", false, "Download the whole playlist")
	downloadCmd.Flags().BoolVar(&downloadSaveSettings, "save-settings", false, "Save output directory, quality and format as defaults")
}

func runDownload(cmd *cobra.Command, args []string) error {
	settings := app.NewSettings(cfg, configPath)

	var audio *bool
	if cmd.Flags().Changed("audio") {
		audio = &downloadAudio
	}

	req, err := settings.NewRequest(args[0], downloadOutputDir, domain.Quality(downloadQuality), audio, downloadPlaylist)
	if err != nil {
		return err
	}

	if downloadSaveSettings {
		saved := domain.UserSettings{OutputDir: req.OutputDir, Quality: req.Quality, Format: req.Format()}
		if err := settings.Save(saved); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Settings saved to %s\n", settings.Path())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, _, cleanup := buildSession()
	defer cleanup()

	done, err := session.Start(ctx, req)
	if err != nil {
		return err
	}

	log.Debug("Rendering download progress",
		zap.String("url", req.URL),
		zap.Duration("poll_interval", cfg.UI.PollInterval))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Downloading %s to %s\n", req.URL, req.OutputDir)
	final := renderUntilDone(session, done, cfg.UI.PollInterval, newRenderer(out))

	if final.Phase == domain.PhaseError {
		return errSilent
	}
	return nil
}
