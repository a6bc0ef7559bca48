package main

import (
	"go.uber.org/zap"

	"github.com/yourusername/ytdwt-go/internal/app"
	"github.com/yourusername/ytdwt-go/internal/infrastructure"
)

// buildSession wires a session to the yt-dlp supervisor, the run history
// and desktop notifications. History is skipped when it cannot be opened.
func buildSession() (*app.Session, *infrastructure.SQLiteHistoryRepository, func()) {
	opts := []app.SessionOption{
		app.WithNotifier(infrastructure.NewNotificationService(&cfg.Notification, log)),
	}
	cleanup := func() {}

	var repo *infrastructure.SQLiteHistoryRepository
	if cfg.History.Enabled {
		var err error
		repo, err = infrastructure.NewSQLiteHistoryRepository(cfg.History.DatabasePath)
		if err != nil {
			log.Warn("Download history unavailable", zap.Error(err))
			repo = nil
		} else {
			opts = append(opts, app.WithHistory(repo))
			cleanup = func() {
				if err := repo.Close(); err != nil {
					log.Warn("Failed to close history database", zap.Error(err))
				}
			}
		}
	}

	session := app.NewSession(cfg.YTDLP.Binary, infrastructure.NewProcessSupervisor(log), nil, log, opts...)
	return session, repo, cleanup
}
