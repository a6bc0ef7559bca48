package app

import (
	"context"
	"errors"

	"github.com/yourusername/ytdwt-go/internal/domain"
	"github.com/yourusername/ytdwt-go/internal/infrastructure"
	"go.uber.org/zap"
)

// ErrSessionBusy is returned by Start while a run is in flight
var ErrSessionBusy = errors.New("a download is already in progress")

// Notifier announces the end of a run
type Notifier interface {
	NotifyDownloadCompleted(url string)
	NotifyDownloadFailed(url, detail string)
}

// SessionOption configures optional collaborators of a Session
type SessionOption func(*Session)

// WithHistory records every run in repo
func WithHistory(repo domain.HistoryRepository) SessionOption {
	return func(s *Session) {
		s.history = repo
	}
}

// WithNotifier announces every finished run through n
func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) {
		s.notifier = n
	}
}

// Session supervises one yt-dlp run at a time and publishes its progress
type Session struct {
	binary   string
	spawner  domain.ProcessSpawner
	state    *SharedState
	history  domain.HistoryRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewSession creates a new download session. A nil state starts a fresh idle one.
func NewSession(
	binary string,
	spawner domain.ProcessSpawner,
	state *SharedState,
	logger *zap.Logger,
	opts ...SessionOption,
) *Session {
	if state == nil {
		state = NewSharedState()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		binary:  binary,
		spawner: spawner,
		state:   state,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the shared state observers poll
func (s *Session) State() *SharedState {
	return s.state
}

// Snapshot returns a copy of the current session state
func (s *Session) Snapshot() domain.SessionState {
	return s.state.Snapshot()
}

// Start begins a run for req. The state is in the downloading phase when
// Start returns; the run itself continues in the background and the returned
// channel is closed once it reached a terminal phase. Failures of the run are
// only reported through the state.
func (s *Session) Start(ctx context.Context, req domain.DownloadRequest) (<-chan struct{}, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	busy := false
	s.state.WithExclusiveAccess(func(state *domain.SessionState) {
		if !state.Phase.IsTerminal() {
			busy = true
			return
		}
		state.MarkDownloading()
	})
	if busy {
		return nil, ErrSessionBusy
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(ctx, req)
	}()
	return done, nil
}

// run executes spawn, drain and wait, then publishes the terminal state
func (s *Session) run(ctx context.Context, req domain.DownloadRequest) {
	args := infrastructure.BuildYTDLPArgs(req)
	record := s.beginRecord(req, infrastructure.ShellEscapeCommand(s.binary, args...))

	s.logger.Info("Download started",
		zap.String("url", req.URL),
		zap.String("output_dir", req.OutputDir),
		zap.String("quality", string(req.Quality)),
		zap.Bool("audio_only", req.AudioOnly),
		zap.Bool("playlist", req.Playlist))

	runErr := s.supervise(ctx, args)

	var final domain.SessionState
	s.state.WithExclusiveAccess(func(state *domain.SessionState) {
		if runErr != nil {
			state.MarkFailed(runErr)
		} else {
			state.MarkComplete()
		}
		final = *state
	})

	if runErr != nil {
		s.logger.Error("Download failed",
			zap.String("url", req.URL),
			zap.Float64("progress", final.ProgressPercent),
			zap.Error(runErr))
	} else {
		s.logger.Info("Download completed", zap.String("url", req.URL))
	}

	s.finishRecord(record, final)
	s.notify(req.URL, final)
}

// supervise spawns the process and drains both streams until they end.
// It returns the error the run failed with, or nil on success.
func (s *Session) supervise(ctx context.Context, args []string) error {
	proc, err := s.spawner.Spawn(ctx, s.binary, args)
	if err != nil {
		return err
	}

	stdout, stderr := proc.Stdout(), proc.Stderr()
	for stdout != nil || stderr != nil {
		select {
		case line, ok := <-stdout:
			if !ok {
				stdout = nil
				continue
			}
			if line.Err != nil {
				return s.abort(proc, &domain.StreamReadError{Stream: domain.StreamStdout, Err: line.Err})
			}
			if update, ok := infrastructure.ParseProgressLine(line.Text); ok {
				s.apply(update)
			}
		case line, ok := <-stderr:
			if !ok {
				stderr = nil
				continue
			}
			if line.Err != nil {
				return s.abort(proc, &domain.StreamReadError{Stream: domain.StreamStderr, Err: line.Err})
			}
			if update, ok := infrastructure.ParseErrorLine(line.Text); ok {
				s.apply(update)
			}
		case <-ctx.Done():
			return s.abort(proc, &domain.CancelledError{Err: ctx.Err()})
		}
	}

	status, err := proc.Wait()
	if err != nil {
		return &domain.ProcessWaitError{Err: err}
	}
	if !status.Success {
		// A killed child after cancellation reports no exit code
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &domain.CancelledError{Err: ctxErr}
		}
		return &domain.NonZeroExitError{Status: status}
	}
	return nil
}

func (s *Session) apply(update domain.ProgressUpdate) {
	s.state.WithExclusiveAccess(func(state *domain.SessionState) {
		state.Apply(update)
	})
}

// abort publishes the failure, then kills the process to release its handles
func (s *Session) abort(proc domain.Process, cause error) error {
	s.state.WithExclusiveAccess(func(state *domain.SessionState) {
		state.MarkFailed(cause)
	})
	if err := proc.Kill(); err != nil {
		s.logger.Warn("Failed to kill process", zap.Error(err))
	}
	return cause
}

func (s *Session) beginRecord(req domain.DownloadRequest, commandLine string) *domain.DownloadRecord {
	if s.history == nil {
		return nil
	}
	record := domain.NewDownloadRecord(req, commandLine)
	if err := s.history.Create(record); err != nil {
		s.logger.Warn("Failed to record download", zap.String("url", req.URL), zap.Error(err))
		return nil
	}
	return record
}

func (s *Session) finishRecord(record *domain.DownloadRecord, final domain.SessionState) {
	if record == nil {
		return
	}
	record.Finish(final)
	if err := s.history.Update(record); err != nil {
		s.logger.Warn("Failed to update download record",
			zap.String("id", record.ID),
			zap.Error(err))
	}
}

func (s *Session) notify(url string, final domain.SessionState) {
	if s.notifier == nil {
		return
	}
	switch final.Phase {
	case domain.PhaseComplete:
		s.notifier.NotifyDownloadCompleted(url)
	case domain.PhaseError:
		s.notifier.NotifyDownloadFailed(url, final.ErrorDetail)
	}
}
