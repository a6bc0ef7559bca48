package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/yourusername/ytdwt-go/internal/domain"
)

const maxStatusWidth = 60

type snapshotter interface {
	Snapshot() domain.SessionState
}

// progressRenderer draws session snapshots for the user
type progressRenderer interface {
	Update(state domain.SessionState)
	Finish(state domain.SessionState)
}

// renderUntilDone polls src every interval and redraws on change until done
// is closed, then renders the final state once and returns it
func renderUntilDone(src snapshotter, done <-chan struct{}, interval time.Duration, r progressRenderer) domain.SessionState {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := src.Snapshot()
	r.Update(last)

	for {
		select {
		case <-done:
			final := src.Snapshot()
			r.Finish(final)
			return final
		case <-ticker.C:
			snapshot := src.Snapshot()
			if snapshot != last {
				last = snapshot
				r.Update(snapshot)
			}
		}
	}
}

// newRenderer picks a progress bar on terminals and plain lines otherwise
func newRenderer(w io.Writer) progressRenderer {
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return newBarRenderer(w)
		}
	}
	return &lineRenderer{w: w}
}

// lineRenderer prints one line per status change, for logs and pipes
type lineRenderer struct {
	w          io.Writer
	lastStatus string
}

func (l *lineRenderer) Update(state domain.SessionState) {
	if state.Phase != domain.PhaseDownloading || state.StatusText == l.lastStatus {
		return
	}
	l.lastStatus = state.StatusText
	fmt.Fprintf(l.w, "[%5.1f%%] %s\n", state.ProgressPercent, state.StatusText)
}

func (l *lineRenderer) Finish(state domain.SessionState) {
	switch state.Phase {
	case domain.PhaseComplete:
		fmt.Fprintln(l.w, state.StatusText)
	case domain.PhaseError:
		fmt.Fprintf(l.w, "Error: %s\n", state.ErrorDetail)
	}
}

// barRenderer draws a single progress bar line with the status as description
type barRenderer struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newBarRenderer(w io.Writer) *barRenderer {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(domain.StatusStarting),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &barRenderer{w: w, bar: bar}
}

func (b *barRenderer) Update(state domain.SessionState) {
	b.bar.Describe(truncate(state.StatusText, maxStatusWidth))
	_ = b.bar.Set(int(state.ProgressPercent))
}

func (b *barRenderer) Finish(state domain.SessionState) {
	switch state.Phase {
	case domain.PhaseComplete:
		b.bar.Describe(state.StatusText)
		_ = b.bar.Set(100)
		_ = b.bar.Finish()
		fmt.Fprintln(b.w)
	case domain.PhaseError:
		_ = b.bar.Exit()
		fmt.Fprintf(b.w, "\nError: %s\n", state.ErrorDetail)
	}
}

// truncate shortens s to limit runes, marking the cut with "..."
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
