package infrastructure

import (
	"strconv"
	"strings"

	"github.com/yourusername/ytdwt-go/internal/domain"
)

// Markers recognised in yt-dlp output
const (
	progressMarker    = "[download]"
	destinationMarker = "Destination:"
	mergeMarker       = "Merging"
	errorMarker       = "ERROR"
)

// ParseProgressLine extracts a state update from one line of yt-dlp stdout.
// The output format of yt-dlp is not stable, so parsing is best effort:
// a percentage that cannot be read is skipped and only the status text changes.
func ParseProgressLine(line string) (domain.ProgressUpdate, bool) {
	if strings.Contains(line, progressMarker) {
		update := domain.StatusUpdate(line)
		if percent, ok := extractPercent(line); ok {
			update.Percent = percent
			update.HasPercent = true
		}
		return update, true
	}

	if strings.Contains(line, destinationMarker) || strings.Contains(line, mergeMarker) {
		return domain.StatusUpdate(line), true
	}

	return domain.ProgressUpdate{}, false
}

// ParseErrorLine extracts a state update from one line of yt-dlp stderr.
// Only error lines are surfaced; warnings and debug output are dropped.
func ParseErrorLine(line string) (domain.ProgressUpdate, bool) {
	if !strings.Contains(line, errorMarker) {
		return domain.ProgressUpdate{}, false
	}
	return domain.StatusUpdate(line), true
}

// extractPercent reads the number directly in front of the first '%'
func extractPercent(line string) (float64, bool) {
	end := strings.IndexByte(line, '%')
	if end < 0 {
		return 0, false
	}

	start := end
	for start > 0 && isNumberChar(line[start-1]) {
		start--
	}
	if start == end {
		return 0, false
	}

	percent, err := strconv.ParseFloat(line[start:end], 64)
	if err != nil || percent < 0 || percent > 100 {
		return 0, false
	}
	return percent, true
}

func isNumberChar(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}
