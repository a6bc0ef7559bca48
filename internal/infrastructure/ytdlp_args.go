package infrastructure

import (
	"path/filepath"

	"github.com/yourusername/ytdwt-go/internal/domain"
)

// OutputTemplate is the yt-dlp filename pattern placed under the output directory
const OutputTemplate = "%(title)s.%(ext)s"

// formatSelectors maps a quality preset to the yt-dlp -f selector
var formatSelectors = map[domain.Quality]string{
	domain.QualityBest:  "bestvideo+bestaudio/best",
	domain.Quality1080p: "bestvideo[height<=1080]+bestaudio/best[height<=1080]",
	domain.Quality720p:  "bestvideo[height<=720]+bestaudio/best[height<=720]",
	domain.Quality480p:  "bestvideo[height<=480]+bestaudio/best[height<=480]",
}

// BuildYTDLPArgs builds the yt-dlp argument list for a request.
// exec.Command passes args directly to the process, no shell quoting needed.
func BuildYTDLPArgs(req domain.DownloadRequest) []string {
	args := []string{
		"-o", filepath.Join(req.OutputDir, OutputTemplate),
	}

	if req.AudioOnly {
		args = append(args, "-f", "bestaudio", "-x", "--audio-format", "mp3")
	} else {
		args = append(args, "-f", FormatSelector(req.Quality))
	}

	if !req.Playlist {
		args = append(args, "--no-playlist")
	}

	// One progress report per line
	args = append(args, "--newline", "--progress")

	return append(args, req.URL)
}

// FormatSelector returns the -f value for a quality, falling back to "best"
func FormatSelector(quality domain.Quality) string {
	if selector, ok := formatSelectors[quality]; ok {
		return selector
	}
	return "best"
}
