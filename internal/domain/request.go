package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Quality selects the video height cap passed to yt-dlp
type Quality string

const (
	QualityBest  Quality = "best"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
)

// DownloadFormat represents the media kind requested by the user
type DownloadFormat string

const (
	FormatVideo DownloadFormat = "video"
	FormatAudio DownloadFormat = "audio" // Audio only (MP3)
)

var (
	ErrEmptyURL       = errors.New("url must not be empty")
	ErrInvalidQuality = errors.New("invalid quality")
	ErrInvalidFormat  = errors.New("invalid format")
	ErrEmptyOutputDir = errors.New("output directory must not be empty")
)

// DownloadRequest describes a single download run. It is built once and never mutated.
type DownloadRequest struct {
	URL       string  `json:"url"`
	OutputDir string  `json:"output_dir"`
	Quality   Quality `json:"quality"`
	AudioOnly bool    `json:"audio_only"`
	Playlist  bool    `json:"playlist"`
}

// NewDownloadRequest creates a validated download request.
// An empty quality defaults to best.
func NewDownloadRequest(url, outputDir string, quality Quality, audioOnly, playlist bool) (DownloadRequest, error) {
	if quality == "" {
		quality = QualityBest
	}
	req := DownloadRequest{
		URL:       strings.TrimSpace(url),
		OutputDir: outputDir,
		Quality:   quality,
		AudioOnly: audioOnly,
		Playlist:  playlist,
	}
	if err := req.Validate(); err != nil {
		return DownloadRequest{}, err
	}
	return req, nil
}

// Validate checks the request invariants
func (r DownloadRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return ErrEmptyURL
	}
	if !ValidateQuality(r.Quality) {
		return fmt.Errorf("%w: %q", ErrInvalidQuality, r.Quality)
	}
	return nil
}

// Format returns the download format implied by the request
func (r DownloadRequest) Format() DownloadFormat {
	if r.AudioOnly {
		return FormatAudio
	}
	return FormatVideo
}

// ValidateQuality checks if a quality is one of the known presets
func ValidateQuality(quality Quality) bool {
	switch quality {
	case QualityBest, Quality1080p, Quality720p, Quality480p:
		return true
	default:
		return false
	}
}

// ValidateFormat checks if a download format is valid
func ValidateFormat(format DownloadFormat) bool {
	return format == FormatVideo || format == FormatAudio
}

// QualityOptions returns the selectable quality presets in display order
func QualityOptions() []Quality {
	return []Quality{QualityBest, Quality1080p, Quality720p, Quality480p}
}
