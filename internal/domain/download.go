package domain

import (
	"time"

	"github.com/google/uuid"
)

// DownloadRecord is the persisted history entry of one download run
type DownloadRecord struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	URL             string     `json:"url" gorm:"not null"`
	OutputDir       string     `json:"output_dir"`
	Quality         Quality    `json:"quality" gorm:"default:best"`
	AudioOnly       bool       `json:"audio_only"`
	Playlist        bool       `json:"playlist"`
	Phase           Phase      `json:"phase" gorm:"not null;index"`
	ProgressPercent float64    `json:"progress_percent"`
	StatusText      string     `json:"status_text,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	CommandLine     string     `json:"command_line,omitempty" gorm:"type:text"` // Shell-escaped yt-dlp invocation
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

// TableName specifies the table name for GORM
func (DownloadRecord) TableName() string {
	return "download_records"
}

// NewDownloadRecord creates a history record for a run that is about to start
func NewDownloadRecord(req DownloadRequest, commandLine string) *DownloadRecord {
	now := time.Now()
	return &DownloadRecord{
		ID:          uuid.New().String(),
		URL:         req.URL,
		OutputDir:   req.OutputDir,
		Quality:     req.Quality,
		AudioOnly:   req.AudioOnly,
		Playlist:    req.Playlist,
		Phase:       PhaseDownloading,
		StatusText:  StatusStarting,
		CommandLine: commandLine,
		CreatedAt:   now,
		UpdatedAt:   now,
		StartedAt:   now,
	}
}

// Finish copies the terminal session state into the record
func (r *DownloadRecord) Finish(state SessionState) {
	r.Phase = state.Phase
	r.ProgressPercent = state.ProgressPercent
	r.StatusText = state.StatusText
	r.ErrorMessage = state.ErrorDetail
	now := time.Now()
	r.FinishedAt = &now
	r.UpdatedAt = now
}

// IsFinished checks if the run reached a terminal phase
func (r *DownloadRecord) IsFinished() bool {
	return r.Phase == PhaseComplete || r.Phase == PhaseError
}

// Duration returns how long the run took, or zero while it is still running
func (r *DownloadRecord) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
