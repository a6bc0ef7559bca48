package domain

import "errors"

// ErrRecordNotFound is returned when no history record has the requested ID
var ErrRecordNotFound = errors.New("download record not found")

// HistoryRepository defines the interface for download history persistence
type HistoryRepository interface {
	// Create creates a new record
	Create(record *DownloadRecord) error

	// Update updates an existing record
	Update(record *DownloadRecord) error

	// FindByID finds a record by ID
	FindByID(id string) (*DownloadRecord, error)

	// FindRecent returns the most recent records, newest first
	FindRecent(limit int) ([]*DownloadRecord, error)

	// GetStats returns history statistics
	GetStats() (*HistoryStats, error)
}

// HistoryStats represents download history statistics
type HistoryStats struct {
	Total       int64 `json:"total"`
	Downloading int64 `json:"downloading"`
	Completed   int64 `json:"completed"`
	Failed      int64 `json:"failed"`
}
