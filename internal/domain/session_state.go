package domain

// Phase represents the lifecycle phase of a download session
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseDownloading Phase = "downloading"
	PhaseComplete    Phase = "complete"
	PhaseError       Phase = "error"
)

// Status texts written by the session itself rather than parsed from yt-dlp
const (
	StatusStarting = "Starting download..."
	StatusComplete = "Download complete!"
)

// IsTerminal reports whether a new run may start from this phase
func (p Phase) IsTerminal() bool {
	return p == PhaseIdle || p == PhaseComplete || p == PhaseError
}

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// SessionState is the observable record of a download session.
// ErrorDetail is only set in PhaseError.
type SessionState struct {
	Phase           Phase   `json:"phase"`
	ProgressPercent float64 `json:"progress_percent"`
	StatusText      string  `json:"status_text"`
	ErrorDetail     string  `json:"error_detail,omitempty"`
}

// NewSessionState creates a state in the idle phase
func NewSessionState() SessionState {
	return SessionState{Phase: PhaseIdle}
}

// MarkDownloading resets the state for a new run
func (s *SessionState) MarkDownloading() {
	s.Phase = PhaseDownloading
	s.ProgressPercent = 0
	s.StatusText = StatusStarting
	s.ErrorDetail = ""
}

// Apply merges a parsed progress update. Percent and status are independent:
// a status-only update keeps the previous percentage and vice versa.
func (s *SessionState) Apply(update ProgressUpdate) {
	if update.HasPercent {
		s.ProgressPercent = update.Percent
	}
	if update.HasStatus {
		s.StatusText = update.Status
	}
}

// MarkComplete marks the run as successfully finished
func (s *SessionState) MarkComplete() {
	s.Phase = PhaseComplete
	s.ProgressPercent = 100
	s.StatusText = StatusComplete
	s.ErrorDetail = ""
}

// MarkFailed marks the run as failed. The last progress value is kept.
func (s *SessionState) MarkFailed(err error) {
	s.Phase = PhaseError
	s.ErrorDetail = err.Error()
}

// ProgressUpdate is the result of parsing one line of yt-dlp output
type ProgressUpdate struct {
	Percent    float64
	HasPercent bool
	Status     string
	HasStatus  bool
}

// StatusUpdate creates an update that only replaces the status text
func StatusUpdate(status string) ProgressUpdate {
	return ProgressUpdate{Status: status, HasStatus: true}
}
