package app

import (
	"sync"

	"github.com/yourusername/ytdwt-go/internal/domain"
)

// SharedState guards the single SessionState of a session. The run goroutine
// is the only writer; observers take snapshots at their own cadence.
type SharedState struct {
	mu    sync.RWMutex
	state domain.SessionState
}

// NewSharedState creates a shared state in the idle phase
func NewSharedState() *SharedState {
	return &SharedState{state: domain.NewSessionState()}
}

// WithExclusiveAccess runs fn while holding the write lock. fn must not block:
// no channel operations, I/O, logging or persistence.
func (s *SharedState) WithExclusiveAccess(fn func(state *domain.SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Snapshot returns a consistent copy of the current state
func (s *SharedState) Snapshot() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
