package domain

import (
	"context"
	"strconv"
)

// Output stream names
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// OutputLine is one line read from a process output stream.
// A non-nil Err is always the last value delivered on its channel.
type OutputLine struct {
	Text string
	Err  error
}

// ExitStatus describes how a process terminated
type ExitStatus struct {
	Success bool
	Code    int
	HasCode bool // false when the process was killed by a signal
}

// CodeString returns the exit code, or "unknown" when none is available
func (s ExitStatus) CodeString() string {
	if !s.HasCode {
		return "unknown"
	}
	return strconv.Itoa(s.Code)
}

// Process is a running external tool with two line-oriented output streams
type Process interface {
	// Stdout returns the standard output lines; closed at end of stream
	Stdout() <-chan OutputLine

	// Stderr returns the standard error lines; closed at end of stream
	Stderr() <-chan OutputLine

	// Wait blocks until the process exits. It must be called after both
	// streams are drained.
	Wait() (ExitStatus, error)

	// Kill terminates the process and releases its handles without requiring
	// the streams to be drained
	Kill() error
}

// ProcessSpawner starts external processes
type ProcessSpawner interface {
	Spawn(ctx context.Context, binary string, args []string) (Process, error)
}
