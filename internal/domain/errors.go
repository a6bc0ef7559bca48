package domain

import (
	"errors"
	"fmt"
)

// ErrExecutableNotFound is matched by ExecutableNotFoundError via errors.Is
var ErrExecutableNotFound = errors.New("executable not found")

// ExecutableNotFoundError is returned when the external tool is not installed.
// Its message is meant to be shown to the user as is.
type ExecutableNotFoundError struct {
	Binary string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("%s not found. Please install yt-dlp first.\n"+
		"Install with: pip install yt-dlp\n"+
		"Or visit: https://github.com/yt-dlp/yt-dlp#installation", e.Binary)
}

// Is makes errors.Is(err, ErrExecutableNotFound) work
func (e *ExecutableNotFoundError) Is(target error) bool {
	return target == ErrExecutableNotFound
}

// SpawnError wraps any other failure to start the external tool
type SpawnError struct {
	Binary string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("Failed to start %s: %v", e.Binary, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// StreamReadError is an I/O failure while draining one of the output streams
type StreamReadError struct {
	Stream string // stdout or stderr
	Err    error
}

func (e *StreamReadError) Error() string {
	return fmt.Sprintf("Error reading output: %v", e.Err)
}

func (e *StreamReadError) Unwrap() error {
	return e.Err
}

// ProcessWaitError means the exit status of the process could not be obtained
type ProcessWaitError struct {
	Err error
}

func (e *ProcessWaitError) Error() string {
	return fmt.Sprintf("Failed to wait for process: %v", e.Err)
}

func (e *ProcessWaitError) Unwrap() error {
	return e.Err
}

// NonZeroExitError means the process ran but reported failure
type NonZeroExitError struct {
	Status ExitStatus
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("Download failed with exit code: %s", e.Status.CodeString())
}

// CancelledError means the run was stopped through its context
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("Download cancelled: %v", e.Err)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}
