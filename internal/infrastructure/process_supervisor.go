package infrastructure

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/yourusername/ytdwt-go/internal/domain"
	"go.uber.org/zap"
)

// lineBuffer is the number of lines a stream may read ahead of the consumer
const lineBuffer = 64

// ProcessSupervisor implements domain.ProcessSpawner with os/exec
type ProcessSupervisor struct {
	logger *zap.Logger
}

// NewProcessSupervisor creates a new process supervisor
func NewProcessSupervisor(logger *zap.Logger) *ProcessSupervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessSupervisor{logger: logger}
}

// Spawn starts binary with both output streams piped and read line by line.
// The process is killed if ctx is cancelled before it exits.
func (s *ProcessSupervisor) Spawn(ctx context.Context, binary string, args []string) (domain.Process, error) {
	cmd := exec.CommandContext(ctx, binary, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &domain.SpawnError{Binary: binary, Err: fmt.Errorf("stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &domain.SpawnError{Binary: binary, Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	// Start closes both pipes when it fails
	if err := cmd.Start(); err != nil {
		if isNotFound(err) {
			return nil, &domain.ExecutableNotFoundError{Binary: binary}
		}
		return nil, &domain.SpawnError{Binary: binary, Err: err}
	}

	s.logger.Debug("Process started",
		zap.Int("pid", cmd.Process.Pid),
		zap.String("command", ShellEscapeCommand(binary, args...)))

	p := &childProcess{
		cmd:    cmd,
		stdout: make(chan domain.OutputLine, lineBuffer),
		stderr: make(chan domain.OutputLine, lineBuffer),
		stop:   make(chan struct{}),
	}
	p.readers.Add(2)
	go p.readLines(stdout, p.stdout)
	go p.readLines(stderr, p.stderr)

	return p, nil
}

// LookupExecutable resolves binary on the search path
func LookupExecutable(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		if isNotFound(err) {
			return "", &domain.ExecutableNotFoundError{Binary: binary}
		}
		return "", err
	}
	return path, nil
}

// isNotFound distinguishes a missing executable from other start failures
func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// childProcess is a started command whose two pipes are read by one goroutine each
type childProcess struct {
	cmd    *exec.Cmd
	stdout chan domain.OutputLine
	stderr chan domain.OutputLine

	stop     chan struct{}
	stopOnce sync.Once
	readers  sync.WaitGroup

	waitOnce sync.Once
	status   domain.ExitStatus
	waitErr  error
}

func (p *childProcess) Stdout() <-chan domain.OutputLine {
	return p.stdout
}

func (p *childProcess) Stderr() <-chan domain.OutputLine {
	return p.stderr
}

// Wait waits for both readers to reach end of stream, then reaps the process
func (p *childProcess) Wait() (domain.ExitStatus, error) {
	p.readers.Wait()
	return p.reap()
}

// Kill stops the readers, kills the process and reaps it
func (p *childProcess) Kill() error {
	p.stopOnce.Do(func() { close(p.stop) })

	var killErr error
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		killErr = fmt.Errorf("kill process: %w", err)
	}

	// Reaping closes the read ends of the pipes, which unblocks the readers
	p.reap()
	p.readers.Wait()
	return killErr
}

func (p *childProcess) reap() (domain.ExitStatus, error) {
	p.waitOnce.Do(func() {
		p.status, p.waitErr = exitStatus(p.cmd.Wait())
	})
	return p.status, p.waitErr
}

// readLines forwards lines from r until end of stream. A read error is sent
// as the final line. Reading stops early once the process is killed.
func (p *childProcess) readLines(r io.Reader, out chan<- domain.OutputLine) {
	defer p.readers.Done()
	defer close(out)

	reader := bufio.NewReader(r)
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			if !p.send(out, domain.OutputLine{Text: strings.TrimRight(text, "\r\n")}) {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.send(out, domain.OutputLine{Err: err})
			}
			return
		}
	}
}

func (p *childProcess) send(out chan<- domain.OutputLine, line domain.OutputLine) bool {
	select {
	case out <- line:
		return true
	case <-p.stop:
		return false
	}
}

// exitStatus converts the result of exec.Cmd.Wait. A non-zero exit is a
// status, only failures to obtain one are returned as errors.
func exitStatus(err error) (domain.ExitStatus, error) {
	if err == nil {
		return domain.ExitStatus{Success: true, Code: 0, HasCode: true}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			return domain.ExitStatus{}, nil
		}
		return domain.ExitStatus{Code: code, HasCode: true}, nil
	}
	return domain.ExitStatus{}, err
}
