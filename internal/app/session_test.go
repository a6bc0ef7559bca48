package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ytdwt-go/internal/domain"
	"github.com/yourusername/ytdwt-go/internal/infrastructure"
)

// fakeProcess replays scripted output. Streams left open by the script stay
// open until Kill.
type fakeProcess struct {
	stdout  chan domain.OutputLine
	stderr  chan domain.OutputLine
	status  domain.ExitStatus
	waitErr error

	mu     sync.Mutex
	waited bool
	killed bool
}

func newFakeProcess(stdout, stderr []domain.OutputLine, closeStreams bool) *fakeProcess {
	p := &fakeProcess{
		stdout: make(chan domain.OutputLine, len(stdout)),
		stderr: make(chan domain.OutputLine, len(stderr)),
		status: domain.ExitStatus{Success: true, HasCode: true},
	}
	for _, line := range stdout {
		p.stdout <- line
	}
	for _, line := range stderr {
		p.stderr <- line
	}
	if closeStreams {
		close(p.stdout)
		close(p.stderr)
	}
	return p
}

func (p *fakeProcess) Stdout() <-chan domain.OutputLine { return p.stdout }
func (p *fakeProcess) Stderr() <-chan domain.OutputLine { return p.stderr }

func (p *fakeProcess) Wait() (domain.ExitStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waited = true
	return p.status, p.waitErr
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
	return nil
}

func (p *fakeProcess) wasKilled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

func (p *fakeProcess) wasWaited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waited
}

type fakeSpawner struct {
	proc *fakeProcess
	err  error
	gate chan struct{} // Spawn blocks until closed when set

	mu     sync.Mutex
	calls  int
	binary string
	args   []string
}

func (f *fakeSpawner) Spawn(ctx context.Context, binary string, args []string) (domain.Process, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.calls++
	f.binary = binary
	f.args = args
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.proc, nil
}

type memoryHistory struct {
	mu      sync.Mutex
	created []domain.DownloadRecord
	updated []domain.DownloadRecord
}

func (m *memoryHistory) Create(record *domain.DownloadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, *record)
	return nil
}

func (m *memoryHistory) Update(record *domain.DownloadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, *record)
	return nil
}

func (m *memoryHistory) FindByID(id string) (*domain.DownloadRecord, error) {
	return nil, domain.ErrRecordNotFound
}

func (m *memoryHistory) FindRecent(limit int) ([]*domain.DownloadRecord, error) {
	return nil, nil
}

func (m *memoryHistory) GetStats() (*domain.HistoryStats, error) {
	return &domain.HistoryStats{}, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	completed []string
	failed    []string
}

func (n *recordingNotifier) NotifyDownloadCompleted(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, url)
}

func (n *recordingNotifier) NotifyDownloadFailed(url, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, detail)
}

func stdoutLines(texts ...string) []domain.OutputLine {
	lines := make([]domain.OutputLine, 0, len(texts))
	for _, text := range texts {
		lines = append(lines, domain.OutputLine{Text: text})
	}
	return lines
}

func testRequest(t *testing.T) domain.DownloadRequest {
	t.Helper()
	req, err := domain.NewDownloadRequest("https://www.youtube.com/watch?v=abc", "/tmp/out", domain.Quality720p, false, false)
	require.NoError(t, err)
	return req
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}
}

func runToCompletion(t *testing.T, session *Session) domain.SessionState {
	t.Helper()
	done, err := session.Start(context.Background(), testRequest(t))
	require.NoError(t, err)
	waitDone(t, done)
	return session.Snapshot()
}

func TestSession_StartIsSynchronouslyDownloading(t *testing.T) {
	spawner := &fakeSpawner{
		proc: newFakeProcess(nil, nil, true),
		gate: make(chan struct{}),
	}
	session := NewSession("yt-dlp", spawner, nil, nil)

	done, err := session.Start(context.Background(), testRequest(t))
	require.NoError(t, err)

	snapshot := session.Snapshot()
	assert.Equal(t, domain.PhaseDownloading, snapshot.Phase)
	assert.Zero(t, snapshot.ProgressPercent)
	assert.Equal(t, "Starting download...", snapshot.StatusText)
	assert.Empty(t, snapshot.ErrorDetail)

	close(spawner.gate)
	waitDone(t, done)
}

func TestSession_SuccessfulRun(t *testing.T) {
	proc := newFakeProcess(stdoutLines(
		"[youtube] abc: Downloading webpage",
		"[download] Destination: /tmp/out/video.mp4",
		"[download]  12.5% of 10.00MiB at 1.00MiB/s ETA 00:08",
		"[download] 100% of 10.00MiB in 00:10",
	), nil, true)
	spawner := &fakeSpawner{proc: proc}
	session := NewSession("yt-dlp", spawner, nil, nil)

	snapshot := runToCompletion(t, session)

	assert.Equal(t, domain.PhaseComplete, snapshot.Phase)
	assert.Equal(t, 100.0, snapshot.ProgressPercent)
	assert.Equal(t, "Download complete!", snapshot.StatusText)
	assert.Empty(t, snapshot.ErrorDetail)
	assert.True(t, proc.wasWaited())
	assert.False(t, proc.wasKilled())

	req := testRequest(t)
	assert.Equal(t, "yt-dlp", spawner.binary)
	assert.Equal(t, infrastructure.BuildYTDLPArgs(req), spawner.args)
}

func TestSession_NonZeroExitKeepsLastPercent(t *testing.T) {
	proc := newFakeProcess(stdoutLines(
		"[download]  50.0% of 10.00MiB",
		"[download]  42.0% of 10.00MiB",
	), nil, true)
	proc.status = domain.ExitStatus{Code: 1, HasCode: true}
	session := NewSession("yt-dlp", &fakeSpawner{proc: proc}, nil, nil)

	snapshot := runToCompletion(t, session)

	assert.Equal(t, domain.PhaseError, snapshot.Phase)
	assert.Equal(t, 42.0, snapshot.ProgressPercent)
	assert.Equal(t, "[download]  42.0% of 10.00MiB", snapshot.StatusText)
	assert.Equal(t, "Download failed with exit code: 1", snapshot.ErrorDetail)
}

func TestSession_ExitWithoutCode(t *testing.T) {
	proc := newFakeProcess(nil, nil, true)
	proc.status = domain.ExitStatus{}
	session := NewSession("yt-dlp", &fakeSpawner{proc: proc}, nil, nil)

	snapshot := runToCompletion(t, session)

	assert.Equal(t, domain.PhaseError, snapshot.Phase)
	assert.Equal(t, "Download failed with exit code: unknown", snapshot.ErrorDetail)
}

func TestSession_StderrErrorLineBecomesStatus(t *testing.T) {
	proc := newFakeProcess(nil, stdoutLines(
		"WARNING: unable to extract uploader",
		"ERROR: [youtube] abc: Video unavailable",
	), true)
	proc.status = domain.ExitStatus{Code: 1, HasCode: true}
	session := NewSession("yt-dlp", &fakeSpawner{proc: proc}, nil, nil)

	snapshot := runToCompletion(t, session)

	assert.Equal(t, domain.PhaseError, snapshot.Phase)
	assert.Equal(t, "ERROR: [youtube] abc: Video unavailable", snapshot.StatusText)
	assert.Equal(t, "Download failed with exit code: 1", snapshot.ErrorDetail)
}

func TestSession_ExecutableNotFound(t *testing.T) {
	spawner := &fakeSpawner{err: &domain.ExecutableNotFoundError{Binary: "yt-dlp"}}
	session := NewSession("yt-dlp", spawner, nil, nil)

	snapshot := runToCompletion(t, session)

	assert.Equal(t, domain.PhaseError, snapshot.Phase)
	assert.Contains(t, snapshot.ErrorDetail, "yt-dlp not found. Please install yt-dlp first.")
	assert.Contains(t, snapshot.ErrorDetail, "pip install yt-dlp")
	assert.Zero(t, snapshot.ProgressPercent)
}

func TestSession_SpawnFailure(t *testing.T) {
	spawner := &fakeSpawner{err: &domain.SpawnError{Binary: "yt-dlp", Err: errors.New("permission denied")}}
	session := NewSession("yt-dlp", spawner, nil, nil)

	snapshot := runToCompletion(t, session)

	assert.Equal(t, domain.PhaseError, snapshot.Phase)
	assert.Equal(t, "Failed to start yt-dlp: permission denied", snapshot.ErrorDetail)
}

func TestSession_StreamReadErrorKillsProcess(t *testing.T) {
	proc := newFakeProcess([]domain.OutputLine{
		{Text: "[download]  30.0% of 1.00MiB"},
		{Err: io.ErrUnexpectedEOF},
	}, nil, false)
	session := NewSession("yt-dlp", &fakeSpawner{proc: proc}, nil, nil)

	snapshot := runToCompletion(t, session)

	assert.Equal(t, domain.PhaseError, snapshot.Phase)
	assert.Equal(t, "Error reading output: unexpected EOF", snapshot.ErrorDetail)
	assert.Equal(t, 30.0, snapshot.ProgressPercent)
	assert.True(t, proc.wasKilled())
	assert.False(t, proc.wasWaited())
}

func TestSession_WaitFailure(t *testing.T) {
	proc := newFakeProcess(nil, nil, true)
	proc.waitErr = errors.New("no child processes")
	session := NewSession("yt-dlp", &fakeSpawner{proc: proc}, nil, nil)

	snapshot := runToCompletion(t, session)

	assert.Equal(t, domain.PhaseError, snapshot.Phase)
	assert.Equal(t, "Failed to wait for process: no child processes", snapshot.ErrorDetail)
}

func TestSession_BusyStartIsRejected(t *testing.T) {
	spawner := &fakeSpawner{
		proc: newFakeProcess(nil, nil, true),
		gate: make(chan struct{}),
	}
	session := NewSession("yt-dlp", spawner, nil, nil)

	done, err := session.Start(context.Background(), testRequest(t))
	require.NoError(t, err)

	second, err := session.Start(context.Background(), testRequest(t))
	assert.Nil(t, second)
	assert.ErrorIs(t, err, ErrSessionBusy)
	assert.Equal(t, domain.PhaseDownloading, session.Snapshot().Phase)

	close(spawner.gate)
	waitDone(t, done)
	assert.Equal(t, 1, spawner.calls)

	// A terminal phase accepts the next run
	spawner.proc = newFakeProcess(nil, nil, true)
	done, err = session.Start(context.Background(), testRequest(t))
	require.NoError(t, err)
	waitDone(t, done)
	assert.Equal(t, domain.PhaseComplete, session.Snapshot().Phase)
}

func TestSession_RestartAfterErrorClearsDetail(t *testing.T) {
	spawner := &fakeSpawner{err: &domain.ExecutableNotFoundError{Binary: "yt-dlp"}}
	session := NewSession("yt-dlp", spawner, nil, nil)
	runToCompletion(t, session)

	spawner.err = nil
	spawner.proc = newFakeProcess(nil, nil, false)
	spawner.gate = make(chan struct{})

	done, err := session.Start(context.Background(), testRequest(t))
	require.NoError(t, err)
	snapshot := session.Snapshot()
	assert.Equal(t, domain.PhaseDownloading, snapshot.Phase)
	assert.Empty(t, snapshot.ErrorDetail)

	close(spawner.gate)
	close(spawner.proc.stdout)
	close(spawner.proc.stderr)
	waitDone(t, done)
}

func TestSession_InvalidRequestLeavesStateUntouched(t *testing.T) {
	spawner := &fakeSpawner{proc: newFakeProcess(nil, nil, true)}
	session := NewSession("yt-dlp", spawner, nil, nil)

	done, err := session.Start(context.Background(), domain.DownloadRequest{URL: "  ", Quality: domain.QualityBest})

	assert.Nil(t, done)
	assert.ErrorIs(t, err, domain.ErrEmptyURL)
	assert.Equal(t, domain.PhaseIdle, session.Snapshot().Phase)
	assert.Zero(t, spawner.calls)
}

func TestSession_CancellationKillsProcess(t *testing.T) {
	proc := newFakeProcess(stdoutLines("[download]  5.0% of 1.00GiB"), nil, false)
	session := NewSession("yt-dlp", &fakeSpawner{proc: proc}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done, err := session.Start(ctx, testRequest(t))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return session.Snapshot().ProgressPercent == 5.0
	}, 5*time.Second, 5*time.Millisecond)
	cancel()
	waitDone(t, done)

	snapshot := session.Snapshot()
	assert.Equal(t, domain.PhaseError, snapshot.Phase)
	assert.Equal(t, "Download cancelled: context canceled", snapshot.ErrorDetail)
	assert.True(t, proc.wasKilled())
}

func TestSession_RecordsHistoryAndNotifies(t *testing.T) {
	history := &memoryHistory{}
	notifier := &recordingNotifier{}
	proc := newFakeProcess(stdoutLines("[download]  64.0% of 3.00MiB"), nil, true)
	session := NewSession("yt-dlp", &fakeSpawner{proc: proc}, nil, nil,
		WithHistory(history), WithNotifier(notifier))

	runToCompletion(t, session)

	require.Len(t, history.created, 1)
	require.Len(t, history.updated, 1)
	created, updated := history.created[0], history.updated[0]
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, domain.PhaseDownloading, created.Phase)
	assert.Contains(t, created.CommandLine, "yt-dlp -o ")
	assert.Equal(t, domain.PhaseComplete, updated.Phase)
	assert.Equal(t, 100.0, updated.ProgressPercent)
	assert.NotNil(t, updated.FinishedAt)
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=abc"}, notifier.completed)
	assert.Empty(t, notifier.failed)
}

func TestSession_NotifiesFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	spawner := &fakeSpawner{err: &domain.ExecutableNotFoundError{Binary: "yt-dlp"}}
	session := NewSession("yt-dlp", spawner, nil, nil, WithNotifier(notifier))

	runToCompletion(t, session)

	require.Len(t, notifier.failed, 1)
	assert.Contains(t, notifier.failed[0], "Please install yt-dlp")
}

func TestSession_ObserverNeverSeesCompleteWithError(t *testing.T) {
	lines := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		lines = append(lines, "[download]  50.0% of 1MiB")
	}
	proc := newFakeProcess(stdoutLines(lines...), nil, true)
	session := NewSession("yt-dlp", &fakeSpawner{proc: proc}, nil, nil)

	done, err := session.Start(context.Background(), testRequest(t))
	require.NoError(t, err)

	for {
		snapshot := session.Snapshot()
		if snapshot.Phase == domain.PhaseComplete {
			assert.Empty(t, snapshot.ErrorDetail)
			assert.Equal(t, 100.0, snapshot.ProgressPercent)
		}
		select {
		case <-done:
			return
		default:
		}
	}
}
