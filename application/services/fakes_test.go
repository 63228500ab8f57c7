package services

import (
	"ad-agent-api/application/ports/outbound"
	"ad-agent-api/domain"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T) *ants.Pool {
	t.Helper()
	workerPool, err := ants.NewPool(50)
	require.NoError(t, err)
	t.Cleanup(workerPool.Release)
	return workerPool
}

// fakeScriptGenerator streams the given tokens, then the given error if any. With a
// worker pool set it streams from a pool worker like the real completion reader.
type fakeScriptGenerator struct {
	tokens     []string
	err        error
	block      bool
	workerPool outbound.TaskDispatcher
}

func (f *fakeScriptGenerator) Generate(ctx context.Context, _ outbound.GenerateAdScriptRequest) (<-chan string, <-chan error) {
	out := make(chan string)
	errCh := make(chan error, 1)
	stream := func() {
		defer close(out)
		defer close(errCh)
		for _, token := range f.tokens {
			select {
			case out <- token:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		if f.block {
			<-ctx.Done()
			errCh <- ctx.Err()
			return
		}
		if f.err != nil {
			errCh <- f.err
		}
	}
	if f.workerPool == nil {
		go stream()
		return out, errCh
	}
	if err := f.workerPool.Submit(stream); err != nil {
		errCh <- err
		close(errCh)
		close(out)
	}
	return out, errCh
}

type fakeVoiceGenerator struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]error
	delay   time.Duration
}

func (f *fakeVoiceGenerator) Generate(ctx context.Context, req outbound.GenerateVoiceRequest) (*domain.AudioClip, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.Text)
	err := f.failFor[req.Text]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &domain.AudioClip{Content: []byte("audio:" + req.Text), MimeType: "audio/mpeg"}, nil
}

// fakeVideoGenerator answers Status from a script of states per job.
type fakeVideoGenerator struct {
	mu        sync.Mutex
	submitted []string
	submitErr map[string]error
	states    map[string][]domain.VideoJob
	statusErr error
}

func (f *fakeVideoGenerator) Submit(_ context.Context, req outbound.SubmitVideoRequest) (*domain.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for prefix, err := range f.submitErr {
		if len(req.PromptText) >= len(prefix) && req.PromptText[:len(prefix)] == prefix {
			return nil, err
		}
	}
	id := "job-" + req.PromptText[:1]
	f.submitted = append(f.submitted, id)
	return &domain.VideoJob{ID: id, Status: domain.VideoJobPending}, nil
}

func (f *fakeVideoGenerator) Status(_ context.Context, jobID string) (*domain.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	states, ok := f.states[jobID]
	if !ok {
		return nil, domain.ErrVideoJobNotFound
	}
	job := states[0]
	if len(states) > 1 {
		f.states[jobID] = states[1:]
	}
	job.ID = jobID
	return &job, nil
}

type fakeAssetStore struct {
	mu    sync.Mutex
	saved []outbound.SaveAssetRequest
	err   error
}

func (f *fakeAssetStore) Save(_ context.Context, req outbound.SaveAssetRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, req)
	return "https://assets.example/" + req.RunID + "/" + req.SceneID + ".mp3", nil
}

type fakeJobRegistry struct {
	mu      sync.Mutex
	records map[string]domain.VideoJobRecord
	err     error
}

func newFakeJobRegistry() *fakeJobRegistry {
	return &fakeJobRegistry{records: map[string]domain.VideoJobRecord{}}
}

func (f *fakeJobRegistry) Register(_ context.Context, record domain.VideoJobRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records[record.JobID] = record
	return nil
}

func (f *fakeJobRegistry) Lookup(_ context.Context, jobID string) (*domain.VideoJobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[jobID]
	if !ok {
		return nil, domain.ErrVideoJobNotFound
	}
	return &record, nil
}

var errUpstream = errors.New("upstream timeout")

const threeSceneScript = `{"dialogue":"Arre yaar, phone phir se slow?","imagePrompt":"A frustrated student staring at a lagging phone","textOverlay":"Tired of lag?"}
{"dialogue":"Vivo T3 5G ke saath sab kuch fast!","imagePrompt":"Close-up of the phone launching apps instantly","textOverlay":"Blazing fast 5G"}
{"dialogue":"Aaj hi lo, offer limited hai!","imagePrompt":"The phone on a podium with confetti","textOverlay":"Buy now"}
`

// recordingLogger counts error-level entries so tests can check who reports a failure.
type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Info(string) {}
func (l *recordingLogger) InfoWithFields(string, map[string]interface{}) {}
func (l *recordingLogger) Debug(string) {}
func (l *recordingLogger) DebugWithFields(string, map[string]interface{}) {}
func (l *recordingLogger) Warn(string) {}
func (l *recordingLogger) WarnWithFields(string, map[string]interface{}) {}

func (l *recordingLogger) Error(_ error, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) ErrorWithFields(err error, msg string, _ map[string]interface{}) {
	l.Error(err, msg)
}

func (l *recordingLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}
