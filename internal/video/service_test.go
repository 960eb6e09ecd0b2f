package video

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adreel/adreel-api/internal/generator"
	"github.com/adreel/adreel-api/internal/script"
	"github.com/adreel/adreel-api/internal/settings"
)

// memorySettings is an in-memory settings.Store for tests.
type memorySettings struct {
	mu  sync.Mutex
	cfg settings.Settings
	err error
}

func (m *memorySettings) Load(ctx context.Context) (*settings.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.cfg.Clone(), nil
}

func (m *memorySettings) Save(ctx context.Context, cfg *settings.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = *cfg.Clone()
	return nil
}

// fakeProvider is a configurable generator.Provider for orchestration tests.
type fakeProvider struct {
	mu          sync.Mutex
	name        script.VideoProvider
	startResp   generator.Response
	startErr    error
	statusResp  generator.Response
	statusErr   error
	startCalls  int
	statusCalls int
}

func (p *fakeProvider) Name() script.VideoProvider { return p.name }

func (p *fakeProvider) Availability(cfg *settings.Settings) generator.Availability {
	return generator.Availability{Configured: cfg.HeyGen.Configured(), Enabled: cfg.HeyGen.Enabled}
}

func (p *fakeProvider) StartJob(ctx context.Context, sc *script.Script, cfg *settings.Settings) (generator.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startCalls++
	return p.startResp, p.startErr
}

func (p *fakeProvider) CheckStatus(ctx context.Context, jobID string, cfg *settings.Settings) (generator.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statusCalls++
	return p.statusResp, p.statusErr
}

func (p *fakeProvider) startCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.startCalls
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) VideoReady(ctx context.Context, sc *script.Script) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, sc.ID)
	return nil
}

func (n *recordingNotifier) notified() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

func configuredSettings() settings.Settings {
	return settings.Settings{
		HeyGen:            settings.HeyGen{APIKey: "k", AvatarID: "a", Enabled: true},
		PreferredProvider: script.ProviderHeyGen,
	}
}

func newTestService(t *testing.T, provider *fakeProvider, cfg settings.Settings, opts ...ServiceOption) (*Service, *script.MemoryStore) {
	t.Helper()
	store := script.NewMemoryStore()
	poller := generator.NewPoller(nil, generator.WithInterval(time.Millisecond), generator.WithMaxAttempts(5))
	svc := NewService(store, &memorySettings{cfg: cfg}, poller, nil, []generator.Provider{provider}, opts...)
	return svc, store
}

func saveScript(t *testing.T, store script.Store) *script.Script {
	t.Helper()
	sc := script.New("topic", "h", "b", "c")
	require.NoError(t, store.Save(context.Background(), sc))
	return sc
}

func TestRequestVideo_CompletesDetached(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{
		name:       script.ProviderHeyGen,
		startResp:  generator.Response{JobID: "job-1", Status: generator.StatusPending},
		statusResp: generator.Response{JobID: "job-1", Status: generator.StatusCompleted, ResultURL: "https://cdn/v.mp4"},
	}
	notifier := &recordingNotifier{}
	svc, store := newTestService(t, provider, configuredSettings(), WithNotifier(notifier))
	sc := saveScript(t, store)

	res, err := svc.RequestVideo(ctx, sc.ID, "")
	require.NoError(t, err)
	assert.True(t, res.Started)
	assert.Equal(t, "job-1", res.JobID)
	assert.Equal(t, script.ProviderHeyGen, res.Provider)

	// The call returns while the poller is still running; the record is in
	// a non-terminal state until the detached goroutine finishes.
	assert.Eventually(t, func() bool {
		saved, err := store.FindByID(ctx, sc.ID)
		return err == nil && saved.Video.Status == script.VideoComplete
	}, time.Second, 5*time.Millisecond)

	saved, err := store.FindByID(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/v.mp4", saved.Video.ResultURL)
	assert.Equal(t, "job-1", saved.Video.ProviderJobID)
	assert.Eventually(t, func() bool {
		return len(notifier.notified()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRequestVideo_ScriptNotFound(t *testing.T) {
	provider := &fakeProvider{name: script.ProviderHeyGen}
	svc, _ := newTestService(t, provider, configuredSettings())

	_, err := svc.RequestVideo(context.Background(), "nonexistent", "")
	require.ErrorIs(t, err, script.ErrScriptNotFound)
}

func TestRequestVideo_RejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{
		name:       script.ProviderHeyGen,
		startResp:  generator.Response{JobID: "job-1", Status: generator.StatusPending},
		statusResp: generator.Response{JobID: "job-1", Status: generator.StatusProcessing},
	}
	store := script.NewMemoryStore()
	sc := saveScript(t, store)
	// A long poll interval keeps the first attempt active for the whole test.
	poller := generator.NewPoller(nil, generator.WithInterval(time.Hour), generator.WithMaxAttempts(5))
	svc := NewService(store, &memorySettings{cfg: configuredSettings()}, poller, nil, []generator.Provider{provider})

	_, err := svc.RequestVideo(ctx, sc.ID, "")
	require.NoError(t, err)

	// Immediate second request while the first is still active.
	_, err = svc.RequestVideo(ctx, sc.ID, "")
	require.ErrorIs(t, err, ErrVideoInProgress)
	assert.Equal(t, 1, provider.startCount(), "duplicate request must not reach the provider")
}

func TestRequestVideo_StartFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	cause := &generator.ProviderError{Provider: script.ProviderHeyGen, StatusCode: 402, Body: "quota exceeded"}
	provider := &fakeProvider{name: script.ProviderHeyGen, startErr: cause}
	svc, store := newTestService(t, provider, configuredSettings())
	sc := saveScript(t, store)

	_, err := svc.RequestVideo(ctx, sc.ID, "")
	require.Error(t, err)

	var provErr *generator.ProviderError
	require.True(t, errors.As(err, &provErr))

	saved, findErr := store.FindByID(ctx, sc.ID)
	require.NoError(t, findErr)
	assert.Equal(t, script.VideoFailed, saved.Video.Status)
	assert.Contains(t, saved.Video.Error, "quota exceeded")
}

func TestRequestVideo_NotConfiguredLeavesStatusUntouched(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{name: script.ProviderHeyGen}
	svc, store := newTestService(t, provider, settings.Settings{PreferredProvider: script.ProviderHeyGen})
	sc := saveScript(t, store)

	_, err := svc.RequestVideo(ctx, sc.ID, "")
	require.ErrorIs(t, err, generator.ErrNotConfigured)

	// A configuration error is not an attempt; the record stays pristine
	// and a later request may proceed.
	saved, findErr := store.FindByID(ctx, sc.ID)
	require.NoError(t, findErr)
	assert.Equal(t, script.VideoNone, saved.Video.Status)
	assert.Zero(t, provider.startCount())
}

func TestRequestVideo_DisabledProvider(t *testing.T) {
	cfg := configuredSettings()
	cfg.HeyGen.Enabled = false
	provider := &fakeProvider{name: script.ProviderHeyGen}
	svc, store := newTestService(t, provider, cfg)
	sc := saveScript(t, store)

	_, err := svc.RequestVideo(context.Background(), sc.ID, "")
	require.ErrorIs(t, err, generator.ErrDisabled)
}

func TestRequestVideo_UnknownProvider(t *testing.T) {
	provider := &fakeProvider{name: script.ProviderHeyGen}
	svc, store := newTestService(t, provider, configuredSettings())
	sc := saveScript(t, store)

	_, err := svc.RequestVideo(context.Background(), sc.ID, "morph")
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRequestVideo_PollFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{
		name:       script.ProviderHeyGen,
		startResp:  generator.Response{JobID: "job-1", Status: generator.StatusPending},
		statusResp: generator.Response{JobID: "job-1", Status: generator.StatusFailed, Error: "render error"},
	}
	svc, store := newTestService(t, provider, configuredSettings())
	sc := saveScript(t, store)

	_, err := svc.RequestVideo(ctx, sc.ID, "")
	require.NoError(t, err, "submission succeeds; the failure is reported asynchronously")

	assert.Eventually(t, func() bool {
		saved, err := store.FindByID(ctx, sc.ID)
		return err == nil && saved.Video.Status == script.VideoFailed
	}, time.Second, 5*time.Millisecond)

	saved, _ := store.FindByID(ctx, sc.ID)
	assert.Contains(t, saved.Video.Error, "render error")
}

func TestRequestBatch_IndependentOutcomes(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{
		name:       script.ProviderHeyGen,
		startResp:  generator.Response{JobID: "job-1", Status: generator.StatusPending},
		statusResp: generator.Response{JobID: "job-1", Status: generator.StatusCompleted, ResultURL: "https://cdn/v.mp4"},
	}
	svc, store := newTestService(t, provider, configuredSettings())
	good := saveScript(t, store)

	results := svc.RequestBatch(ctx, []string{good.ID, "missing"}, "")
	require.Len(t, results, 2)

	byID := map[string]BatchItem{}
	for _, item := range results {
		byID[item.ScriptID] = item
	}
	assert.True(t, byID[good.ID].Started)
	assert.False(t, byID["missing"].Started)
	assert.NotEmpty(t, byID["missing"].Error)
}

func TestProviderAvailability(t *testing.T) {
	provider := &fakeProvider{name: script.ProviderHeyGen}
	svc, _ := newTestService(t, provider, configuredSettings())

	avail, err := svc.ProviderAvailability(context.Background(), script.ProviderHeyGen)
	require.NoError(t, err)
	assert.True(t, avail.Configured)
	assert.True(t, avail.Enabled)

	_, err = svc.ProviderAvailability(context.Background(), "morph")
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRequestVideo_SettingsLoadError(t *testing.T) {
	store := script.NewMemoryStore()
	sc := saveScript(t, store)
	provider := &fakeProvider{name: script.ProviderHeyGen}
	poller := generator.NewPoller(nil, generator.WithInterval(time.Millisecond), generator.WithMaxAttempts(5))
	svc := NewService(store, &memorySettings{err: errors.New("disk gone")}, poller, nil, []generator.Provider{provider})

	_, err := svc.RequestVideo(context.Background(), sc.ID, "")
	require.Error(t, err)
	assert.Zero(t, provider.startCount())
}
