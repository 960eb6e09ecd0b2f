// Package video provides the orchestration service for video generation.
// It is the per-script entry point that applies the duplicate-work guard,
// delegates to a provider adapter, launches the completion poller detached
// from the request path, and is the only component that mutates a script's
// video status.
package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adreel/adreel-api/internal/generator"
	"github.com/adreel/adreel-api/internal/script"
	"github.com/adreel/adreel-api/internal/settings"
)

// Static errors for the orchestration service.
var (
	// ErrVideoInProgress is returned when a script already has a pending
	// or generating video job. At most one active job per script.
	ErrVideoInProgress = errors.New("video: generation already in progress for this script")
	// ErrUnknownProvider is returned when the requested provider is not registered.
	ErrUnknownProvider = errors.New("video: unknown provider")
)

// StartResult is the synchronous acknowledgment of a generation request.
// It confirms only that the provider accepted the job, not that it
// completed; callers observe completion by re-fetching the script.
type StartResult struct {
	Started  bool                 `json:"started"`
	JobID    string               `json:"job_id,omitempty"`
	Provider script.VideoProvider `json:"provider,omitempty"`
}

// BatchItem is the per-script outcome of a batch request.
type BatchItem struct {
	ScriptID string `json:"script_id"`
	Started  bool   `json:"started"`
	JobID    string `json:"job_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Notifier is informed when a video becomes available. Implementations
// must be safe to call from detached goroutines.
type Notifier interface {
	VideoReady(ctx context.Context, sc *script.Script) error
}

// Service orchestrates video generation for scripts.
type Service struct {
	scripts   script.Store
	settings  settings.Store
	providers map[script.VideoProvider]generator.Provider
	poller    *generator.Poller
	archiver  *Archiver
	notifier  Notifier
	logger    *slog.Logger
}

// ServiceOption is a function that configures a Service.
type ServiceOption func(*Service)

// WithArchiver enables archiving of completed videos.
func WithArchiver(a *Archiver) ServiceOption {
	return func(s *Service) {
		s.archiver = a
	}
}

// WithNotifier enables completion notifications.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) {
		s.notifier = n
	}
}

// NewService creates a new orchestration service.
func NewService(scripts script.Store, settingsStore settings.Store, poller *generator.Poller, logger *slog.Logger, providers []generator.Provider, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	byName := make(map[script.VideoProvider]generator.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}

	s := &Service{
		scripts:   scripts,
		settings:  settingsStore,
		providers: byName,
		poller:    poller,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestVideo starts video generation for a script.
//
// The synchronous portion loads the script, applies the duplicate-work
// guard, validates provider configuration, and submits the job. "Started"
// is acknowledged only after the provider accepts the job. The completion
// poller then runs detached: its outcome is observed by re-fetching the
// script, never through this call.
func (s *Service) RequestVideo(ctx context.Context, scriptID string, provider script.VideoProvider) (StartResult, error) {
	sc, err := s.scripts.FindByID(ctx, scriptID)
	if err != nil {
		return StartResult{}, err
	}

	if sc.Video.Status.IsActive() {
		return StartResult{}, ErrVideoInProgress
	}

	adapter, cfg, err := s.resolveProvider(ctx, provider)
	if err != nil {
		return StartResult{}, err
	}
	name := adapter.Name()

	avail := adapter.Availability(cfg)
	if !avail.Configured {
		return StartResult{}, fmt.Errorf("%w: %s", generator.ErrNotConfigured, name)
	}
	if !avail.Enabled {
		return StartResult{}, fmt.Errorf("%w: %s", generator.ErrDisabled, name)
	}

	// Atomic check-and-set: a concurrent request between the read above
	// and this point loses here, not at the read.
	if err := s.scripts.StartVideoAttempt(ctx, scriptID, name); err != nil {
		if errors.Is(err, script.ErrVideoActive) {
			return StartResult{}, ErrVideoInProgress
		}
		return StartResult{}, err
	}

	resp, err := adapter.StartJob(ctx, sc, cfg)
	if err != nil {
		s.markFailed(ctx, scriptID, name, "", err)
		return StartResult{}, err
	}

	if err := s.scripts.SetVideoStatus(ctx, scriptID, script.VideoJob{
		Status:        script.VideoGenerating,
		Provider:      name,
		ProviderJobID: resp.JobID,
		UpdatedAt:     time.Now(),
	}); err != nil {
		return StartResult{}, fmt.Errorf("video: persist generating status: %w", err)
	}

	s.logger.Info("video job started",
		slog.String("script_id", scriptID),
		slog.String("provider", string(name)),
		slog.String("job_id", resp.JobID),
	)

	// Detached completion tracking. The request context ends with the
	// HTTP exchange; the poll loop must outlive it.
	go s.awaitCompletion(context.WithoutCancel(ctx), scriptID, name, resp.JobID, cfg)

	return StartResult{Started: true, JobID: resp.JobID, Provider: name}, nil
}

// RequestBatch starts generation for several scripts independently and
// concurrently. One script's failure does not block another's.
func (s *Service) RequestBatch(ctx context.Context, scriptIDs []string, provider script.VideoProvider) []BatchItem {
	results := make([]BatchItem, len(scriptIDs))

	done := make(chan struct{})
	for i, id := range scriptIDs {
		go func(i int, id string) {
			defer func() { done <- struct{}{} }()
			res, err := s.RequestVideo(ctx, id, provider)
			item := BatchItem{ScriptID: id, Started: res.Started, JobID: res.JobID}
			if err != nil {
				item.Error = err.Error()
			}
			results[i] = item
		}(i, id)
	}
	for range scriptIDs {
		<-done
	}
	close(done)

	return results
}

// ProviderAvailability reports whether a provider is configured and
// enabled. It is a pure configuration check; no network call is made.
func (s *Service) ProviderAvailability(ctx context.Context, provider script.VideoProvider) (generator.Availability, error) {
	adapter, cfg, err := s.resolveProvider(ctx, provider)
	if err != nil {
		return generator.Availability{}, err
	}
	return adapter.Availability(cfg), nil
}

// resolveProvider loads fresh settings and looks up the adapter. An empty
// provider name falls back to the preferred provider from settings.
func (s *Service) resolveProvider(ctx context.Context, provider script.VideoProvider) (generator.Provider, *settings.Settings, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("video: load settings: %w", err)
	}

	if provider == "" {
		provider = cfg.PreferredProvider
	}

	adapter, ok := s.providers[provider]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	return adapter, cfg, nil
}

// awaitCompletion drives the detached portion of a job. Failures here are
// never raised to the original caller; they surface as status "failed" on
// the script record.
func (s *Service) awaitCompletion(ctx context.Context, scriptID string, name script.VideoProvider, jobID string, cfg *settings.Settings) {
	adapter := s.providers[name]

	resp, err := s.poller.Wait(ctx, adapter, jobID, cfg)
	if err != nil {
		s.markFailed(ctx, scriptID, name, jobID, err)
		return
	}

	job := script.VideoJob{
		Status:        script.VideoComplete,
		Provider:      name,
		ProviderJobID: jobID,
		ResultURL:     resp.ResultURL,
		UpdatedAt:     time.Now(),
	}

	if s.archiver != nil {
		archiveURL, archiveErr := s.archiver.Archive(ctx, scriptID, resp.ResultURL)
		if archiveErr != nil {
			// Archiving is best effort; the provider URL is still the result.
			s.logger.Warn("archive failed",
				slog.String("script_id", scriptID),
				slog.String("error", archiveErr.Error()),
			)
		} else {
			job.ArchiveURL = archiveURL
		}
	}

	if err := s.scripts.SetVideoStatus(ctx, scriptID, job); err != nil {
		s.logger.Error("failed to persist completed video",
			slog.String("script_id", scriptID),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("video job completed",
		slog.String("script_id", scriptID),
		slog.String("provider", string(name)),
		slog.String("job_id", jobID),
		slog.String("result_url", resp.ResultURL),
	)

	if s.notifier != nil {
		sc, findErr := s.scripts.FindByID(ctx, scriptID)
		if findErr == nil {
			if notifyErr := s.notifier.VideoReady(ctx, sc); notifyErr != nil {
				s.logger.Warn("video ready notification failed",
					slog.String("script_id", scriptID),
					slog.String("error", notifyErr.Error()),
				)
			}
		}
	}
}

// markFailed records a failed attempt. The write is unconditional; once an
// attempt has started, the orchestrator and poller are the sole source of
// truth for its outcome.
func (s *Service) markFailed(ctx context.Context, scriptID string, name script.VideoProvider, jobID string, cause error) {
	job := script.VideoJob{
		Status:        script.VideoFailed,
		Provider:      name,
		ProviderJobID: jobID,
		Error:         cause.Error(),
		UpdatedAt:     time.Now(),
	}
	if err := s.scripts.SetVideoStatus(ctx, scriptID, job); err != nil {
		s.logger.Error("failed to persist failed video status",
			slog.String("script_id", scriptID),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Warn("video job failed",
		slog.String("script_id", scriptID),
		slog.String("provider", string(name)),
		slog.String("job_id", jobID),
		slog.String("error", cause.Error()),
	)
}
