package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adreel/adreel-api/internal/settings"
)

// Polling defaults for production use. Tests inject smaller values.
const (
	// DefaultPollInterval is the fixed delay between status queries.
	// Completion polling deliberately does not back off; rendering time
	// dominates and a constant cadence keeps the timeout budget simple.
	DefaultPollInterval = 10 * time.Second
	// DefaultMaxAttempts bounds the poll loop. Combined with the default
	// interval this gives a rendering budget of about 30 minutes.
	DefaultMaxAttempts = 180
)

// ErrPollTimeout is returned when the attempt budget is exhausted without
// the job reaching a terminal state.
var ErrPollTimeout = errors.New("generator: polling timed out before the job finished")

// JobFailedError is returned when the provider reports a failed job.
type JobFailedError struct {
	Message string
}

func (e *JobFailedError) Error() string {
	if e.Message == "" {
		return "generator: provider reported the job as failed"
	}
	return "generator: job failed: " + e.Message
}

// Poller repeatedly queries a provider until a job reaches a terminal
// state. It is a blocking single-job loop, always run detached from the
// request path by the orchestrator.
type Poller struct {
	interval    time.Duration
	maxAttempts int
	logger      *slog.Logger
}

// PollerOption is a function that configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the delay between status queries.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		p.interval = d
	}
}

// WithMaxAttempts sets the maximum number of status queries.
func WithMaxAttempts(n int) PollerOption {
	return func(p *Poller) {
		p.maxAttempts = n
	}
}

// NewPoller creates a poller with production defaults.
func NewPoller(logger *slog.Logger, opts ...PollerOption) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		interval:    DefaultPollInterval,
		maxAttempts: DefaultMaxAttempts,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait polls the provider until the job completes, fails, or the attempt
// budget runs out.
//
// A completed status without a result URL does not count as success: some
// providers report completion slightly before the asset URL is attached,
// so the loop keeps polling in that case. A failed status ends the loop
// immediately.
func (p *Poller) Wait(ctx context.Context, provider Provider, jobID string, cfg *settings.Settings) (Response, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		resp, err := provider.CheckStatus(ctx, jobID, cfg)
		if err != nil {
			return Response{}, fmt.Errorf("poll attempt %d: %w", attempt, err)
		}

		switch {
		case resp.Status == StatusCompleted && resp.ResultURL != "":
			p.logger.Info("job completed",
				slog.String("provider", string(provider.Name())),
				slog.String("job_id", jobID),
				slog.Int("attempts", attempt),
			)
			return resp, nil
		case resp.Status == StatusFailed:
			return Response{}, &JobFailedError{Message: resp.Error}
		case resp.Status == StatusCompleted:
			p.logger.Debug("job completed without result URL, continuing to poll",
				slog.String("provider", string(provider.Name())),
				slog.String("job_id", jobID),
			)
		}

		// Do not sleep after the final attempt.
		if attempt == p.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return Response{}, fmt.Errorf("generator: poll cancelled: %w", ctx.Err())
		case <-time.After(p.interval):
		}
	}

	return Response{}, ErrPollTimeout
}
