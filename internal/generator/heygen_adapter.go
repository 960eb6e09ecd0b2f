package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/adreel/adreel-api/internal/heygen"
	"github.com/adreel/adreel-api/internal/script"
	"github.com/adreel/adreel-api/internal/settings"
)

// Compile-time check that HeyGenAdapter implements Provider.
var _ Provider = (*HeyGenAdapter)(nil)

// HeyGenAdapter adapts the HeyGen client to the Provider interface.
// It submits JSON over authenticated HTTPS and does not retry; retry
// policy belongs to the completion poller.
type HeyGenAdapter struct {
	client heygen.Client
}

// NewHeyGenAdapter creates a new HeyGen provider adapter.
func NewHeyGenAdapter(client heygen.Client) *HeyGenAdapter {
	return &HeyGenAdapter{client: client}
}

// Name identifies the provider.
func (a *HeyGenAdapter) Name() script.VideoProvider {
	return script.ProviderHeyGen
}

// Availability reports configuration state without a network call.
func (a *HeyGenAdapter) Availability(cfg *settings.Settings) Availability {
	return Availability{
		Configured: cfg.HeyGen.Configured(),
		Enabled:    cfg.HeyGen.Enabled,
	}
}

// StartJob submits the script's spoken text to HeyGen.
func (a *HeyGenAdapter) StartJob(ctx context.Context, sc *script.Script, cfg *settings.Settings) (Response, error) {
	if !cfg.HeyGen.Configured() {
		return Response{}, fmt.Errorf("%w: heygen API key and avatar ID are required", ErrNotConfigured)
	}

	video, err := a.client.CreateVideo(ctx, cfg.HeyGen.APIKey, sc.SpokenText(), cfg.HeyGen.AvatarID, cfg.HeyGen.VoiceID)
	if err != nil {
		return Response{}, a.mapError(err)
	}

	return a.mapVideo(video), nil
}

// CheckStatus performs a single status query for a HeyGen job.
func (a *HeyGenAdapter) CheckStatus(ctx context.Context, jobID string, cfg *settings.Settings) (Response, error) {
	if !cfg.HeyGen.Configured() {
		return Response{}, fmt.Errorf("%w: heygen API key and avatar ID are required", ErrNotConfigured)
	}

	video, err := a.client.GetVideo(ctx, cfg.HeyGen.APIKey, jobID)
	if err != nil {
		return Response{}, a.mapError(err)
	}

	return a.mapVideo(video), nil
}

// mapVideo normalizes the HeyGen status vocabulary.
func (a *HeyGenAdapter) mapVideo(v heygen.Video) Response {
	var status Status
	switch v.Status {
	case heygen.StatusPending:
		status = StatusPending
	case heygen.StatusProcessing:
		status = StatusProcessing
	case heygen.StatusCompleted:
		status = StatusCompleted
	case heygen.StatusFailed:
		status = StatusFailed
	default:
		status = Status(v.Status)
	}

	return Response{
		JobID:     v.JobID,
		Status:    status,
		ResultURL: v.VideoURL,
		Error:     v.Error,
	}
}

// mapError converts client errors into the shared taxonomy.
func (a *HeyGenAdapter) mapError(err error) error {
	var apiErr *heygen.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   script.ProviderHeyGen,
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Body,
		}
	}
	return fmt.Errorf("heygen adapter: %w", err)
}
