package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/adreel/adreel-api/internal/elevenlabs"
	"github.com/adreel/adreel-api/internal/script"
	"github.com/adreel/adreel-api/internal/settings"
	"github.com/adreel/adreel-api/internal/wav2lip"
)

// Compile-time check that Wav2LipAdapter implements Provider.
var _ Provider = (*Wav2LipAdapter)(nil)

// Wav2LipAdapter adapts the self-hosted Wav2Lip client to the Provider
// interface. The downstream pipeline operates on an audio and still-image
// pair, so the script text is synthesized to speech first via ElevenLabs.
type Wav2LipAdapter struct {
	client wav2lip.Client
	tts    elevenlabs.Client
}

// NewWav2LipAdapter creates a new Wav2Lip provider adapter.
// The tts client may be nil, in which case StartJob fails with
// ErrDependencyUnavailable.
func NewWav2LipAdapter(client wav2lip.Client, tts elevenlabs.Client) *Wav2LipAdapter {
	return &Wav2LipAdapter{client: client, tts: tts}
}

// Name identifies the provider.
func (a *Wav2LipAdapter) Name() script.VideoProvider {
	return script.ProviderWav2Lip
}

// Availability reports configuration state without a network call.
func (a *Wav2LipAdapter) Availability(cfg *settings.Settings) Availability {
	return Availability{
		Configured: cfg.Wav2Lip.Configured(),
		Enabled:    cfg.Wav2Lip.Enabled,
	}
}

// StartJob synthesizes speech for the script and submits it together with
// the avatar image to the Wav2Lip service. Generating video from missing
// audio is not allowed, so an unavailable speech bridge fails the job
// before the video endpoint is ever called.
func (a *Wav2LipAdapter) StartJob(ctx context.Context, sc *script.Script, cfg *settings.Settings) (Response, error) {
	if !cfg.Wav2Lip.Configured() {
		return Response{}, fmt.Errorf("%w: wav2lip endpoint URL and avatar image are required", ErrNotConfigured)
	}
	if a.tts == nil || !cfg.ElevenLabs.Configured() {
		return Response{}, fmt.Errorf("%w: speech synthesis is not configured", ErrDependencyUnavailable)
	}

	audio, err := a.tts.Synthesize(ctx, cfg.ElevenLabs.APIKey, cfg.ElevenLabs.VoiceID, sc.SpokenText())
	if err != nil {
		if errors.Is(err, elevenlabs.ErrNotConfigured) {
			return Response{}, fmt.Errorf("%w: speech synthesis is not configured", ErrDependencyUnavailable)
		}
		return Response{}, fmt.Errorf("wav2lip adapter: synthesize speech: %w", err)
	}

	job, err := a.client.Generate(ctx, cfg.Wav2Lip.EndpointURL, audio, cfg.Wav2Lip.AvatarImageURL, sc.ID)
	if err != nil {
		return Response{}, a.mapError(err)
	}

	return a.mapJob(job), nil
}

// CheckStatus performs a single status query for a Wav2Lip job.
func (a *Wav2LipAdapter) CheckStatus(ctx context.Context, jobID string, cfg *settings.Settings) (Response, error) {
	if !cfg.Wav2Lip.Configured() {
		return Response{}, fmt.Errorf("%w: wav2lip endpoint URL and avatar image are required", ErrNotConfigured)
	}

	job, err := a.client.GetJob(ctx, cfg.Wav2Lip.EndpointURL, jobID)
	if err != nil {
		return Response{}, a.mapError(err)
	}

	return a.mapJob(job), nil
}

// mapJob normalizes the Wav2Lip status vocabulary.
func (a *Wav2LipAdapter) mapJob(j wav2lip.Job) Response {
	var status Status
	switch j.Status {
	case wav2lip.StatusPending:
		status = StatusPending
	case wav2lip.StatusProcessing:
		status = StatusProcessing
	case wav2lip.StatusCompleted:
		status = StatusCompleted
	case wav2lip.StatusFailed:
		status = StatusFailed
	default:
		status = Status(j.Status)
	}

	return Response{
		JobID:     j.JobID,
		Status:    status,
		ResultURL: j.VideoURL,
		Error:     j.Error,
	}
}

// mapError converts client errors into the shared taxonomy.
func (a *Wav2LipAdapter) mapError(err error) error {
	var apiErr *wav2lip.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   script.ProviderWav2Lip,
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Body,
		}
	}
	return fmt.Errorf("wav2lip adapter: %w", err)
}
