// Package generator provides the common interface for video generation
// providers and the completion poller that drives jobs to a terminal state.
// Both the HeyGen and Wav2Lip adapters implement this interface,
// normalizing each provider's native vocabulary into one response shape.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/adreel/adreel-api/internal/script"
	"github.com/adreel/adreel-api/internal/settings"
)

// Status represents the normalized status of a generation job.
type Status string

// Common job statuses across providers.
const (
	StatusPending    Status = "pending"    // Job accepted but not yet running
	StatusProcessing Status = "processing" // Job is currently rendering
	StatusCompleted  Status = "completed"  // Job finished successfully
	StatusFailed     Status = "failed"     // Job failed with an error
)

// IsTerminal returns true if the status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Response is the normalized result of a provider call.
type Response struct {
	JobID     string // Identifier assigned by the provider
	Status    Status // Normalized job status
	ResultURL string // URL of the rendered video (completed jobs only)
	Error     string // Provider-reported error message (failed jobs only)
}

// Static errors shared by all adapters.
var (
	// ErrNotConfigured is returned when required provider configuration
	// (API key, endpoint URL, avatar asset) is missing. Adapters check
	// configuration before making any network call.
	ErrNotConfigured = errors.New("generator: provider is not configured")
	// ErrDependencyUnavailable is returned when an upstream prerequisite,
	// such as speech synthesis, cannot run.
	ErrDependencyUnavailable = errors.New("generator: required dependency is unavailable")
	// ErrDisabled is returned when the provider is configured but turned off.
	ErrDisabled = errors.New("generator: provider is disabled")
)

// ProviderError is returned when the external API rejected a request.
// The original HTTP status and body are retained for diagnostics.
type ProviderError struct {
	Provider   script.VideoProvider
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("generator: %s rejected the request with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Availability reports whether a provider can be used, without touching
// the network.
type Availability struct {
	Configured bool `json:"configured"`
	Enabled    bool `json:"enabled"`
}

// Provider defines the interface for video generation providers.
// Settings are passed on every call rather than captured at construction,
// so credential changes apply to the next request.
type Provider interface {
	// Name identifies the provider.
	Name() script.VideoProvider

	// StartJob submits the script's spoken text for rendering and returns
	// the accepted job. Configuration is validated before any network call.
	StartJob(ctx context.Context, sc *script.Script, cfg *settings.Settings) (Response, error)

	// CheckStatus performs a single status query for a previously
	// accepted job.
	CheckStatus(ctx context.Context, jobID string, cfg *settings.Settings) (Response, error)

	// Availability reports configuration state without a network call.
	Availability(cfg *settings.Settings) Availability
}
