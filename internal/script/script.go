// Package script provides the Script aggregate for generated marketing
// scripts and the video job lifecycle attached to each script. It also
// defines the Store port and its in-memory and JSON-file implementations.
package script

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// VideoProvider identifies which external system renders the video.
type VideoProvider string

const (
	// ProviderHeyGen uses the hosted HeyGen avatar API.
	ProviderHeyGen VideoProvider = "heygen"
	// ProviderWav2Lip uses the self-hosted Wav2Lip pipeline.
	ProviderWav2Lip VideoProvider = "wav2lip"
)

// IsValid returns true if the provider is valid.
func (p VideoProvider) IsValid() bool {
	return p == ProviderHeyGen || p == ProviderWav2Lip
}

// VideoStatus represents the lifecycle state of a script's video job.
type VideoStatus string

const (
	// VideoNone indicates no video job has been requested yet.
	VideoNone VideoStatus = "none"
	// VideoPending indicates a job was accepted locally but not yet by the provider.
	VideoPending VideoStatus = "pending"
	// VideoGenerating indicates the provider accepted the job and is rendering.
	VideoGenerating VideoStatus = "generating"
	// VideoComplete indicates the provider produced a result URL.
	VideoComplete VideoStatus = "complete"
	// VideoFailed indicates the job ended without a result.
	VideoFailed VideoStatus = "failed"
)

// IsTerminal returns true if the status ends a job attempt.
func (s VideoStatus) IsTerminal() bool {
	return s == VideoComplete || s == VideoFailed
}

// IsActive returns true while a job attempt is in flight.
// At most one active attempt may exist per script.
func (s VideoStatus) IsActive() bool {
	return s == VideoPending || s == VideoGenerating
}

// validTransitions defines the allowed lifecycle order. A new attempt resets
// a terminal (or never-started) job back to pending.
var validTransitions = map[VideoStatus][]VideoStatus{
	VideoNone:       {VideoPending},
	VideoPending:    {VideoGenerating, VideoFailed},
	VideoGenerating: {VideoComplete, VideoFailed},
	VideoComplete:   {VideoPending},
	VideoFailed:     {VideoPending},
}

// CanTransitionTo reports whether moving from s to the given status respects
// the lifecycle order.
func (s VideoStatus) CanTransitionTo(to VideoStatus) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// VideoJob is the persisted record of one video generation attempt.
// It lives inside the owning Script record.
type VideoJob struct {
	// Status is the current lifecycle state.
	Status VideoStatus `json:"status"`
	// Provider is the system rendering this attempt.
	Provider VideoProvider `json:"provider,omitempty"`
	// ProviderJobID is the opaque identifier assigned by the provider.
	// Empty until the provider accepts the job.
	ProviderJobID string `json:"provider_job_id,omitempty"`
	// ResultURL is set only when Status is complete.
	ResultURL string `json:"result_url,omitempty"`
	// ArchiveURL is the durable copy of the result, when archiving is enabled.
	ArchiveURL string `json:"archive_url,omitempty"`
	// Error holds the diagnostic message when Status is failed.
	Error string `json:"error,omitempty"`
	// UpdatedAt is when the job record last changed.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Script is one unit of generated marketing text. Each script owns at most
// one video job at a time.
type Script struct {
	// ID is the unique identifier for this script.
	ID string `json:"id"`
	// Topic is the subject the script was generated for.
	Topic string `json:"topic"`
	// Hook is the opening line.
	Hook string `json:"hook"`
	// Body is the main pitch.
	Body string `json:"body"`
	// CTA is the closing call to action.
	CTA string `json:"cta"`
	// Video is the state of this script's video job.
	Video VideoJob `json:"video"`
	// CreatedAt is when the script was generated.
	CreatedAt time.Time `json:"created_at"`
}

// New creates a new Script with a generated ID and no video job.
func New(topic, hook, body, cta string) *Script {
	return &Script{
		ID:        uuid.NewString(),
		Topic:     topic,
		Hook:      hook,
		Body:      body,
		CTA:       cta,
		Video:     VideoJob{Status: VideoNone},
		CreatedAt: time.Now(),
	}
}

// SpokenText returns the full text an avatar speaks: hook, body and call to
// action in that order, space-joined. Empty sections are skipped.
func (s *Script) SpokenText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.Hook, s.Body, s.CTA} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Clone creates a deep copy of the script for safe reads.
func (s *Script) Clone() *Script {
	c := *s
	return &c
}
