// Package settings provides per-provider configuration for video and speech
// generation. Settings are stored in a JSON file and read fresh on every
// request so credential changes take effect without a restart.
package settings

import (
	"context"

	"github.com/adreel/adreel-api/internal/script"
)

// HeyGen holds configuration for the hosted HeyGen avatar API.
type HeyGen struct {
	// APIKey authenticates requests to the HeyGen API.
	APIKey string `json:"api_key"`
	// AvatarID selects the avatar used for rendering.
	AvatarID string `json:"avatar_id"`
	// VoiceID selects the synthetic voice. Optional.
	VoiceID string `json:"voice_id,omitempty"`
	// Enabled gates whether this provider may be used.
	Enabled bool `json:"enabled"`
}

// Configured returns true when the required fields are present.
func (h HeyGen) Configured() bool {
	return h.APIKey != "" && h.AvatarID != ""
}

// Wav2Lip holds configuration for the self-hosted Wav2Lip pipeline.
type Wav2Lip struct {
	// EndpointURL is the base URL of the self-hosted service.
	EndpointURL string `json:"endpoint_url"`
	// AvatarImageURL is the still image the pipeline animates.
	AvatarImageURL string `json:"avatar_image_url"`
	// Enabled gates whether this provider may be used.
	Enabled bool `json:"enabled"`
}

// Configured returns true when the required fields are present.
func (w Wav2Lip) Configured() bool {
	return w.EndpointURL != "" && w.AvatarImageURL != ""
}

// ElevenLabs holds configuration for the text-to-speech bridge used by the
// self-hosted provider path.
type ElevenLabs struct {
	// APIKey authenticates requests to the ElevenLabs API.
	APIKey string `json:"api_key"`
	// VoiceID selects the synthetic voice.
	VoiceID string `json:"voice_id"`
}

// Configured returns true when the required fields are present.
func (e ElevenLabs) Configured() bool {
	return e.APIKey != "" && e.VoiceID != ""
}

// Settings is the full provider configuration document.
type Settings struct {
	HeyGen     HeyGen     `json:"heygen"`
	Wav2Lip    Wav2Lip    `json:"wav2lip"`
	ElevenLabs ElevenLabs `json:"elevenlabs"`
	// PreferredProvider is used when a request does not name a provider.
	PreferredProvider script.VideoProvider `json:"preferred_provider,omitempty"`
}

// Clone creates a copy of the settings document.
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}

// Store defines the interface for reading and updating settings.
// Load must return the current state on every call; implementations must
// not cache credentials across requests.
type Store interface {
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
