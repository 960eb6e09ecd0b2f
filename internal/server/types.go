// Package server provides the HTTP server for the Adreel API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "time"

// GenerateScriptsRequest is the HTTP request body for generating scripts.
type GenerateScriptsRequest struct {
	// Topics to generate one script each for.
	Topics []string `json:"topics" validate:"required,min=1,max=20,dive,required"`
}

// RequestVideoRequest is the HTTP request body for starting a video job.
type RequestVideoRequest struct {
	// Provider selects the rendering backend. Empty uses the preferred
	// provider from settings.
	Provider string `json:"provider" validate:"omitempty,oneof=heygen wav2lip"`
}

// RequestVideoBatchRequest is the HTTP request body for starting several
// video jobs at once.
type RequestVideoBatchRequest struct {
	ScriptIDs []string `json:"script_ids" validate:"required,min=1,max=50,dive,required"`
	Provider  string   `json:"provider" validate:"omitempty,oneof=heygen wav2lip"`
}

// VideoResponse describes a script's video job in API responses.
type VideoResponse struct {
	Status        string `json:"status"`
	Provider      string `json:"provider,omitempty"`
	ProviderJobID string `json:"provider_job_id,omitempty"`
	ResultURL     string `json:"result_url,omitempty"`
	ArchiveURL    string `json:"archive_url,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ScriptResponse is the HTTP representation of a script.
type ScriptResponse struct {
	ID        string        `json:"id"`
	Topic     string        `json:"topic"`
	Hook      string        `json:"hook"`
	Body      string        `json:"body"`
	CTA       string        `json:"cta"`
	Video     VideoResponse `json:"video"`
	CreatedAt time.Time     `json:"created_at"`
}

// ProviderSettingsResponse reports one provider's settings with
// credentials masked.
type ProviderSettingsResponse struct {
	Configured bool   `json:"configured"`
	Enabled    bool   `json:"enabled,omitempty"`
	AvatarID   string `json:"avatar_id,omitempty"`
	AvatarURL  string `json:"avatar_image_url,omitempty"`
	Endpoint   string `json:"endpoint_url,omitempty"`
	VoiceID    string `json:"voice_id,omitempty"`
}

// SettingsResponse is the masked settings document.
type SettingsResponse struct {
	HeyGen            ProviderSettingsResponse `json:"heygen"`
	Wav2Lip           ProviderSettingsResponse `json:"wav2lip"`
	ElevenLabs        ProviderSettingsResponse `json:"elevenlabs"`
	PreferredProvider string                   `json:"preferred_provider,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
