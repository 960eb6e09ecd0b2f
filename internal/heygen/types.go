// Package heygen provides an HTTP client for the HeyGen avatar video API.
package heygen

// Status represents the status of a HeyGen video job.
type Status string

// HeyGen job statuses aligned with the HeyGen API.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// VoiceSettings selects the synthetic voice for a video.
type VoiceSettings struct {
	VoiceID string `json:"voice_id,omitempty"`
}

// createVideoRequest represents the request body for the video creation endpoint.
type createVideoRequest struct {
	Script        string        `json:"script"`
	AvatarID      string        `json:"avatar_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// videoResponse represents the response from both the creation and the
// status endpoints.
type videoResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	VideoURL string `json:"video_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Video is the normalized result of a HeyGen API call.
type Video struct {
	JobID    string
	Status   Status
	VideoURL string // Only set when Status is StatusCompleted
	Error    string // Only set when Status is StatusFailed
}
