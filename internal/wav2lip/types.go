// Package wav2lip provides an HTTP client for a self-hosted Wav2Lip
// lip-sync video service.
package wav2lip

// Status represents the status of a Wav2Lip job.
type Status string

// Wav2Lip job statuses. The self-hosted service reports "complete" or
// "completed" depending on version; both map to StatusCompleted.
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

// jobResponse represents the response from the generate and status
// endpoints. Older deployments of the service return camelCase keys,
// newer ones snake_case; both variants are declared so either decodes.
type jobResponse struct {
	JobID        string `json:"job_id,omitempty"`
	JobIDCamel   string `json:"jobId,omitempty"`
	Status       string `json:"status"`
	VideoURL     string `json:"video_url,omitempty"`
	VideoURLCam  string `json:"videoUrl,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// jobID returns the job ID regardless of key casing.
func (r jobResponse) jobID() string {
	if r.JobID != "" {
		return r.JobID
	}
	return r.JobIDCamel
}

// videoURL returns the result URL regardless of key casing.
func (r jobResponse) videoURL() string {
	if r.VideoURL != "" {
		return r.VideoURL
	}
	return r.VideoURLCam
}

// errMessage returns the error message regardless of key casing.
func (r jobResponse) errMessage() string {
	if r.Error != "" {
		return r.Error
	}
	return r.ErrorMessage
}

// Job is the normalized result of a Wav2Lip API call.
type Job struct {
	JobID    string
	Status   Status
	VideoURL string // Only set when Status is StatusCompleted
	Error    string // Only set when Status is StatusFailed
}
