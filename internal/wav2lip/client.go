package wav2lip

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Static errors for Wav2Lip client operations.
var (
	// ErrEndpointRequired is returned when the endpoint URL is not provided.
	ErrEndpointRequired = errors.New("wav2lip: endpoint URL is required")
	// ErrAudioRequired is returned when no audio payload is provided.
	// The pipeline animates a still image against audio; submitting a job
	// without audio is not allowed.
	ErrAudioRequired = errors.New("wav2lip: audio payload is required")
	// ErrJobIDRequired is returned when the job ID is not provided.
	ErrJobIDRequired = errors.New("wav2lip: job ID is required")
	// ErrNoJobIDReturned is returned when the generate response contains no job ID.
	ErrNoJobIDReturned = errors.New("wav2lip: generate failed: no job ID returned")
)

// APIError is returned when the service rejects a request with a non-2xx
// status. The response body is kept for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wav2lip: request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client defines the interface for interacting with the Wav2Lip service.
// The endpoint URL is passed per call; a redeployed service at a new
// address is picked up on the next request.
type Client interface {
	// Generate uploads the audio with the avatar image URL and returns the
	// accepted job.
	Generate(ctx context.Context, endpointURL string, audio []byte, imageURL, scriptID string) (Job, error)

	// GetJob fetches the current status of a job.
	GetJob(ctx context.Context, endpointURL, jobID string) (Job, error)
}

// HTTPClient is the HTTP implementation of the Wav2Lip Client interface.
type HTTPClient struct {
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// NewClient creates a new Wav2Lip HTTP client.
func NewClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		// Uploads carry the full synthesized audio; allow more time than
		// a plain status query.
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate uploads the audio with the avatar image URL and returns the
// accepted job.
func (c *HTTPClient) Generate(ctx context.Context, endpointURL string, audio []byte, imageURL, scriptID string) (Job, error) {
	if endpointURL == "" {
		return Job{}, ErrEndpointRequired
	}
	if len(audio) == 0 {
		return Job{}, ErrAudioRequired
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("audio", "speech.mp3")
	if err != nil {
		return Job{}, fmt.Errorf("wav2lip: create audio part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return Job{}, fmt.Errorf("wav2lip: write audio part: %w", err)
	}
	if err := w.WriteField("image_url", imageURL); err != nil {
		return Job{}, fmt.Errorf("wav2lip: write image_url field: %w", err)
	}
	if err := w.WriteField("script_id", scriptID); err != nil {
		return Job{}, fmt.Errorf("wav2lip: write script_id field: %w", err)
	}
	if err := w.Close(); err != nil {
		return Job{}, fmt.Errorf("wav2lip: close multipart writer: %w", err)
	}

	url := strings.TrimRight(endpointURL, "/") + "/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return Job{}, fmt.Errorf("wav2lip: create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return Job{}, err
	}

	if resp.jobID() == "" {
		if msg := resp.errMessage(); msg != "" {
			return Job{}, fmt.Errorf("%w: %s", ErrNoJobIDReturned, msg)
		}
		return Job{}, ErrNoJobIDReturned
	}

	return mapResponse(resp), nil
}

// GetJob fetches the current status of a job.
func (c *HTTPClient) GetJob(ctx context.Context, endpointURL, jobID string) (Job, error) {
	if endpointURL == "" {
		return Job{}, ErrEndpointRequired
	}
	if jobID == "" {
		return Job{}, ErrJobIDRequired
	}

	url := fmt.Sprintf("%s/jobs/%s", strings.TrimRight(endpointURL, "/"), jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Job{}, fmt.Errorf("wav2lip: create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return Job{}, err
	}

	return mapResponse(resp), nil
}

// mapResponse converts the wire response into a Job, normalizing the
// status vocabulary.
func mapResponse(resp jobResponse) Job {
	var status Status
	switch strings.ToLower(resp.Status) {
	case "pending", "queued":
		status = StatusPending
	case "processing", "running":
		status = StatusProcessing
	case "completed", "complete":
		status = StatusCompleted
	case "failed", "error":
		status = StatusFailed
	default:
		status = Status(resp.Status)
	}

	j := Job{
		JobID:  resp.jobID(),
		Status: status,
	}
	switch status {
	case StatusCompleted:
		j.VideoURL = resp.videoURL()
	case StatusFailed:
		j.Error = resp.errMessage()
	}
	return j
}

// do executes the request and decodes the JSON body.
func (c *HTTPClient) do(req *http.Request) (jobResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return jobResponse{}, fmt.Errorf("wav2lip: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return jobResponse{}, fmt.Errorf("wav2lip: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return jobResponse{}, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var decoded jobResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return jobResponse{}, fmt.Errorf("wav2lip: unmarshal response: %w", err)
	}
	return decoded, nil
}
