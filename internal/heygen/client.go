package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Static errors for HeyGen client operations.
var (
	// ErrAPIKeyRequired is returned when the API key is not provided.
	ErrAPIKeyRequired = errors.New("heygen: API key is required")
	// ErrJobIDRequired is returned when the job ID is not provided.
	ErrJobIDRequired = errors.New("heygen: job ID is required")
	// ErrNoJobIDReturned is returned when the create response contains no job ID.
	ErrNoJobIDReturned = errors.New("heygen: create failed: no job ID returned")
)

// APIError is returned when the HeyGen API rejects a request with a non-2xx
// status. The response body is kept for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("heygen: request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client defines the interface for interacting with the HeyGen API.
// The API key is passed per call so that updated credentials take effect
// immediately; the client holds no credential state.
type Client interface {
	// CreateVideo submits a video generation job and returns the accepted job.
	CreateVideo(ctx context.Context, apiKey, script, avatarID, voiceID string) (Video, error)

	// GetVideo fetches the current status of a job.
	GetVideo(ctx context.Context, apiKey, jobID string) (Video, error)
}

// HTTPClient is the HTTP implementation of the HeyGen Client interface.
// It performs single requests without retrying; retry policy belongs to
// the completion poller.
type HTTPClient struct {
	baseURL    string
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

// WithBaseURL sets a custom base URL for the HeyGen API.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// NewClient creates a new HeyGen HTTP client.
func NewClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    "https://api.heygen.com/v2",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateVideo submits a video generation job and returns the accepted job.
func (c *HTTPClient) CreateVideo(ctx context.Context, apiKey, script, avatarID, voiceID string) (Video, error) {
	if apiKey == "" {
		return Video{}, ErrAPIKeyRequired
	}

	reqBody := createVideoRequest{
		Script:        script,
		AvatarID:      avatarID,
		VoiceSettings: VoiceSettings{VoiceID: voiceID},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Video{}, fmt.Errorf("heygen: marshal request: %w", err)
	}

	url := c.baseURL + "/videos"
	var resp videoResponse
	if err := c.doRequest(ctx, http.MethodPost, url, apiKey, bodyBytes, &resp); err != nil {
		return Video{}, err
	}

	if resp.JobID == "" {
		if resp.Error != "" {
			return Video{}, fmt.Errorf("%w: %s", ErrNoJobIDReturned, resp.Error)
		}
		return Video{}, ErrNoJobIDReturned
	}

	return mapResponse(resp), nil
}

// GetVideo fetches the current status of a job.
func (c *HTTPClient) GetVideo(ctx context.Context, apiKey, jobID string) (Video, error) {
	if apiKey == "" {
		return Video{}, ErrAPIKeyRequired
	}
	if jobID == "" {
		return Video{}, ErrJobIDRequired
	}

	url := fmt.Sprintf("%s/videos/%s", c.baseURL, jobID)
	var resp videoResponse
	if err := c.doRequest(ctx, http.MethodGet, url, apiKey, nil, &resp); err != nil {
		return Video{}, err
	}

	return mapResponse(resp), nil
}

// mapResponse converts the wire response into a Video.
func mapResponse(resp videoResponse) Video {
	v := Video{
		JobID:  resp.JobID,
		Status: Status(resp.Status),
	}
	switch v.Status {
	case StatusCompleted:
		v.VideoURL = resp.VideoURL
	case StatusFailed:
		v.Error = resp.Error
	}
	return v
}

// doRequest performs a single HTTP request.
func (c *HTTPClient) doRequest(ctx context.Context, method, url, apiKey string, body []byte, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("heygen: create request: %w", err)
	}

	req.Header.Set("X-Api-Key", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("heygen: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("heygen: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("heygen: unmarshal response: %w", err)
		}
	}

	return nil
}
