// Package elevenlabs provides an HTTP client for the ElevenLabs
// text-to-speech API. It is the speech bridge for the self-hosted video
// provider, which operates on an audio and still-image pair rather than
// raw text.
package elevenlabs

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

// Static errors for ElevenLabs client operations.
var (
	// ErrNotConfigured is returned when the API key or voice ID is missing.
	// Callers use this to distinguish "speech synthesis is unavailable"
	// from a transient request failure.
	ErrNotConfigured = errors.New("elevenlabs: API key and voice ID are required")
	// ErrTextRequired is returned when no text is provided.
	ErrTextRequired = errors.New("elevenlabs: text is required")
)

// APIError is returned when the ElevenLabs API rejects a request.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("elevenlabs: request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client defines the interface for speech synthesis.
// Credentials are passed per call; the client holds no credential state.
type Client interface {
	// Synthesize converts text to MP3 audio bytes.
	Synthesize(ctx context.Context, apiKey, voiceID, text string) ([]byte, error)
}

// HTTPClient is the HTTP implementation of the ElevenLabs Client interface.
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

// WithBaseURL sets a custom base URL for the ElevenLabs API.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// NewClient creates a new ElevenLabs HTTP client.
func NewClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    "https://api.elevenlabs.io/v1",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// synthesizeRequest represents the request body for the text-to-speech endpoint.
type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id,omitempty"`
}

// Synthesize converts text to MP3 audio bytes.
// Returns ErrNotConfigured before any network call when credentials are
// missing.
func (c *HTTPClient) Synthesize(ctx context.Context, apiKey, voiceID, text string) ([]byte, error) {
	if apiKey == "" || voiceID == "" {
		return nil, ErrNotConfigured
	}
	if text == "" {
		return nil, ErrTextRequired
	}

	bodyBytes, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: create request: %w", err)
	}
	req.Header.Set("xi-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
