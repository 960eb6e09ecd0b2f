package video

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adreel/adreel-api/internal/storage"
)

// Archiver copies a provider's rendered video into our own storage.
// Provider result URLs are commonly short-lived signed URLs; the archive
// copy is the one we can keep serving.
type Archiver struct {
	store      storage.Storage
	httpClient *http.Client
}

// NewArchiver creates a new Archiver.
func NewArchiver(store storage.Storage) *Archiver {
	return &Archiver{
		store:      store,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// WithHTTPClient sets a custom HTTP client for downloads.
func (a *Archiver) WithHTTPClient(c *http.Client) *Archiver {
	a.httpClient = c
	return a
}

// Archive downloads the result video, keeps a local copy, and uploads it
// to S3 when configured. It returns the durable URL, or an empty string
// when only the local copy exists.
func (a *Archiver) Archive(ctx context.Context, scriptID, resultURL string) (string, error) {
	if resultURL == "" {
		return "", fmt.Errorf("video: archive requires a result URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return "", fmt.Errorf("video: create download request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("video: download result: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("video: download result: unexpected status %d", resp.StatusCode)
	}

	localPath, err := a.store.SaveLocal(ctx, scriptID, resp.Body)
	if err != nil {
		return "", fmt.Errorf("video: save local copy: %w", err)
	}

	f, err := a.store.Open(ctx, localPath)
	if err != nil {
		return "", fmt.Errorf("video: reopen local copy: %w", err)
	}
	defer func() { _ = f.Close() }()

	key := fmt.Sprintf("videos/%s.mp4", scriptID)
	url, err := a.store.Upload(ctx, key, f)
	if err != nil {
		if errors.Is(err, storage.ErrS3NotConfigured) {
			return "", nil
		}
		return "", fmt.Errorf("video: upload archive copy: %w", err)
	}

	return url, nil
}
