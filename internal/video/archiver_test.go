package video

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adreel/adreel-api/internal/storage"
)

// fakeStorage records calls and serves canned results.
type fakeStorage struct {
	saved      []byte
	uploadKey  string
	uploadData []byte
	uploadURL  string
	uploadErr  error
	localPath  string
}

func (s *fakeStorage) SaveLocal(ctx context.Context, name string, data io.Reader) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.saved = b
	s.localPath = "/tmp/archive/" + name
	return s.localPath, nil
}

func (s *fakeStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s.saved))), nil
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data io.Reader) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.uploadKey = key
	s.uploadData = b
	return s.uploadURL, nil
}

func TestArchiver_Archive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("video-bytes"))
	}))
	defer srv.Close()

	store := &fakeStorage{uploadURL: "https://bucket.s3.eu-west-1.amazonaws.com/videos/sc-1.mp4"}
	archiver := NewArchiver(store)

	url, err := archiver.Archive(context.Background(), "sc-1", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com/videos/sc-1.mp4", url)
	assert.Equal(t, []byte("video-bytes"), store.saved)
	assert.Equal(t, "videos/sc-1.mp4", store.uploadKey)
	assert.Equal(t, []byte("video-bytes"), store.uploadData)
}

func TestArchiver_Archive_LocalOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("video-bytes"))
	}))
	defer srv.Close()

	store := &fakeStorage{uploadErr: storage.ErrS3NotConfigured}
	archiver := NewArchiver(store)

	url, err := archiver.Archive(context.Background(), "sc-1", srv.URL)
	require.NoError(t, err, "missing S3 configuration is not an archive failure")
	assert.Empty(t, url)
	assert.Equal(t, []byte("video-bytes"), store.saved, "the local copy is still kept")
}

func TestArchiver_Archive_DownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	archiver := NewArchiver(&fakeStorage{})

	_, err := archiver.Archive(context.Background(), "sc-1", srv.URL)
	require.Error(t, err)
}

func TestArchiver_Archive_EmptyURL(t *testing.T) {
	archiver := NewArchiver(&fakeStorage{})

	_, err := archiver.Archive(context.Background(), "sc-1", "")
	require.Error(t, err)
}
