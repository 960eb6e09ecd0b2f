package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	var gotBody synthesizeRequest
	var gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/text-to-speech/voice-1", r.URL.Path)
		gotAPIKey = r.Header.Get("xi-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	audio, err := client.Synthesize(context.Background(), "secret", "voice-1", "H B C")
	require.NoError(t, err)

	assert.Equal(t, []byte("mp3-bytes"), audio)
	assert.Equal(t, "secret", gotAPIKey)
	assert.Equal(t, "H B C", gotBody.Text)
	assert.NotEmpty(t, gotBody.ModelID)
}

func TestSynthesize_NotConfigured(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	_, err := client.Synthesize(context.Background(), "", "voice-1", "text")
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.Synthesize(context.Background(), "key", "", "text")
	require.ErrorIs(t, err, ErrNotConfigured)

	assert.Zero(t, calls, "no request may be made without credentials")
}

func TestSynthesize_EmptyText(t *testing.T) {
	client := NewClient()
	_, err := client.Synthesize(context.Background(), "key", "voice", "")
	require.ErrorIs(t, err, ErrTextRequired)
}

func TestSynthesize_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Synthesize(context.Background(), "bad-key", "voice-1", "text")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid api key")
}
