package settings

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adreel/adreel-api/internal/script"
)

func TestFileStore_RequiresPath(t *testing.T) {
	_, err := NewFileStore("", Settings{})
	require.Error(t, err)
}

func TestFileStore_MissingFileReturnsDefaults(t *testing.T) {
	defaults := Settings{
		HeyGen:            HeyGen{APIKey: "key", AvatarID: "ava", Enabled: true},
		PreferredProvider: script.ProviderHeyGen,
	}
	store, err := NewFileStore(filepath.Join(t.TempDir(), "settings.json"), defaults)
	require.NoError(t, err)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key", got.HeyGen.APIKey)
	assert.Equal(t, script.ProviderHeyGen, got.PreferredProvider)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "settings.json"), Settings{})
	require.NoError(t, err)

	in := &Settings{
		Wav2Lip: Wav2Lip{
			EndpointURL:    "http://localhost:9000",
			AvatarImageURL: "https://example.com/avatar.png",
			Enabled:        true,
		},
		ElevenLabs: ElevenLabs{APIKey: "el-key", VoiceID: "voice-1"},
	}
	require.NoError(t, store.Save(ctx, in))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", got.Wav2Lip.EndpointURL)
	assert.True(t, got.Wav2Lip.Configured())
	assert.True(t, got.ElevenLabs.Configured())
}

func TestFileStore_LoadReadsFresh(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := NewFileStore(path, Settings{})
	require.NoError(t, err)

	first, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, first.HeyGen.APIKey)

	// Edit the file behind the store's back; the next Load must see it.
	data, err := json.Marshal(Settings{HeyGen: HeyGen{APIKey: "rotated", AvatarID: "ava"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))

	second, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated", second.HeyGen.APIKey)
}

func TestConfigured(t *testing.T) {
	assert.False(t, HeyGen{APIKey: "k"}.Configured())
	assert.False(t, HeyGen{AvatarID: "a"}.Configured())
	assert.True(t, HeyGen{APIKey: "k", AvatarID: "a"}.Configured())

	assert.False(t, Wav2Lip{EndpointURL: "u"}.Configured())
	assert.True(t, Wav2Lip{EndpointURL: "u", AvatarImageURL: "i"}.Configured())

	assert.False(t, ElevenLabs{APIKey: "k"}.Configured())
	assert.True(t, ElevenLabs{APIKey: "k", VoiceID: "v"}.Configured())
}
