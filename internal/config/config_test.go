package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adreel/adreel-api/internal/script"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 6*time.Hour, cfg.ScriptInterval)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 180, cfg.PollMaxAttempts)
	assert.Equal(t, "heygen", cfg.PreferredProvider)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/adreel")
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("POLL_MAX_ATTEMPTS", "30")
	t.Setenv("SCRIPT_TOPICS", "fitness;cooking;travel")
	t.Setenv("S3_BUCKET", "adreel-videos")
	t.Setenv("S3_REGION", "eu-west-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/var/lib/adreel", cfg.DataDir)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 30, cfg.PollMaxAttempts)
	assert.Equal(t, []string{"fitness", "cooking", "travel"}, cfg.ScriptTopics)
	assert.True(t, cfg.S3Enabled())
}

func TestSchedulerEnabled(t *testing.T) {
	cfg := &Config{ScriptsScheduled: true, OpenAIAPIKey: "key", ScriptTopics: []string{"a"}}
	assert.True(t, cfg.SchedulerEnabled())

	assert.False(t, (&Config{ScriptsScheduled: true, OpenAIAPIKey: "key"}).SchedulerEnabled())
	assert.False(t, (&Config{ScriptsScheduled: true, ScriptTopics: []string{"a"}}).SchedulerEnabled())
	assert.False(t, (&Config{OpenAIAPIKey: "key", ScriptTopics: []string{"a"}}).SchedulerEnabled())
}

func TestSettingsDefaults(t *testing.T) {
	cfg := &Config{
		HeyGenAPIKey:      "hg-key",
		HeyGenAvatarID:    "avatar-1",
		ElevenLabsAPIKey:  "el-key",
		ElevenLabsVoiceID: "voice-1",
		PreferredProvider: "wav2lip",
	}

	defaults := cfg.SettingsDefaults()
	assert.True(t, defaults.HeyGen.Configured())
	assert.True(t, defaults.HeyGen.Enabled, "fully seeded providers start enabled")
	assert.False(t, defaults.Wav2Lip.Enabled)
	assert.True(t, defaults.ElevenLabs.Configured())
	assert.Equal(t, script.ProviderWav2Lip, defaults.PreferredProvider)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DataDir: ""}
	require.ErrorIs(t, cfg.Validate(), ErrDataDirRequired)

	cfg.DataDir = "./data"
	require.NoError(t, cfg.Validate())
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{
		Port:           8080,
		DataDir:        "./data",
		OpenAIAPIKey:   "sk-secret",
		HeyGenAPIKey:   "hg-secret",
		SendGridAPIKey: "sg-secret",
	}

	out := cfg.String()
	assert.NotContains(t, out, "sk-secret")
	assert.NotContains(t, out, "hg-secret")
	assert.NotContains(t, out, "sg-secret")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}
