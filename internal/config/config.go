// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/adreel/adreel-api/internal/script"
	"github.com/adreel/adreel-api/internal/settings"
)

// ErrDataDirRequired is returned when DATA_DIR resolves to an empty path.
var ErrDataDirRequired = errors.New("config: DATA_DIR is required")

// Config holds all configuration for the application. Provider credentials
// given here only seed the settings file defaults; the settings store is
// the live source of truth.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Data directory for the script and settings JSON files.
	DataDir string `env:"DATA_DIR, default=./data" json:"data_dir"`

	// Script generation settings
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY" json:"-"` // Masked in JSON
	OpenAIModel      string        `env:"OPENAI_MODEL, default=gpt-4o-mini" json:"openai_model"`
	ScriptInterval   time.Duration `env:"SCRIPT_INTERVAL, default=6h" json:"script_interval"`
	ScriptTopics     []string      `env:"SCRIPT_TOPICS, delimiter=;" json:"script_topics,omitempty"`
	ScriptsScheduled bool          `env:"SCRIPTS_SCHEDULED, default=true" json:"scripts_scheduled"`

	// Provider defaults, used until a settings file exists
	HeyGenAPIKey       string `env:"HEYGEN_API_KEY" json:"-"` // Masked in JSON
	HeyGenAvatarID     string `env:"HEYGEN_AVATAR_ID" json:"heygen_avatar_id,omitempty"`
	HeyGenVoiceID      string `env:"HEYGEN_VOICE_ID" json:"heygen_voice_id,omitempty"`
	Wav2LipEndpoint    string `env:"WAV2LIP_ENDPOINT" json:"wav2lip_endpoint,omitempty"`
	Wav2LipAvatarImage string `env:"WAV2LIP_AVATAR_IMAGE" json:"wav2lip_avatar_image,omitempty"`
	ElevenLabsAPIKey   string `env:"ELEVENLABS_API_KEY" json:"-"` // Masked in JSON
	ElevenLabsVoiceID  string `env:"ELEVENLABS_VOICE_ID" json:"elevenlabs_voice_id,omitempty"`
	PreferredProvider  string `env:"PREFERRED_PROVIDER, default=heygen" json:"preferred_provider"`

	// Completion polling settings
	PollInterval    time.Duration `env:"POLL_INTERVAL, default=10s" json:"poll_interval"`
	PollMaxAttempts int           `env:"POLL_MAX_ATTEMPTS, default=180" json:"poll_max_attempts"`

	// Optional S3 archive settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Optional notification settings
	SendGridAPIKey string `env:"SENDGRID_API_KEY" json:"-"` // Masked in JSON
	NotifyFrom     string `env:"NOTIFY_FROM" json:"notify_from,omitempty"`
	NotifyTo       string `env:"NOTIFY_TO" json:"notify_to,omitempty"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// SchedulerEnabled returns true when timed script generation can run.
func (c *Config) SchedulerEnabled() bool {
	return c.ScriptsScheduled && c.OpenAIAPIKey != "" && len(c.ScriptTopics) > 0
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirRequired
	}
	return nil
}

// SettingsDefaults builds the settings document used until a settings
// file exists.
func (c *Config) SettingsDefaults() settings.Settings {
	return settings.Settings{
		HeyGen: settings.HeyGen{
			APIKey:   c.HeyGenAPIKey,
			AvatarID: c.HeyGenAvatarID,
			VoiceID:  c.HeyGenVoiceID,
			Enabled:  c.HeyGenAPIKey != "" && c.HeyGenAvatarID != "",
		},
		Wav2Lip: settings.Wav2Lip{
			EndpointURL:    c.Wav2LipEndpoint,
			AvatarImageURL: c.Wav2LipAvatarImage,
			Enabled:        c.Wav2LipEndpoint != "" && c.Wav2LipAvatarImage != "",
		},
		ElevenLabs: settings.ElevenLabs{
			APIKey:  c.ElevenLabsAPIKey,
			VoiceID: c.ElevenLabsVoiceID,
		},
		PreferredProvider: script.VideoProvider(c.PreferredProvider),
	}
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, DataDir: %s, ScriptInterval: %s, PollInterval: %s, PollMaxAttempts: %d, PreferredProvider: %s, S3Bucket: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.DataDir,
		c.ScriptInterval,
		c.PollInterval,
		c.PollMaxAttempts,
		c.PreferredProvider,
		c.S3Bucket,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
