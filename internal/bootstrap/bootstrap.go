// Package bootstrap provides dependency initialization for the Adreel API.
package bootstrap

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/adreel/adreel-api/internal/config"
	"github.com/adreel/adreel-api/internal/elevenlabs"
	"github.com/adreel/adreel-api/internal/generator"
	"github.com/adreel/adreel-api/internal/heygen"
	"github.com/adreel/adreel-api/internal/llm"
	"github.com/adreel/adreel-api/internal/notify"
	"github.com/adreel/adreel-api/internal/script"
	"github.com/adreel/adreel-api/internal/settings"
	"github.com/adreel/adreel-api/internal/storage"
	"github.com/adreel/adreel-api/internal/video"
	"github.com/adreel/adreel-api/internal/wav2lip"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Scripts         script.Store
	Settings        settings.Store
	VideoService    *video.Service
	ScriptGenerator *script.Generator // nil when OPENAI_API_KEY is not set
	Scheduler       *script.Scheduler // nil when scheduling is disabled
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	scripts, err := script.NewFileStore(filepath.Join(cfg.DataDir, "scripts.json"))
	if err != nil {
		return nil, fmt.Errorf("create script store: %w", err)
	}

	settingsStore, err := settings.NewFileStore(
		filepath.Join(cfg.DataDir, "settings.json"),
		cfg.SettingsDefaults(),
	)
	if err != nil {
		return nil, fmt.Errorf("create settings store: %w", err)
	}

	providers := []generator.Provider{
		generator.NewHeyGenAdapter(heygen.NewClient()),
		generator.NewWav2LipAdapter(wav2lip.NewClient(), elevenlabs.NewClient()),
	}

	poller := generator.NewPoller(logger,
		generator.WithInterval(cfg.PollInterval),
		generator.WithMaxAttempts(cfg.PollMaxAttempts),
	)

	svcOpts := []video.ServiceOption{}

	archiveStore, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}
	if archiveStore != nil {
		svcOpts = append(svcOpts, video.WithArchiver(video.NewArchiver(archiveStore)))
	}

	notifier := notify.NewEmailNotifier(cfg.SendGridAPIKey, cfg.NotifyFrom, cfg.NotifyTo, logger)
	if notifier.Enabled() {
		svcOpts = append(svcOpts, video.WithNotifier(notifier))
		logger.Info("email notifications configured",
			slog.String("to", cfg.NotifyTo),
		)
	}

	videoSvc := video.NewService(scripts, settingsStore, poller, logger, providers, svcOpts...)

	deps := &Dependencies{
		Scripts:      scripts,
		Settings:     settingsStore,
		VideoService: videoSvc,
	}

	if cfg.OpenAIAPIKey != "" {
		llmClient, err := llm.NewClient(cfg.OpenAIAPIKey, llm.WithModel(cfg.OpenAIModel))
		if err != nil {
			return nil, fmt.Errorf("create LLM client: %w", err)
		}
		deps.ScriptGenerator = script.NewGenerator(llmClient, scripts, logger)

		if cfg.SchedulerEnabled() {
			deps.Scheduler = script.NewScheduler(deps.ScriptGenerator, cfg.ScriptTopics, cfg.ScriptInterval, logger)
		}
	}

	return deps, nil
}

// initStorage creates the archive storage backend based on configuration.
// Returns nil when archiving is not configured at all.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !cfg.S3Enabled() {
		return nil, nil
	}

	s3Cfg := storage.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	}
	s3Store, err := storage.NewS3Storage(filepath.Join(cfg.DataDir, "archive"), s3Cfg)
	if err != nil {
		return nil, fmt.Errorf("create S3 archive storage: %w", err)
	}
	logger.Info("S3 archive configured",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)
	return s3Store, nil
}
