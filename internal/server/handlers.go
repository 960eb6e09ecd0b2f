package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/adreel/adreel-api/internal/export"
	"github.com/adreel/adreel-api/internal/generator"
	"github.com/adreel/adreel-api/internal/script"
	"github.com/adreel/adreel-api/internal/settings"
	"github.com/adreel/adreel-api/internal/video"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	videos    *video.Service
	scripts   script.Store
	generator *script.Generator // nil when script generation is not configured
	settings  settings.Store
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
// The scriptGen parameter may be nil; the generate endpoint then reports
// the feature as unavailable.
func NewHandlers(videos *video.Service, scripts script.Store, scriptGen *script.Generator, settingsStore settings.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		videos:    videos,
		scripts:   scripts,
		generator: scriptGen,
		settings:  settingsStore,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ListScripts handles GET /scripts requests.
func (h *Handlers) ListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.scripts.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list scripts", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list scripts", "SCRIPT_LIST_FAILED")
		return
	}

	resp := make([]ScriptResponse, 0, len(scripts))
	for _, sc := range scripts {
		resp = append(resp, toScriptResponse(sc))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetScript handles GET /scripts/{id} requests.
func (h *Handlers) GetScript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sc, err := h.scripts.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, script.ErrScriptNotFound) {
			writeError(w, http.StatusNotFound, "script not found", "SCRIPT_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get script",
			slog.String("script_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get script", "SCRIPT_FETCH_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, toScriptResponse(sc))
}

// DeleteScript handles DELETE /scripts/{id} requests.
func (h *Handlers) DeleteScript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.scripts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, script.ErrScriptNotFound) {
			writeError(w, http.StatusNotFound, "script not found", "SCRIPT_NOT_FOUND")
			return
		}
		h.logger.Error("failed to delete script",
			slog.String("script_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to delete script", "SCRIPT_DELETE_FAILED")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateScripts handles POST /scripts/generate requests.
func (h *Handlers) GenerateScripts(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "script generation is not configured", "GENERATION_UNAVAILABLE")
		return
	}

	var req GenerateScriptsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	scripts := h.generator.GenerateBatch(r.Context(), req.Topics)
	resp := make([]ScriptResponse, 0, len(scripts))
	for _, sc := range scripts {
		resp = append(resp, toScriptResponse(sc))
	}
	writeJSON(w, http.StatusCreated, resp)
}

// RequestVideo handles POST /scripts/{id}/video requests. It responds as
// soon as the provider accepts the job; completion is observed by
// re-fetching the script.
func (h *Handlers) RequestVideo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req RequestVideoRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
			return
		}
	}

	result, err := h.videos.RequestVideo(r.Context(), id, script.VideoProvider(req.Provider))
	if err != nil {
		h.writeVideoError(w, id, err)
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}

// RequestVideoBatch handles POST /scripts/video-batch requests.
func (h *Handlers) RequestVideoBatch(w http.ResponseWriter, r *http.Request) {
	var req RequestVideoBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	items := h.videos.RequestBatch(r.Context(), req.ScriptIDs, script.VideoProvider(req.Provider))
	writeJSON(w, http.StatusAccepted, items)
}

// ProviderAvailability handles GET /providers/{name}/availability requests.
func (h *Handlers) ProviderAvailability(w http.ResponseWriter, r *http.Request) {
	name := script.VideoProvider(r.PathValue("name"))

	avail, err := h.videos.ProviderAvailability(r.Context(), name)
	if err != nil {
		if errors.Is(err, video.ErrUnknownProvider) {
			writeError(w, http.StatusNotFound, "unknown provider", "UNKNOWN_PROVIDER")
			return
		}
		h.logger.Error("failed to check provider availability",
			slog.String("provider", string(name)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to check provider availability", "AVAILABILITY_CHECK_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

// GetSettings handles GET /settings requests. Credentials are masked.
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load settings", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load settings", "SETTINGS_LOAD_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(cfg))
}

// UpdateSettings handles PUT /settings requests.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var cfg settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}
	if cfg.PreferredProvider != "" && !cfg.PreferredProvider.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid preferred provider", "VALIDATION_ERROR")
		return
	}

	if err := h.settings.Save(r.Context(), &cfg); err != nil {
		h.logger.Error("failed to save settings", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to save settings", "SETTINGS_SAVE_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(&cfg))
}

// ExportScriptsCSV handles GET /export/scripts.csv requests.
func (h *Handlers) ExportScriptsCSV(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.scripts.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list scripts for export", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to export scripts", "EXPORT_FAILED")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="scripts.csv"`)
	if err := export.WriteCSV(w, scripts); err != nil {
		// Headers are already out; only log.
		h.logger.Error("failed to write CSV export", slog.String("error", err.Error()))
	}
}

// writeVideoError maps orchestration errors to HTTP responses.
func (h *Handlers) writeVideoError(w http.ResponseWriter, scriptID string, err error) {
	var provErr *generator.ProviderError

	switch {
	case errors.Is(err, script.ErrScriptNotFound):
		writeError(w, http.StatusNotFound, "script not found", "SCRIPT_NOT_FOUND")
	case errors.Is(err, video.ErrVideoInProgress):
		writeError(w, http.StatusConflict, "video generation already in progress", "VIDEO_IN_PROGRESS")
	case errors.Is(err, video.ErrUnknownProvider):
		writeError(w, http.StatusBadRequest, "unknown provider", "UNKNOWN_PROVIDER")
	case errors.Is(err, generator.ErrNotConfigured):
		writeError(w, http.StatusUnprocessableEntity, "provider is not configured", "PROVIDER_NOT_CONFIGURED")
	case errors.Is(err, generator.ErrDisabled):
		writeError(w, http.StatusUnprocessableEntity, "provider is disabled", "PROVIDER_DISABLED")
	case errors.Is(err, generator.ErrDependencyUnavailable):
		writeError(w, http.StatusBadGateway, "speech synthesis is unavailable", "DEPENDENCY_UNAVAILABLE")
	case errors.As(err, &provErr):
		writeError(w, http.StatusBadGateway, provErr.Error(), "PROVIDER_REJECTED")
	default:
		h.logger.Error("video request failed",
			slog.String("script_id", scriptID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to start video generation", "VIDEO_REQUEST_FAILED")
	}
}

// toScriptResponse converts a script to its HTTP representation.
func toScriptResponse(sc *script.Script) ScriptResponse {
	return ScriptResponse{
		ID:    sc.ID,
		Topic: sc.Topic,
		Hook:  sc.Hook,
		Body:  sc.Body,
		CTA:   sc.CTA,
		Video: VideoResponse{
			Status:        string(sc.Video.Status),
			Provider:      string(sc.Video.Provider),
			ProviderJobID: sc.Video.ProviderJobID,
			ResultURL:     sc.Video.ResultURL,
			ArchiveURL:    sc.Video.ArchiveURL,
			Error:         sc.Video.Error,
		},
		CreatedAt: sc.CreatedAt,
	}
}

// toSettingsResponse masks credentials for API responses.
func toSettingsResponse(cfg *settings.Settings) SettingsResponse {
	return SettingsResponse{
		HeyGen: ProviderSettingsResponse{
			Configured: cfg.HeyGen.Configured(),
			Enabled:    cfg.HeyGen.Enabled,
			AvatarID:   cfg.HeyGen.AvatarID,
			VoiceID:    cfg.HeyGen.VoiceID,
		},
		Wav2Lip: ProviderSettingsResponse{
			Configured: cfg.Wav2Lip.Configured(),
			Enabled:    cfg.Wav2Lip.Enabled,
			Endpoint:   cfg.Wav2Lip.EndpointURL,
			AvatarURL:  cfg.Wav2Lip.AvatarImageURL,
		},
		ElevenLabs: ProviderSettingsResponse{
			Configured: cfg.ElevenLabs.Configured(),
			VoiceID:    cfg.ElevenLabs.VoiceID,
		},
		PreferredProvider: string(cfg.PreferredProvider),
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
