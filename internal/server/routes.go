package server

import (
	"log/slog"
	"net/http"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /scripts", h.ListScripts)
	mux.HandleFunc("GET /scripts/{id}", h.GetScript)
	mux.HandleFunc("DELETE /scripts/{id}", h.DeleteScript)
	mux.HandleFunc("POST /scripts/generate", h.GenerateScripts)

	mux.HandleFunc("POST /scripts/{id}/video", h.RequestVideo)
	mux.HandleFunc("POST /scripts/video-batch", h.RequestVideoBatch)
	mux.HandleFunc("GET /providers/{name}/availability", h.ProviderAvailability)

	mux.HandleFunc("GET /settings", h.GetSettings)
	mux.HandleFunc("PUT /settings", h.UpdateSettings)

	mux.HandleFunc("GET /export/scripts.csv", h.ExportScriptsCSV)

	// Apply middleware chain
	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
