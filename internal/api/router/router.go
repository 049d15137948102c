package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinique-avenir/voice-receptionist/internal/http/handlers"
	httpmiddleware "github.com/clinique-avenir/voice-receptionist/internal/http/middleware"
	"github.com/clinique-avenir/voice-receptionist/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger           *logging.Logger
	AssistantWebhook *handlers.AssistantWebhookHandler
	MetricsHandler   http.Handler
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.AssistantWebhook != nil {
		r.Post("/webhooks/assistant/tools", cfg.AssistantWebhook.HandleToolCall)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
