package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/voicebook/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/voicebook/internal/http/middleware"
	"github.com/wolfman30/voicebook/internal/webchat"
	"github.com/wolfman30/voicebook/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *handlers.ChatHandler
	WebchatHandler     *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	ChatRateLimit      float64
	ChatRateBurst      int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.ChatHandler.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/v1/sessions/{sessionID}", func(r chi.Router) {
		if cfg.ChatRateLimit > 0 {
			r.Use(httpmiddleware.RateLimit(cfg.ChatRateLimit, cfg.ChatRateBurst))
		}
		r.Post("/messages", cfg.ChatHandler.Message)
		r.Get("/appointments", cfg.ChatHandler.Appointments)
		r.Delete("/", cfg.ChatHandler.Reset)
	})

	if cfg.WebchatHandler != nil {
		r.Get("/ws/chat", cfg.WebchatHandler.HandleWebSocket)
	}

	return r
}
