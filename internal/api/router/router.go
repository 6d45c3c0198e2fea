package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fleetline/driver-desk/internal/http/handlers"
	httpmiddleware "github.com/fleetline/driver-desk/internal/http/middleware"
	"github.com/fleetline/driver-desk/internal/webchat"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// Config holds router configuration. Nil handlers leave their routes
// unregistered so deployments can run a subset of the surface.
type Config struct {
	Logger             *logging.Logger
	VoiceWebhook       *handlers.VoiceWebhookHandler
	Dashboard          *handlers.DashboardHandler
	Webchat            *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// WebchatMessageRate caps the HTTP message fallback per IP. Zero
	// disables the limiter.
	WebchatMessageRate  float64
	WebchatMessageBurst int
}

// New creates the chi router with all routes configured.
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

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.VoiceWebhook != nil {
		r.Post("/webhooks/voice", cfg.VoiceWebhook.HandleVoiceWebhook)
	}

	if cfg.Webchat != nil {
		r.Route("/webchat", func(wc chi.Router) {
			wc.Get("/ws", cfg.Webchat.HandleWebSocket)
			wc.Get("/history", cfg.Webchat.HandleHistory)
			wc.Get("/widget.js", cfg.Webchat.HandleWidgetJS)
			msg := wc.With()
			if cfg.WebchatMessageRate > 0 {
				msg = wc.With(httpmiddleware.RateLimit(cfg.WebchatMessageRate, cfg.WebchatMessageBurst))
			}
			msg.Post("/message", cfg.Webchat.HandleMessage)
		})
	}

	if cfg.Dashboard != nil {
		r.Route("/api", func(api chi.Router) {
			api.Get("/appointments", cfg.Dashboard.HandleAppointments)
			api.Get("/leads", cfg.Dashboard.HandleLeads)
			api.Get("/callbacks", cfg.Dashboard.HandleCallbacks)
			api.Get("/calls", cfg.Dashboard.HandleCalls)
			api.Get("/analytics", cfg.Dashboard.HandleAnalytics)
		})
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
