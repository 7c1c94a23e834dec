package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/agendae/webhook-dispatch/dispatch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
)

// Handlers sets up the webhook API routes
func Handlers(ctx context.Context, service dispatch.UseCase, metricsHandler http.Handler) *chi.Mux {
	logger := httplog.NewLogger("webhook-dispatch", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	/* Permissive CORS: the dispatch and test endpoints are called from the
	 * admin dashboard, which may be served from any tenant origin
	 */
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Webhook API routes
	r.Route("/v1", func(r chi.Router) {
		// Deliver a domain event to a registered webhook
		r.Post("/webhooks/dispatch", postDispatch(service).ServeHTTP)

		// One-shot test delivery with find-or-create configuration
		r.Post("/webhooks/test", postTest(service).ServeHTTP)

		// Admin surface: configurations and their delivery logs
		r.Get("/webhooks", getWebhooks(service).ServeHTTP)
		r.Get("/webhooks/{webhook_id}", getWebhook(service).ServeHTTP)
		r.Patch("/webhooks/{webhook_id}", patchWebhook(service).ServeHTTP)
		r.Get("/webhooks/{webhook_id}/logs", getWebhookLogs(service).ServeHTTP)
	})

	return r
}
