package router

import (
	"armory-api/internal/handler"
	"armory-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the handlers wired into the router. Nil handlers are skipped
// so the API degrades gracefully when a dependency (e.g. feed credentials)
// is absent.
type Config struct {
	HealthHandler  *handler.HealthHandler
	SyncHandler    *handler.SyncHandler
	ProductHandler *handler.ProductHandler
	DebugHandler   *handler.DebugHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if cfg.HealthHandler != nil {
		r.Get("/api/status", cfg.HealthHandler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.SyncHandler != nil {
			r.Post("/sync", cfg.SyncHandler.TriggerSync)
			r.Get("/sync", cfg.SyncHandler.GetSyncStatus)
		}

		if cfg.ProductHandler != nil {
			r.Get("/products", cfg.ProductHandler.GetProducts)
		}

		if cfg.HealthHandler != nil {
			r.Get("/feed/health", cfg.HealthHandler.FeedHealth)
		}

		if cfg.DebugHandler != nil {
			r.Get("/debug/config", cfg.DebugHandler.GetConfig)
		}
	})

	return r
}
