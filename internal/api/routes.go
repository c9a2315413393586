package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/panchanga-api/internal/config"
	"github.com/zapponejosh/panchanga-api/internal/telemetry"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health
//	GET /metrics                              (when METRICS_ENABLED)
//	GET /api/v1/locations
//	GET /api/v1/panchanga/today               ?location=
//	GET /api/v1/panchanga/date/{date}         ?location=
//	GET /api/v1/panchanga/range               ?start=&end=&location=
//	GET /api/v1/panchanga/year/{year}         ?location=  (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(log),
		RequestIDMiddleware(),
		LoggingMiddleware(log),
		CORSMiddleware(),
	)
	if cfg.MetricsEnabled {
		r.Use(telemetry.MetricsMiddleware)
		r.Handle("/metrics", telemetry.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteMethodNotAllowed(w)
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/locations", handlers.ListLocations)

		r.Route("/panchanga", func(r chi.Router) {
			r.Get("/today", handlers.GetToday)
			r.Get("/date/{date}", handlers.GetDate)
			r.Get("/range", handlers.GetRange)

			// A full year is the expensive call
			r.With(AuthMiddleware(cfg, log)).Get("/year/{year}", handlers.GetYear)
		})
	})

	return r
}
