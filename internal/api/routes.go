package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/julian/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health                    database and adoption table status
//	GET    /api/v1/now                current moment as a Julian date
//	GET    /api/v1/jd/{jd}            Julian date to calendar date
//	GET    /api/v1/date/{date}        calendar date to Julian date
//	GET    /api/v1/convert/{arg}      either direction, classified like the CLI
//	GET    /api/v1/regions            regional Gregorian adoption dates
//	GET    /api/v1/regions/{code}
//	PUT    /api/v1/regions/{code}     API key required
//	DELETE /api/v1/regions/{code}     API key required
//
// Conversion endpoints accept places, yday, integer_seconds, old_style and
// region query parameters.
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "No such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeMethodNotAllowed)
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// ======================================================================
		// Conversions
		// ======================================================================
		r.Get("/now", handlers.GetNow)
		r.Get("/jd/{jd}", handlers.GetJulian)
		r.Get("/date/{date}", handlers.GetDate)
		r.Get("/convert/{arg}", handlers.Convert)

		// ======================================================================
		// Regions
		// ======================================================================
		r.Get("/regions", handlers.ListRegions)
		r.Get("/regions/{code}", handlers.GetRegion)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Put("/regions/{code}", handlers.PutRegion)
			r.Delete("/regions/{code}", handlers.DeleteRegion)
		})
	})

	return r
}
