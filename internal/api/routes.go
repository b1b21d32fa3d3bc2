package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/predici-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/pascha/years
//	GET    /api/v1/pascha/{year}                 ?strategy=auto|lookup|algorithmic
//	GET    /api/v1/offset/{date}
//	GET    /api/v1/season/{date}
//	GET    /api/v1/calendar/{year}
//	GET    /api/v1/calendar/{year}/feasts
//	GET    /api/v1/calendar/{year}/ics
//	GET    /api/v1/sermons                       whole catalog
//	GET    /api/v1/sermons/today
//	GET    /api/v1/sermons/feasts
//	GET    /api/v1/sermons/upcoming              ?days=N
//	GET    /api/v1/sermons/search                ?q=&category=&type=&ascii=&limit=&offset=
//	GET    /api/v1/sermons/date/{date}
//	GET    /api/v1/sermons/date/{date}/info
//	GET    /api/v1/sermons/month/{year}/{month}
//	GET    /api/v1/sermons/sundays/{year}/{month}
//	GET    /api/v1/sermons/{id}
//	GET    /api/v1/cache/stats
//	DELETE /api/v1/cache                         admin key
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/pascha/years", handlers.GetPaschaYears)
		r.Get("/pascha/{year}", handlers.GetPascha)
		r.Get("/offset/{date}", handlers.GetOffset)
		r.Get("/season/{date}", handlers.GetSeason)

		r.Route("/calendar/{year}", func(r chi.Router) {
			r.Get("/", handlers.GetCalendar)
			r.Get("/feasts", handlers.GetFeasts)
			r.Get("/ics", handlers.GetCalendarICS)
		})

		r.Route("/sermons", func(r chi.Router) {
			r.Get("/", handlers.ListSermons)
			r.Get("/today", handlers.GetTodaySermon)
			r.Get("/feasts", handlers.GetFeastSermons)
			r.Get("/upcoming", handlers.GetUpcomingSermons)
			r.Get("/search", handlers.SearchSermons)
			r.Get("/date/{date}", handlers.GetDateSermon)
			r.Get("/date/{date}/info", handlers.GetDateMatchInfo)
			r.Get("/month/{year}/{month}", handlers.GetMonthSermons)
			r.Get("/sundays/{year}/{month}", handlers.GetSundaySermons)
			r.Get("/{id}", handlers.GetSermon)
		})

		r.Get("/cache/stats", handlers.GetCacheStats)
		r.With(AdminMiddleware(cfg, logger)).Delete("/cache", handlers.ClearCache)
	})

	return r
}
