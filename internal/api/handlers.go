package api

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/predici-api/internal/cache"
	"github.com/zapponejosh/predici-api/internal/calendar"
	"github.com/zapponejosh/predici-api/internal/logger"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

const (
	minYear = 1
	maxYear = 9999
)

// HealthChecker reports whether a backing store is usable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps are the services the handlers read from.
type Deps struct {
	DB        HealthChecker // optional
	Lookup    *calendar.Lookup
	Resolver  calendar.Resolver // the configured resolver; a *calendar.Chain is reused
	Strategy  calendar.Strategy // default for ?strategy=; empty means auto
	Generator *calendar.Generator
	Matcher   *sermon.Matcher
	Location  *time.Location   // decides what "today" is; nil means UTC
	Now       func() time.Time // nil means time.Now
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db        HealthChecker
	lookup    *calendar.Lookup
	chain     *calendar.Chain
	strategy  calendar.Strategy
	generator *calendar.Generator
	matcher   *sermon.Matcher
	cache     *cache.Cache[sermon.Sermon]
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps Deps, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Lookup == nil {
		deps.Lookup = calendar.DefaultLookup()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Strategy == "" {
		deps.Strategy = calendar.StrategyAuto
	}

	// one Chain per process so unverified years are warned about once
	chain, ok := deps.Resolver.(*calendar.Chain)
	if !ok {
		chain = calendar.NewChain(deps.Lookup, logger)
	}

	return &Handlers{
		db:        deps.DB,
		lookup:    deps.Lookup,
		chain:     chain,
		strategy:  deps.Strategy,
		generator: deps.Generator,
		matcher:   deps.Matcher,
		cache:     deps.Matcher.Cache(),
		loc:       deps.Location,
		now:       deps.Now,
		logger:    logger,
	}
}

// today is the current calendar date in the service time zone.
func (h *Handlers) today() calendar.CivilDate {
	return calendar.DateOf(h.now().In(h.loc))
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			logger.Warn(ctx, "health check failed", slog.Any("error", err))
			WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
			return
		}
	}

	years := h.lookup.AvailableYears()
	resp := map[string]any{
		"status":       "healthy",
		"catalog_size": h.matcher.Len(),
	}
	if len(years) > 0 {
		resp["pascha_table"] = fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
	}
	WriteSuccess(w, resp)
}

// PaschaResponse is the body of GET /api/v1/pascha/{year}.
type PaschaResponse struct {
	Year     int                `json:"year"`
	Date     calendar.CivilDate `json:"date"`
	DayName  string             `json:"day_name"`
	Source   calendar.Source    `json:"source"`
	Verified bool               `json:"verified"`
}

// GetPascha handles GET /api/v1/pascha/{year}?strategy=auto|lookup|algorithmic
// Without a strategy parameter the server's configured strategy applies.
func (h *Handlers) GetPascha(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	strategy := calendar.Strategy(r.URL.Query().Get("strategy"))
	if strategy == "" {
		strategy = h.strategy
	}

	var (
		date   calendar.CivilDate
		source calendar.Source
	)
	switch strategy {
	case calendar.StrategyAuto:
		date, source = h.chain.Resolve(year)
	case calendar.StrategyLookup:
		d, found := h.lookup.Pascha(year)
		if !found {
			WriteError(w, http.StatusNotFound,
				fmt.Sprintf("Year %d is outside the verified Pascha table", year), CodeOutOfCoverage)
			return
		}
		date, source = d, calendar.SourceLookup
	case calendar.StrategyAlgorithmic:
		date, source = calendar.ComputePascha(year), calendar.SourceAlgorithmic
	default:
		WriteBadRequest(w, fmt.Sprintf("Invalid strategy: %s. Use auto, lookup or algorithmic", strategy))
		return
	}

	WriteSuccess(w, PaschaResponse{
		Year:     year,
		Date:     date,
		DayName:  calendar.DayNameRo(date),
		Source:   source,
		Verified: h.lookup.Has(year),
	})
}

// GetPaschaYears handles GET /api/v1/pascha/years
func (h *Handlers) GetPaschaYears(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]any{
		"years": h.lookup.AvailableYears(),
		"table": h.lookup.Info(),
	})
}

// OffsetResponse is the body of GET /api/v1/offset/{date}.
type OffsetResponse struct {
	Date         calendar.CivilDate `json:"date"`
	Pascha       calendar.CivilDate `json:"pascha"`
	PaschaOffset int                `json:"pascha_offset"`
	Season       calendar.Season    `json:"season"`
	FeastName    string             `json:"feast_name,omitempty"`
}

// GetOffset handles GET /api/v1/offset/{date}
func (h *Handlers) GetOffset(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	pascha, ok := h.cache.PaschaDate(date.Year)
	if !ok {
		WriteError(w, http.StatusNotFound,
			fmt.Sprintf("No Pascha date for %d", date.Year), CodeOutOfCoverage)
		return
	}
	offset, _ := h.cache.Offset(date)

	WriteSuccess(w, OffsetResponse{
		Date:         date,
		Pascha:       pascha,
		PaschaOffset: offset,
		Season:       calendar.SeasonFor(offset),
		FeastName:    h.generator.FeastName(date),
	})
}

// GetSeason handles GET /api/v1/season/{date}
func (h *Handlers) GetSeason(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	season, ok := h.matcher.Season(date)
	if !ok {
		WriteError(w, http.StatusNotFound,
			fmt.Sprintf("No Pascha date for %d", date.Year), CodeOutOfCoverage)
		return
	}

	WriteSuccess(w, map[string]any{
		"date":   date,
		"season": season,
	})
}

// GetCalendar handles GET /api/v1/calendar/{year}
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	complete, ok := h.generator.GenerateComplete(year)
	if !ok {
		WriteError(w, http.StatusNotFound,
			fmt.Sprintf("No Pascha date for %d", year), CodeOutOfCoverage)
		return
	}

	WriteSuccess(w, map[string]any{
		"year":     year,
		"calendar": complete,
	})
}

// GetFeasts handles GET /api/v1/calendar/{year}/feasts
func (h *Handlers) GetFeasts(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	feasts, ok := h.generator.Generate(year)
	if !ok {
		WriteError(w, http.StatusNotFound,
			fmt.Sprintf("No Pascha date for %d", year), CodeOutOfCoverage)
		return
	}

	WriteSuccess(w, map[string]any{
		"year":   year,
		"feasts": feasts,
	})
}

// GetCalendarICS handles GET /api/v1/calendar/{year}/ics
func (h *Handlers) GetCalendarICS(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	entries, ok := h.generator.Entries(year)
	if !ok {
		WriteError(w, http.StatusNotFound,
			fmt.Sprintf("No Pascha date for %d", year), CodeOutOfCoverage)
		return
	}

	var buf bytes.Buffer
	if err := calendar.WriteICS(&buf, year, entries, h.now()); err != nil {
		logger.Error(r.Context(), "failed to export calendar", err, slog.Int("year", year))
		WriteInternalError(w, "Failed to export calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="calendar-ortodox-%d.ics"`, year))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// GetCacheStats handles GET /api/v1/cache/stats
func (h *Handlers) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.cache.Stats())
}

// ClearCache handles DELETE /api/v1/cache
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.cache.ClearAll()
	logger.Info(r.Context(), "cache cleared")
	WriteSuccess(w, map[string]string{"message": "Cache cleared"})
}

// yearParam parses the {year} path parameter, writing a 400 on failure.
func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil || year < minYear || year > maxYear {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", raw))
		return 0, false
	}
	return year, true
}

// monthParam parses the {month} path parameter, writing a 400 on failure.
func monthParam(w http.ResponseWriter, r *http.Request) (time.Month, bool) {
	raw := chi.URLParam(r, "month")
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		WriteBadRequest(w, fmt.Sprintf("Invalid month: %s. Use 1-12", raw))
		return 0, false
	}
	return time.Month(month), true
}

// dateParam parses the {date} path parameter, writing a 400 on failure.
func dateParam(w http.ResponseWriter, r *http.Request) (calendar.CivilDate, bool) {
	raw := chi.URLParam(r, "date")
	date, err := calendar.ParseDate(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", raw))
		return calendar.CivilDate{}, false
	}
	return date, true
}

// intQuery reads a non-negative integer query parameter. Missing values
// yield def; malformed or negative ones are reported as errors.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return v, nil
}
