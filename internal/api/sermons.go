package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/predici-api/internal/calendar"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

const (
	defaultUpcomingDays = 7
	maxUpcomingDays     = 60

	defaultSearchLimit = 50
	maxSearchLimit     = 100
)

// DaySermon is the sermon for one date, if any.
type DaySermon struct {
	Date      calendar.CivilDate `json:"date"`
	DayName   string             `json:"day_name"`
	FeastName string             `json:"feast_name,omitempty"`
	Sermon    *sermon.Sermon     `json:"sermon"`
	MatchType sermon.MatchType   `json:"match_type,omitempty"`
}

func (h *Handlers) daySermon(date calendar.CivilDate) DaySermon {
	ds := DaySermon{
		Date:      date,
		DayName:   calendar.DayNameRo(date),
		FeastName: h.generator.FeastName(date),
	}
	if dm, ok := h.matcher.MatchDated(date); ok {
		ds.Sermon = dm.Sermon
		ds.MatchType = dm.MatchType
	}
	return ds
}

// ListSermons handles GET /api/v1/sermons
func (h *Handlers) ListSermons(w http.ResponseWriter, r *http.Request) {
	catalog := h.matcher.Catalog()
	WriteSuccess(w, map[string]any{
		"sermons": catalog,
		"total":   len(catalog),
	})
}

// GetTodaySermon handles GET /api/v1/sermons/today
func (h *Handlers) GetTodaySermon(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.daySermon(h.today()))
}

// GetDateSermon handles GET /api/v1/sermons/date/{YYYY-MM-DD}
func (h *Handlers) GetDateSermon(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, h.daySermon(date))
}

// GetDateMatchInfo handles GET /api/v1/sermons/date/{YYYY-MM-DD}/info
func (h *Handlers) GetDateMatchInfo(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, h.matcher.Info(date))
}

// GetMonthSermons handles GET /api/v1/sermons/month/{year}/{month}
func (h *Handlers) GetMonthSermons(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	matches := h.matcher.ForMonth(year, month)
	if matches == nil {
		matches = []sermon.DatedMatch{}
	}
	WriteSuccess(w, map[string]any{
		"year":    year,
		"month":   int(month),
		"sermons": matches,
	})
}

// GetSundaySermons handles GET /api/v1/sermons/sundays/{year}/{month}
func (h *Handlers) GetSundaySermons(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, map[string]any{
		"year":    year,
		"month":   int(month),
		"sundays": h.matcher.SundaysForMonth(year, month),
	})
}

// GetUpcomingSermons handles GET /api/v1/sermons/upcoming?days=N
func (h *Handlers) GetUpcomingSermons(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", defaultUpcomingDays)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if days < 1 || days > maxUpcomingDays {
		WriteBadRequest(w, fmt.Sprintf("days must be between 1 and %d", maxUpcomingDays))
		return
	}

	from := h.today()
	matches := h.matcher.Upcoming(from, days)
	if matches == nil {
		matches = []sermon.DatedMatch{}
	}
	WriteSuccess(w, map[string]any{
		"from":    from,
		"days":    days,
		"sermons": matches,
	})
}

// GetFeastSermons handles GET /api/v1/sermons/feasts
func (h *Handlers) GetFeastSermons(w http.ResponseWriter, r *http.Request) {
	feasts := h.matcher.MajorFeastSermons()
	if feasts == nil {
		feasts = []sermon.Sermon{}
	}
	WriteSuccess(w, map[string]any{"sermons": feasts})
}

// SearchSermons handles
// GET /api/v1/sermons/search?q=&category=&type=fixed,movable&ascii=true&limit=&offset=
func (h *Handlers) SearchSermons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intQuery(r, "limit", defaultSearchLimit)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if limit == 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	opts := sermon.SearchOptions{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	}

	if raw := q.Get("type"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			t := sermon.Type(strings.TrimSpace(part))
			if !t.IsValid() {
				WriteBadRequest(w, fmt.Sprintf("Invalid type: %s. Use fixed or movable", part))
				return
			}
			opts.Types = append(opts.Types, t)
		}
	}

	if raw := q.Get("ascii"); raw != "" {
		ascii, err := strconv.ParseBool(raw)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid ascii flag: %s", raw))
			return
		}
		opts.IgnoreDiacritics = ascii
	}

	results := h.matcher.Search(opts)
	if results == nil {
		results = []sermon.Sermon{}
	}
	WriteSuccess(w, map[string]any{
		"sermons": results,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetSermon handles GET /api/v1/sermons/{id}
func (h *Handlers) GetSermon(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, ok := h.matcher.Find(id)
	if !ok {
		WriteNotFound(w, "Sermon not found")
		return
	}

	WriteSuccess(w, map[string]any{
		"sermon":   s,
		"schedule": s.Schedule(),
	})
}
