package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/predici-api/internal/cache"
	"github.com/zapponejosh/predici-api/internal/calendar"
	"github.com/zapponejosh/predici-api/internal/config"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

const testAPIKey = "admin-test-key-32-characters-minimum-length"

type fakeDB struct{ err error }

func (f fakeDB) Health(context.Context) error { return f.err }

// testEnv holds a router wired to an in-memory catalog.
type testEnv struct {
	handler  http.Handler
	handlers *Handlers
	cfg      *config.Config
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))
}

func testCatalog() []sermon.Sermon {
	return []sermon.Sermon{
		{
			ID:           "sermon-001",
			Title:        "Învierea Domnului",
			Category:     sermon.CategoryFeast,
			AudioURL:     "https://example.com/audio/invierea.mp3",
			Type:         sermon.TypeMovable,
			PaschaOffset: sermon.Int(0),
		},
		{
			ID:           "sermon-002",
			Title:        "Duminica Floriilor",
			Category:     sermon.CategorySunday,
			AudioURL:     "https://example.com/audio/floriile.mp3",
			Type:         sermon.TypeMovable,
			PaschaOffset: sermon.Int(-7),
		},
		{
			ID:           "sermon-003",
			Title:        "Duminica Tomii",
			Category:     sermon.CategorySunday,
			AudioURL:     "https://example.com/audio/tomii.mp3",
			Type:         sermon.TypeMovable,
			PaschaOffset: sermon.Int(7),
		},
		{
			ID:         "sermon-004",
			Title:      "Bobotează",
			Category:   sermon.CategoryFeast,
			AudioURL:   "https://example.com/audio/boboteaza.mp3",
			Type:       sermon.TypeFixed,
			FixedMonth: sermon.Int(1),
			FixedDay:   sermon.Int(6),
		},
		{
			ID:         "sermon-005",
			Title:      "Buna Vestire",
			Category:   sermon.CategoryFeast,
			AudioURL:   "https://example.com/audio/buna-vestire.mp3",
			Type:       sermon.TypeFixed,
			FixedMonth: sermon.Int(3),
			FixedDay:   sermon.Int(25),
		},
	}
}

// setupTest creates a router whose clock reads now in loc.
func setupTest(t *testing.T, db HealthChecker, now time.Time, loc *time.Location) *testEnv {
	t.Helper()
	return setupStrategyTest(t, db, now, loc, calendar.StrategyAuto)
}

// setupStrategyTest creates a router configured for a Pascha strategy.
func setupStrategyTest(t *testing.T, db HealthChecker, now time.Time, loc *time.Location, strategy calendar.Strategy) *testEnv {
	t.Helper()

	logger := quietLogger()
	lookup := calendar.DefaultLookup()
	resolver, err := calendar.NewResolver(strategy, lookup, logger)
	if err != nil {
		t.Fatalf("NewResolver(%q) error = %v", strategy, err)
	}
	c := cache.New[sermon.Sermon](resolver, cache.WithLogger(logger))

	handlers := NewHandlers(Deps{
		DB:        db,
		Lookup:    lookup,
		Resolver:  resolver,
		Strategy:  strategy,
		Generator: calendar.NewGenerator(resolver),
		Matcher:   sermon.NewMatcher(testCatalog(), c, logger),
		Location:  loc,
		Now:       func() time.Time { return now },
	}, logger)

	cfg := &config.Config{
		Port:         8080,
		Env:          config.EnvProduction,
		DatabasePath: ":memory:",
		APIKey:       testAPIKey,
		LogLevel:     "error",
		LogFormat:    "text",
	}

	return &testEnv{
		handler:  SetupRoutes(handlers, cfg, logger),
		handlers: handlers,
		cfg:      cfg,
	}
}

// defaultEnv is a healthy router on Pascha morning 2026, UTC.
func defaultEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTest(t, fakeDB{}, time.Date(2026, time.April, 12, 9, 0, 0, 0, time.UTC), time.UTC)
}

// do sends a request through the router.
func (env *testEnv) do(method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	return rr
}

// envelope mirrors Response with the payload left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

// parseResponse checks the status code and decodes the data payload into v.
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, v any) envelope {
	t.Helper()

	if rr.Code != wantStatus {
		t.Fatalf("status = %d, want %d, body: %s", rr.Code, wantStatus, rr.Body.String())
	}

	var env envelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
	if v != nil {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Fatalf("decode data: %v, data: %s", err, env.Data)
		}
	}
	return env
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestRequestIDMiddleware(t *testing.T) {
	env := defaultEnv(t)

	rr := env.do(http.MethodGet, "/health", "")
	id := rr.Header().Get(RequestIDHeader)
	if len(id) != 26 {
		t.Errorf("generated request id %q is not a ULID", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	rr = httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "caller-supplied" {
		t.Errorf("request id = %q, want caller-supplied", got)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	env := defaultEnv(t)

	rr := env.do(http.MethodOptions, "/api/v1/pascha/2026", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(quietLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	env := parseResponse(t, rr, http.StatusInternalServerError, nil)
	if env.Success || env.Error == nil || env.Error.Code != CodeInternal {
		t.Errorf("response = %+v", env)
	}
}

func TestAdminMiddleware(t *testing.T) {
	env := defaultEnv(t)

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusUnauthorized},
		{"valid key", testAPIKey, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(http.MethodDelete, "/api/v1/cache", tt.key)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d, body: %s", rr.Code, tt.status, rr.Body.String())
			}
		})
	}
}

func TestAdminMiddleware_OpenInDevelopment(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment}
	h := AdminMiddleware(cfg, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil))
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want handler to run", rr.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := defaultEnv(t)

	rr := env.do(http.MethodGet, "/api/v1/nope", "")
	resp := parseResponse(t, rr, http.StatusNotFound, nil)
	if resp.Error == nil || resp.Error.Code != CodeNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := defaultEnv(t)

	var data map[string]any
	parseResponse(t, env.do(http.MethodGet, "/health", ""), http.StatusOK, &data)
	if data["status"] != "healthy" || data["catalog_size"] != float64(5) {
		t.Errorf("health = %v", data)
	}
	if data["pascha_table"] != "2026-2040" {
		t.Errorf("pascha_table = %v", data["pascha_table"])
	}
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	env := setupTest(t, fakeDB{err: errors.New("disk gone")}, time.Now(), time.UTC)

	resp := parseResponse(t, env.do(http.MethodGet, "/health", ""), http.StatusServiceUnavailable, nil)
	if resp.Error == nil || resp.Error.Code != CodeUnhealthy {
		t.Errorf("error = %+v", resp.Error)
	}
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestGetPascha(t *testing.T) {
	env := defaultEnv(t)

	tests := []struct {
		name         string
		path         string
		status       int
		wantDate     string
		wantSource   calendar.Source
		wantVerified bool
	}{
		{"table year", "/api/v1/pascha/2026", http.StatusOK, "2026-04-12", calendar.SourceLookup, true},
		{"algorithmic in table", "/api/v1/pascha/2026?strategy=algorithmic", http.StatusOK, "2026-04-12", calendar.SourceAlgorithmic, true},
		{"auto falls back", "/api/v1/pascha/2050?strategy=auto", http.StatusOK, "2050-04-17", calendar.SourceAlgorithmic, false},
		{"lookup outside table", "/api/v1/pascha/2050?strategy=lookup", http.StatusNotFound, "", "", false},
		{"bad strategy", "/api/v1/pascha/2026?strategy=oracle", http.StatusBadRequest, "", "", false},
		{"bad year", "/api/v1/pascha/twenty", http.StatusBadRequest, "", "", false},
		{"year zero", "/api/v1/pascha/0", http.StatusBadRequest, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got PaschaResponse
			var v any
			if tt.status == http.StatusOK {
				v = &got
			}
			resp := parseResponse(t, env.do(http.MethodGet, tt.path, ""), tt.status, v)
			if tt.status != http.StatusOK {
				if resp.Success {
					t.Error("Success = true on error response")
				}
				return
			}
			if got.Date.String() != tt.wantDate || got.Source != tt.wantSource || got.Verified != tt.wantVerified {
				t.Errorf("got %+v", got)
			}
			if got.DayName != "Duminică" {
				t.Errorf("DayName = %q, want Duminică", got.DayName)
			}
		})
	}
}

func TestGetPascha_ConfiguredStrategy(t *testing.T) {
	now := time.Date(2026, time.April, 12, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		strategy   calendar.Strategy
		path       string
		status     int
		wantSource calendar.Source
	}{
		{calendar.StrategyLookup, "/api/v1/pascha/2050", http.StatusNotFound, ""},
		{calendar.StrategyLookup, "/api/v1/offset/2050-05-01", http.StatusNotFound, ""},
		{calendar.StrategyLookup, "/api/v1/calendar/2050", http.StatusNotFound, ""},
		{calendar.StrategyLookup, "/api/v1/pascha/2026", http.StatusOK, calendar.SourceLookup},
		{calendar.StrategyLookup, "/api/v1/pascha/2050?strategy=auto", http.StatusOK, calendar.SourceAlgorithmic},
		{calendar.StrategyAlgorithmic, "/api/v1/pascha/2026", http.StatusOK, calendar.SourceAlgorithmic},
		{calendar.StrategyAuto, "/api/v1/pascha/2050", http.StatusOK, calendar.SourceAlgorithmic},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy)+" "+tt.path, func(t *testing.T) {
			env := setupStrategyTest(t, fakeDB{}, now, time.UTC, tt.strategy)

			var got PaschaResponse
			var v any
			if tt.status == http.StatusOK {
				v = &got
			}
			resp := parseResponse(t, env.do(http.MethodGet, tt.path, ""), tt.status, v)
			if tt.status != http.StatusOK {
				if resp.Error == nil || resp.Error.Code != CodeOutOfCoverage {
					t.Errorf("error = %+v, want %s", resp.Error, CodeOutOfCoverage)
				}
				return
			}
			if got.Source != tt.wantSource {
				t.Errorf("Source = %s, want %s", got.Source, tt.wantSource)
			}
		})
	}
}

func TestNewHandlers_ReusesConfiguredChain(t *testing.T) {
	logger := quietLogger()
	chain := calendar.NewChain(calendar.DefaultLookup(), logger)
	matcher := sermon.NewMatcher(nil, cache.New[sermon.Sermon](chain), logger)

	h := NewHandlers(Deps{Resolver: chain, Generator: calendar.NewGenerator(chain), Matcher: matcher}, logger)
	if h.chain != chain {
		t.Error("handlers built a second Chain instead of reusing the configured one")
	}

	h = NewHandlers(Deps{Resolver: calendar.Algorithmic{}, Generator: calendar.NewGenerator(chain), Matcher: matcher}, logger)
	if h.chain == nil || h.chain == chain {
		t.Error("handlers without a configured Chain need their own")
	}
}

func TestGetPaschaYears(t *testing.T) {
	env := defaultEnv(t)

	var data struct {
		Years []int `json:"years"`
	}
	parseResponse(t, env.do(http.MethodGet, "/api/v1/pascha/years", ""), http.StatusOK, &data)
	if len(data.Years) != 15 || data.Years[0] != 2026 || data.Years[14] != 2040 {
		t.Errorf("years = %v", data.Years)
	}
}

func TestGetOffset(t *testing.T) {
	env := defaultEnv(t)

	var got OffsetResponse
	parseResponse(t, env.do(http.MethodGet, "/api/v1/offset/2026-04-05", ""), http.StatusOK, &got)
	if got.PaschaOffset != -7 || got.Pascha.String() != "2026-04-12" {
		t.Errorf("offset = %+v", got)
	}
	if got.Season != calendar.SeasonGreatLent || got.FeastName != "Duminica Floriilor" {
		t.Errorf("season/feast = %q/%q", got.Season, got.FeastName)
	}

	rr := env.do(http.MethodGet, "/api/v1/offset/2026-13-01", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid date status = %d, want 400", rr.Code)
	}
}

func TestGetSeason(t *testing.T) {
	env := defaultEnv(t)

	var data struct {
		Season calendar.Season `json:"season"`
	}
	parseResponse(t, env.do(http.MethodGet, "/api/v1/season/2026-04-15", ""), http.StatusOK, &data)
	if data.Season != calendar.SeasonBrightWeek {
		t.Errorf("season = %q, want %q", data.Season, calendar.SeasonBrightWeek)
	}
}

func TestGetCalendar(t *testing.T) {
	env := defaultEnv(t)

	var data struct {
		Year     int               `json:"year"`
		Calendar map[string]string `json:"calendar"`
	}
	parseResponse(t, env.do(http.MethodGet, "/api/v1/calendar/2026", ""), http.StatusOK, &data)
	if len(data.Calendar) != 83 {
		t.Errorf("calendar has %d entries, want 83", len(data.Calendar))
	}
	if data.Calendar["2026-05-21"] != "Înălțarea Domnului / Sfinții Constantin și Elena" {
		t.Errorf("2026-05-21 = %q", data.Calendar["2026-05-21"])
	}

	var feasts struct {
		Feasts []calendar.FeastDate `json:"feasts"`
	}
	parseResponse(t, env.do(http.MethodGet, "/api/v1/calendar/2026/feasts", ""), http.StatusOK, &feasts)
	if len(feasts.Feasts) != 63 {
		t.Errorf("feasts has %d entries, want 63", len(feasts.Feasts))
	}
}

func TestGetCalendarICS(t *testing.T) {
	env := defaultEnv(t)

	rr := env.do(http.MethodGet, "/api/v1/calendar/2026/ics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Fatal("body is not an iCalendar document")
	}
	if n := strings.Count(body, "BEGIN:VEVENT"); n != 83 {
		t.Errorf("ics has %d events, want 83", n)
	}
}

// =============================================================================
// SERMONS
// =============================================================================

func TestGetTodaySermon(t *testing.T) {
	env := defaultEnv(t)

	var got DaySermon
	parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/today", ""), http.StatusOK, &got)
	if got.Sermon == nil || got.Sermon.ID != "sermon-001" {
		t.Fatalf("today = %+v, want sermon-001", got)
	}
	if got.MatchType != sermon.MatchPaschaOffset || got.FeastName != "PAȘTELE - Învierea Domnului" {
		t.Errorf("today = %+v", got)
	}
}

func TestGetTodaySermon_UsesServiceTimeZone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Bucharest")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	// Saturday 22:30 UTC is already Sunday in Bucharest.
	env := setupTest(t, fakeDB{}, time.Date(2026, time.April, 11, 22, 30, 0, 0, time.UTC), loc)

	var got DaySermon
	parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/today", ""), http.StatusOK, &got)
	if got.Date.String() != "2026-04-12" {
		t.Errorf("today = %s, want 2026-04-12", got.Date)
	}
}

func TestGetDateSermon(t *testing.T) {
	env := defaultEnv(t)

	tests := []struct {
		date      string
		wantID    string
		wantMatch sermon.MatchType
	}{
		{"2026-01-06", "sermon-004", sermon.MatchFixedDate},
		{"2026-04-05", "sermon-002", sermon.MatchPaschaOffset},
		{"2027-04-25", "sermon-002", sermon.MatchPaschaOffset},
		{"2026-07-01", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			var got DaySermon
			parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/date/"+tt.date, ""), http.StatusOK, &got)
			if tt.wantID == "" {
				if got.Sermon != nil {
					t.Errorf("sermon = %+v, want none", got.Sermon)
				}
				return
			}
			if got.Sermon == nil || got.Sermon.ID != tt.wantID || got.MatchType != tt.wantMatch {
				t.Errorf("got %+v, want %s (%s)", got, tt.wantID, tt.wantMatch)
			}
		})
	}

	rr := env.do(http.MethodGet, "/api/v1/sermons/date/12-04-2026", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rr.Code)
	}
}

func TestGetDateMatchInfo(t *testing.T) {
	env := defaultEnv(t)

	var info sermon.MatchInfo
	parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/date/2026-04-12/info", ""), http.StatusOK, &info)
	if info.PaschaOffset == nil || *info.PaschaOffset != 0 {
		t.Errorf("PaschaOffset = %v, want 0", info.PaschaOffset)
	}
	if len(info.Potential) != 1 || info.Potential[0].Reason != "pascha offset 0" {
		t.Errorf("Potential = %+v", info.Potential)
	}
}

func TestGetMonthSermons(t *testing.T) {
	env := defaultEnv(t)

	var data struct {
		Sermons []sermon.DatedMatch `json:"sermons"`
	}
	parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/month/2026/4", ""), http.StatusOK, &data)

	want := []string{"2026-04-05", "2026-04-12", "2026-04-19"}
	if len(data.Sermons) != len(want) {
		t.Fatalf("got %d sermons, want %d", len(data.Sermons), len(want))
	}
	for i, w := range want {
		if data.Sermons[i].Date.String() != w {
			t.Errorf("sermons[%d].Date = %s, want %s", i, data.Sermons[i].Date, w)
		}
	}

	rr := env.do(http.MethodGet, "/api/v1/sermons/month/2026/13", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("month 13 status = %d, want 400", rr.Code)
	}
}

func TestGetSundaySermons(t *testing.T) {
	env := defaultEnv(t)

	var data struct {
		Sundays []sermon.SundayMatch `json:"sundays"`
	}
	parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/sundays/2026/4", ""), http.StatusOK, &data)
	if len(data.Sundays) != 4 {
		t.Fatalf("got %d Sundays, want 4", len(data.Sundays))
	}
	if data.Sundays[3].Date.String() != "2026-04-26" || data.Sundays[3].Sermon != nil {
		t.Errorf("last Sunday = %+v, want 2026-04-26 without sermon", data.Sundays[3])
	}
}

func TestGetUpcomingSermons(t *testing.T) {
	env := defaultEnv(t)

	tests := []struct {
		query  string
		status int
		want   int
	}{
		{"", http.StatusOK, 1},
		{"?days=8", http.StatusOK, 2},
		{"?days=60", http.StatusOK, 2},
		{"?days=61", http.StatusBadRequest, 0},
		{"?days=0", http.StatusBadRequest, 0},
		{"?days=soon", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var data struct {
				Sermons []sermon.DatedMatch `json:"sermons"`
			}
			var v any
			if tt.status == http.StatusOK {
				v = &data
			}
			parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/upcoming"+tt.query, ""), tt.status, v)
			if tt.status == http.StatusOK && len(data.Sermons) != tt.want {
				t.Errorf("got %d sermons, want %d", len(data.Sermons), tt.want)
			}
		})
	}
}

func TestSearchSermons(t *testing.T) {
	env := defaultEnv(t)

	tests := []struct {
		name    string
		query   string
		status  int
		wantIDs []string
	}{
		{"diacritics required by default", "?q=invierea", http.StatusOK, []string{}},
		{"ascii folding", "?q=invierea&ascii=true", http.StatusOK, []string{"sermon-001"}},
		{"fixed only", "?type=fixed", http.StatusOK, []string{"sermon-004", "sermon-005"}},
		{"category", "?category=predici+duminicale", http.StatusOK, []string{"sermon-002", "sermon-003"}},
		{"paged", "?limit=2&offset=1", http.StatusOK, []string{"sermon-002", "sermon-003"}},
		{"bad type", "?type=weekly", http.StatusBadRequest, nil},
		{"bad ascii", "?ascii=maybe", http.StatusBadRequest, nil},
		{"bad limit", "?limit=-1", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data struct {
				Sermons []sermon.Sermon `json:"sermons"`
			}
			var v any
			if tt.status == http.StatusOK {
				v = &data
			}
			parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/search"+tt.query, ""), tt.status, v)
			if tt.status != http.StatusOK {
				return
			}
			if len(data.Sermons) != len(tt.wantIDs) {
				t.Fatalf("got %d sermons, want %v", len(data.Sermons), tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if data.Sermons[i].ID != id {
					t.Errorf("sermons[%d] = %s, want %s", i, data.Sermons[i].ID, id)
				}
			}
		})
	}
}

func TestListAndFeastSermons(t *testing.T) {
	env := defaultEnv(t)

	var all struct {
		Total int `json:"total"`
	}
	parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons", ""), http.StatusOK, &all)
	if all.Total != 5 {
		t.Errorf("total = %d, want 5", all.Total)
	}

	var feasts struct {
		Sermons []sermon.Sermon `json:"sermons"`
	}
	parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/feasts", ""), http.StatusOK, &feasts)
	if len(feasts.Sermons) != 3 {
		t.Errorf("got %d feast sermons, want 3", len(feasts.Sermons))
	}
}

func TestGetSermon(t *testing.T) {
	env := defaultEnv(t)

	var data struct {
		Sermon   sermon.Sermon `json:"sermon"`
		Schedule string        `json:"schedule"`
	}
	parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/sermon-005", ""), http.StatusOK, &data)
	if data.Sermon.Title != "Buna Vestire" || data.Schedule != "25 martie" {
		t.Errorf("got %+v", data)
	}

	parseResponse(t, env.do(http.MethodGet, "/api/v1/sermons/sermon-999", ""), http.StatusNotFound, nil)
}

// =============================================================================
// CACHE
// =============================================================================

func TestCacheStatsAndClear(t *testing.T) {
	env := defaultEnv(t)

	env.do(http.MethodGet, "/api/v1/sermons/date/2026-04-12", "")

	var stats cache.Stats
	parseResponse(t, env.do(http.MethodGet, "/api/v1/cache/stats", ""), http.StatusOK, &stats)
	if stats.SermonEntries != 1 || stats.PaschaEntries != 1 {
		t.Errorf("stats = %+v", stats)
	}

	parseResponse(t, env.do(http.MethodDelete, "/api/v1/cache", testAPIKey), http.StatusOK, nil)

	parseResponse(t, env.do(http.MethodGet, "/api/v1/cache/stats", ""), http.StatusOK, &stats)
	if stats.SermonEntries != 0 || stats.PaschaEntries != 0 || stats.OffsetEntries != 0 {
		t.Errorf("stats after clear = %+v", stats)
	}
}
