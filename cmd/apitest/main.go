package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/predici-api/internal/api"
	"github.com/zapponejosh/predici-api/internal/calendar"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

// =============================================================================
// Response Types
// =============================================================================

type healthResponse struct {
	Status      string `json:"status"`
	CatalogSize int    `json:"catalog_size"`
	PaschaTable string `json:"pascha_table"`
}

type feastsResponse struct {
	Year   int                  `json:"year"`
	Feasts []calendar.FeastDate `json:"feasts"`
}

type catalogResponse struct {
	Sermons []sermon.Sermon `json:"sermons"`
	Total   int             `json:"total"`
}

type sermonResponse struct {
	Sermon   sermon.Sermon `json:"sermon"`
	Schedule string        `json:"schedule"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, out io.Writer, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		out:     out,
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Predici API Smoke Test")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testPascha()
	tr.testOffsets()
	tr.testCalendar()
	tr.testSermons()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health healthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (%d sermons, table %s)",
			health.CatalogSize, health.PaschaTable))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testPascha() {
	tr.printSection("Pascha Dates")

	testCases := []struct {
		year     int
		strategy string
		expected string
		source   calendar.Source
	}{
		{2026, "", "2026-04-12", calendar.SourceLookup},
		{2027, "", "2027-05-02", calendar.SourceLookup},
		{2030, "lookup", "2030-04-28", calendar.SourceLookup},
		{2040, "algorithmic", "2040-05-06", calendar.SourceAlgorithmic},
		{2050, "", "2050-04-17", calendar.SourceAlgorithmic},
	}

	for _, tc := range testCases {
		path := fmt.Sprintf("/api/v1/pascha/%d", tc.year)
		if tc.strategy != "" {
			path += "?strategy=" + tc.strategy
		}

		var data api.PaschaResponse
		if err := tr.getData(path, &data); err != nil {
			tr.recordError(path, err.Error())
			continue
		}

		if data.Date.String() == tc.expected && data.Source == tc.source {
			tr.recordSuccess(fmt.Sprintf("%d: %s %s (%s)", tc.year, data.Date, data.DayName, data.Source))
		} else {
			tr.recordError(path, fmt.Sprintf("Expected %s from %s, got %s from %s",
				tc.expected, tc.source, data.Date, data.Source))
		}
	}

	tr.expectStatus("/api/v1/pascha/2050?strategy=lookup", http.StatusNotFound,
		"Uncovered year rejected by lookup strategy")
}

func (tr *TestRunner) testOffsets() {
	tr.printSection("Offsets and Seasons")

	testCases := []struct {
		date   string
		offset int
		season calendar.Season
	}{
		{"2026-02-01", -70, calendar.SeasonTriod},
		{"2026-04-05", -7, calendar.SeasonGreatLent},
		{"2026-04-12", 0, calendar.SeasonBrightWeek},
		{"2026-05-21", 39, calendar.SeasonPaschal},
		{"2026-05-31", 49, calendar.SeasonPaschal},
		{"2026-06-01", 50, calendar.SeasonAfterPentecost},
		{"2026-01-11", -91, calendar.SeasonOrdinary},
	}

	for _, tc := range testCases {
		var data api.OffsetResponse
		if err := tr.getData("/api/v1/offset/"+tc.date, &data); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if data.PaschaOffset == tc.offset && data.Season == tc.season {
			msg := fmt.Sprintf("%s: Paști %+d, %s", tc.date, data.PaschaOffset, data.Season)
			if data.FeastName != "" {
				msg += " - " + data.FeastName
			}
			tr.recordSuccess(msg)
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected %+d/%s, got %+d/%s",
				tc.offset, tc.season, data.PaschaOffset, data.Season))
		}
	}
}

func (tr *TestRunner) testCalendar() {
	tr.printSection("Calendar 2026")

	var feasts feastsResponse
	if err := tr.getData("/api/v1/calendar/2026/feasts", &feasts); err != nil {
		tr.recordError("Feasts", err.Error())
	} else if len(feasts.Feasts) == 63 {
		tr.recordSuccess(fmt.Sprintf("Movable calendar has %d entries", len(feasts.Feasts)))
	} else {
		tr.recordError("Feasts", fmt.Sprintf("Expected 63 entries, got %d", len(feasts.Feasts)))
	}

	resp, err := tr.getRaw("/api/v1/calendar/2026/ics")
	if err != nil {
		tr.recordError("ICS", err.Error())
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	events := strings.Count(string(body), "BEGIN:VEVENT")
	if resp.StatusCode == http.StatusOK && strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar") && events > 0 {
		tr.recordSuccess(fmt.Sprintf("ICS export has %d events", events))
	} else {
		tr.recordError("ICS", fmt.Sprintf("HTTP %d, %d events", resp.StatusCode, events))
	}
}

func (tr *TestRunner) testSermons() {
	tr.printSection("Sermons")

	var today api.DaySermon
	if err := tr.getData("/api/v1/sermons/today", &today); err != nil {
		tr.recordError("Today", err.Error())
	} else if today.Sermon != nil {
		tr.recordSuccess(fmt.Sprintf("Today (%s): %s", today.Date, today.Sermon.Title))
	} else {
		tr.recordSuccess(fmt.Sprintf("Today (%s): no sermon", today.Date))
	}

	var catalog catalogResponse
	if err := tr.getData("/api/v1/sermons", &catalog); err != nil {
		tr.recordError("Catalog", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Catalog lists %d sermons", catalog.Total))

	for _, s := range catalog.Sermons {
		var data sermonResponse
		if err := tr.getData("/api/v1/sermons/"+s.ID, &data); err != nil {
			tr.recordError(s.ID, err.Error())
			continue
		}
		if data.Sermon.ID != s.ID {
			tr.recordError(s.ID, fmt.Sprintf("Got sermon %s", data.Sermon.ID))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", s.ID, s.Title, data.Schedule))
		if tr.verbose {
			tr.printSermonDetail(&data.Sermon)
		}
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tr.expectStatus("/api/v1/sermons/date/invalid", http.StatusBadRequest, "Invalid date format rejected")
	tr.expectStatus("/api/v1/sermons/date/2026-02-30", http.StatusBadRequest, "Impossible date rejected")
	tr.expectStatus("/api/v1/sermons/date/2028-02-29", http.StatusOK, "Leap year date (2028-02-29) handled")
	tr.expectStatus("/api/v1/pascha/0", http.StatusBadRequest, "Year 0 rejected")
	tr.expectStatus("/api/v1/pascha/2026?strategy=guess", http.StatusBadRequest, "Unknown strategy rejected")
	tr.expectStatus("/api/v1/sermons/upcoming?days=0", http.StatusBadRequest, "Upcoming days=0 rejected")
	tr.expectStatus("/api/v1/sermons/search?type=weekly", http.StatusBadRequest, "Unknown sermon type rejected")
	tr.expectStatus("/api/v1/sermons/no-such-sermon", http.StatusNotFound, "Unknown sermon id returns 404")
	tr.expectStatus("/api/v1/nowhere", http.StatusNotFound, "Unknown route returns 404")
}

// =============================================================================
// Helper Methods
// =============================================================================

// getData fetches path and decodes the data field of a successful envelope.
func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *api.ErrorInfo  `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !envelope.Success {
		errMsg := "unknown error"
		if envelope.Error != nil {
			errMsg = envelope.Error.Message
		}
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
	}

	return json.Unmarshal(envelope.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) expectStatus(path string, status int, msg string) {
	resp, err := tr.getRaw(path)
	if err != nil {
		tr.recordError(path, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode == status {
		tr.recordSuccess(msg)
	} else {
		tr.recordError(path, fmt.Sprintf("Expected HTTP %d, got %d", status, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) printSermonDetail(s *sermon.Sermon) {
	fmt.Fprintf(tr.out, "    Category: %s\n", s.Category)
	if s.GospelReading != "" {
		fmt.Fprintf(tr.out, "    Gospel:   %s\n", s.GospelReading)
	}
	fmt.Fprintf(tr.out, "    Audio:    %s\n", s.AudioURL)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)
	fmt.Fprintln(tr.out)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintln(tr.out)
		fmt.Fprintf(tr.out, "Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Fprintln(tr.out, "All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show sermon details)")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, os.Stdout, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
