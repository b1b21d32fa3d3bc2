package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/predici-api/internal/cache"
	"github.com/zapponejosh/predici-api/internal/calendar"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func bucharest(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Bucharest")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	return loc
}

func testPlanner(t *testing.T, loc *time.Location) (*Planner, *cache.Cache[sermon.Sermon]) {
	t.Helper()

	resolver := calendar.NewChain(calendar.DefaultLookup(), quietLogger())
	c := cache.New[sermon.Sermon](resolver, cache.WithLogger(quietLogger()))
	catalog := []sermon.Sermon{
		{
			ID:           "sermon-001",
			Title:        "Învierea Domnului",
			Category:     sermon.CategoryFeast,
			AudioURL:     "https://example.com/audio/invierea.mp3",
			Type:         sermon.TypeMovable,
			PaschaOffset: sermon.Int(0),
		},
	}
	m := sermon.NewMatcher(catalog, c, quietLogger())
	return NewPlanner(calendar.NewGenerator(resolver), m, loc), c
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		feast string
		want  string
	}{
		{"PAȘTELE - Învierea Domnului", "Hristos a Înviat!"},
		{"Lunea Luminată", "Hristos a Înviat!"},
		{"Duminica Mironosițelor", "Hristos a Înviat!"},
		{"Nașterea Domnului - Crăciunul", "Hristos Se naște!"},
		{"Bobotează - Botezul Domnului", "Bine ai venit la rugăciune!"},
		{"RUSALIILE - Pogorârea Sfântului Duh", "Duhul Sfânt să vă lumineze!"},
		{"Duminica a 3-a după Rusalii", "Duhul Sfânt să vă lumineze!"},
		{"Schimbarea la Față", "Duminică binecuvântată!"},
		{"", "Duminică binecuvântată!"},
	}

	for _, tt := range tests {
		if got := Greeting(tt.feast); got != tt.want {
			t.Errorf("Greeting(%q) = %q, want %q", tt.feast, got, tt.want)
		}
	}
}

func TestPlanFor(t *testing.T) {
	p, _ := testPlanner(t, time.UTC)

	tests := []struct {
		name      string
		date      calendar.CivilDate
		wantOK    bool
		wantTitle string
		wantFeast string
		wantSun   bool
	}{
		{
			name:      "pascha",
			date:      calendar.NewDate(2026, time.April, 12),
			wantOK:    true,
			wantTitle: "Hristos a Înviat! - PAȘTELE - Învierea Domnului",
			wantFeast: "PAȘTELE - Învierea Domnului",
			wantSun:   true,
		},
		{
			name:      "thomas sunday",
			date:      calendar.NewDate(2026, time.April, 19),
			wantOK:    true,
			wantTitle: "Hristos a Înviat! - Duminica Tomii",
			wantFeast: "Duminica Tomii",
			wantSun:   true,
		},
		{
			name:      "numbered sunday keeps plain greeting",
			date:      calendar.NewDate(2026, time.June, 14),
			wantOK:    true,
			wantTitle: "Duhul Sfânt să vă lumineze!",
			wantFeast: "Duminica a 2-a după Rusalii",
			wantSun:   true,
		},
		{
			name:      "ordinary sunday",
			date:      calendar.NewDate(2026, time.January, 11),
			wantOK:    true,
			wantTitle: "Duminică binecuvântată!",
			wantFeast: "Duminică",
			wantSun:   true,
		},
		{
			name:      "weekday major feast",
			date:      calendar.NewDate(2026, time.August, 6),
			wantOK:    true,
			wantTitle: "Duminică binecuvântată! - Schimbarea la Față",
			wantFeast: "Schimbarea la Față",
		},
		{
			name:      "christmas",
			date:      calendar.NewDate(2026, time.December, 25),
			wantOK:    true,
			wantTitle: "Hristos Se naște! - Nașterea Domnului - Crăciunul",
			wantFeast: "Nașterea Domnului - Crăciunul",
		},
		{
			name: "plain weekday",
			date: calendar.NewDate(2026, time.August, 4),
		},
		{
			name: "minor weekday feast",
			date: calendar.NewDate(2026, time.April, 23),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := p.PlanFor(tt.date)
			if ok != tt.wantOK {
				t.Fatalf("PlanFor(%s) ok = %v, want %v", tt.date, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if r.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", r.Title, tt.wantTitle)
			}
			if r.FeastName != tt.wantFeast {
				t.Errorf("FeastName = %q, want %q", r.FeastName, tt.wantFeast)
			}
			if r.Sunday != tt.wantSun {
				t.Errorf("Sunday = %v, want %v", r.Sunday, tt.wantSun)
			}
		})
	}
}

func TestPlanFor_AttachesSermon(t *testing.T) {
	p, _ := testPlanner(t, time.UTC)

	r, ok := p.PlanFor(calendar.NewDate(2026, time.April, 12))
	if !ok {
		t.Fatal("PlanFor(pascha) ok = false")
	}
	if r.Sermon == nil || r.Sermon.ID != "sermon-001" {
		t.Fatalf("Sermon = %+v, want sermon-001", r.Sermon)
	}
	if r.Body != DefaultBody+": Învierea Domnului" {
		t.Errorf("Body = %q", r.Body)
	}

	r, _ = p.PlanFor(calendar.NewDate(2026, time.April, 19))
	if r.Sermon != nil || r.Body != DefaultBody {
		t.Errorf("unmatched day: Sermon = %+v, Body = %q", r.Sermon, r.Body)
	}
}

func TestPlan_UsesPlannerTimeZone(t *testing.T) {
	loc := bucharest(t)

	// 22:30 UTC on Saturday is already Sunday 01:30 in Bucharest.
	now := time.Date(2026, time.April, 11, 22, 30, 0, 0, time.UTC)

	utc, _ := testPlanner(t, time.UTC)
	r, ok := utc.Plan(now)
	if !ok || r.Date != calendar.NewDate(2026, time.April, 12) {
		t.Fatalf("UTC Plan() = %+v, %v; want pascha", r, ok)
	}

	local, _ := testPlanner(t, loc)
	if r, ok := local.Plan(now); ok {
		t.Errorf("Bucharest Plan() = %+v, want no reminder for Bright Monday", r)
	}

	r, ok = local.Plan(time.Date(2026, time.April, 11, 19, 0, 0, 0, loc))
	if !ok {
		t.Fatal("Bucharest Plan() on Saturday evening ok = false")
	}
	want := time.Date(2026, time.April, 12, 8, 0, 0, 0, loc)
	if !r.At.Equal(want) {
		t.Errorf("At = %s, want %s", r.At, want)
	}
}

type countingCleaner struct{ calls int }

func (c *countingCleaner) CleanupStale() int {
	c.calls++
	return 0
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, Reminder) error {
	return errors.New("push service down")
}

func TestScheduler_Tick(t *testing.T) {
	p, _ := testPlanner(t, time.UTC)
	rec := &Recorder{}
	cleaner := &countingCleaner{}

	s, err := NewScheduler("0 19 * * *", time.UTC, p, rec, cleaner, quietLogger())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	s.now = func() time.Time { return time.Date(2026, time.April, 11, 19, 0, 0, 0, time.UTC) }
	if r := s.Tick(context.Background()); r == nil || r.Date != calendar.NewDate(2026, time.April, 12) {
		t.Fatalf("Tick() on Saturday = %+v, want pascha reminder", r)
	}

	s.now = func() time.Time { return time.Date(2026, time.August, 3, 19, 0, 0, 0, time.UTC) }
	if r := s.Tick(context.Background()); r != nil {
		t.Errorf("Tick() on Monday = %+v, want nil", r)
	}

	if got := len(rec.Reminders()); got != 1 {
		t.Errorf("recorded %d reminders, want 1", got)
	}
	if cleaner.calls != 2 {
		t.Errorf("cleanup ran %d times, want 2", cleaner.calls)
	}
}

func TestScheduler_NotifyFailure(t *testing.T) {
	p, _ := testPlanner(t, time.UTC)
	cleaner := &countingCleaner{}

	s, err := NewScheduler("0 19 * * *", time.UTC, p, failingNotifier{}, cleaner, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.Date(2026, time.April, 11, 19, 0, 0, 0, time.UTC) }

	if r := s.Tick(context.Background()); r != nil {
		t.Errorf("Tick() with failing notifier = %+v, want nil", r)
	}
	if cleaner.calls != 1 {
		t.Errorf("cleanup ran %d times, want 1", cleaner.calls)
	}
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	p, _ := testPlanner(t, time.UTC)

	if _, err := NewScheduler("every evening", time.UTC, p, &Recorder{}, nil, quietLogger()); err == nil {
		t.Error("NewScheduler(invalid spec) error = nil")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	p, _ := testPlanner(t, time.UTC)

	s, err := NewScheduler("0 19 * * *", time.UTC, p, &Recorder{}, nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	err := n.Notify(context.Background(), Reminder{
		Date:   calendar.NewDate(2026, time.April, 12),
		Title:  "Hristos a Înviat!",
		Body:   DefaultBody,
		Sermon: &sermon.Sermon{ID: "sermon-001"},
	})
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"sermon reminder", "date=2026-04-12", "sermon_id=sermon-001"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
