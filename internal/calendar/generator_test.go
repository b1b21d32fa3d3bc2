package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
)

func TestOffset_TableYears(t *testing.T) {
	lookup := DefaultLookup()
	calc := NewOffsetCalculator(lookup)

	for _, year := range lookup.AvailableYears() {
		pascha, _ := lookup.Pascha(year)

		tests := []struct {
			name string
			date CivilDate
			want int
		}{
			{"pascha", pascha, 0},
			{"palm sunday", PalmSunday(pascha), -7},
			{"ascension", Ascension(pascha), 39},
			{"pentecost", Pentecost(pascha), 49},
		}

		for _, tt := range tests {
			got, ok := calc.OffsetOf(tt.date)
			if !ok {
				t.Fatalf("%d %s: OffsetOf(%s) not resolved", year, tt.name, tt.date)
			}
			if got != tt.want {
				t.Errorf("%d %s: OffsetOf(%s) = %d, want %d", year, tt.name, tt.date, got, tt.want)
			}
		}

		if off, _ := calc.OffsetOf(pascha.AddDays(-1)); off >= 0 {
			t.Errorf("%d: day before Pascha offset = %d, want negative", year, off)
		}
		if off, _ := calc.OffsetOf(pascha.AddDays(1)); off <= 0 {
			t.Errorf("%d: day after Pascha offset = %d, want positive", year, off)
		}
	}
}

func TestOffset_IgnoresTimeOfDay(t *testing.T) {
	calc := NewOffsetCalculator(DefaultLookup())
	bucharest, err := time.LoadLocation("Europe/Bucharest")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 2026-03-29 is the spring DST change in Romania; Pascha is 2026-04-12.
	tests := []struct {
		when time.Time
		want int
	}{
		{time.Date(2026, time.March, 29, 23, 59, 0, 0, bucharest), -14},
		{time.Date(2026, time.March, 29, 0, 1, 0, 0, bucharest), -14},
		{time.Date(2026, time.April, 12, 23, 30, 0, 0, bucharest), 0},
		{time.Date(2026, time.May, 31, 6, 0, 0, 0, bucharest), 49},
	}

	for _, tt := range tests {
		got, ok := calc.OffsetOfTime(tt.when)
		if !ok || got != tt.want {
			t.Errorf("OffsetOfTime(%s) = %d, %v; want %d", tt.when, got, ok, tt.want)
		}
	}
}

func TestOffset_OutsideTable(t *testing.T) {
	calc := NewOffsetCalculator(DefaultLookup())
	if _, ok := calc.OffsetOf(NewDate(2019, time.April, 28)); ok {
		t.Error("OffsetOf(2019) ok = true with lookup-only resolver")
	}
}

func TestGenerate_2026(t *testing.T) {
	g := NewGenerator(DefaultLookup())

	feasts, ok := g.Generate(2026)
	if !ok {
		t.Fatal("Generate(2026) not resolved")
	}

	// 34 movable feasts plus the 2nd..30th Sundays after Pentecost.
	if len(feasts) != 63 {
		t.Errorf("len(Generate(2026)) = %d, want 63", len(feasts))
	}

	byName := make(map[string]CivilDate)
	for _, f := range feasts {
		byName[f.NameRo] = f.Date
		if f.Date.Year != 2026 {
			t.Errorf("%s dated %s outside 2026", f.Name, f.Date)
		}
	}

	want := map[string]string{
		"PAȘTELE - Învierea Domnului":         "2026-04-12",
		"Duminica Floriilor":                  "2026-04-05",
		"Începutul Postului Mare":             "2026-02-23",
		"RUSALIILE - Pogorârea Sfântului Duh": "2026-05-31",
		"Duminica Vameșului și a Fariseului":  "2026-02-01",
		"Duminica a 2-a după Rusalii":         "2026-06-14",
		"Duminica a 30-a după Rusalii":        "2026-12-27",
	}
	for name, date := range want {
		if got := byName[name]; got.String() != date {
			t.Errorf("%s = %s, want %s", name, got, date)
		}
	}

	if _, ok := byName["Duminica a 31-a după Rusalii"]; ok {
		t.Error("31st Sunday after Pentecost falls in 2027 and must not be generated")
	}

	last := feasts[len(feasts)-1]
	if last.Name != "30th Sunday after Pentecost" || last.Offset != 49+7*30 {
		t.Errorf("last entry = %+v", last)
	}
}

func TestGenerate_Unresolvable(t *testing.T) {
	g := NewGenerator(DefaultLookup())
	if _, ok := g.Generate(2010); ok {
		t.Error("Generate(2010) ok = true with lookup-only resolver")
	}
	if _, ok := g.GenerateComplete(2010); ok {
		t.Error("GenerateComplete(2010) ok = true with lookup-only resolver")
	}
}

func TestGenerateComplete_MergesSharedDates(t *testing.T) {
	g := NewGenerator(DefaultLookup())

	complete, ok := g.GenerateComplete(2026)
	if !ok {
		t.Fatal("GenerateComplete(2026) not resolved")
	}

	tests := []struct {
		date string
		want string
	}{
		{"2026-05-21", "Înălțarea Domnului / Sfinții Constantin și Elena"},
		{"2026-12-27", "Duminica a 30-a după Rusalii / Sfântul Ștefan"},
		{"2026-01-06", "Bobotează - Botezul Domnului"},
		{"2026-12-25", "Nașterea Domnului - Crăciunul"},
		{"2026-04-12", "PAȘTELE - Învierea Domnului"},
	}
	for _, tt := range tests {
		if got := complete[tt.date]; got != tt.want {
			t.Errorf("complete[%s] = %q, want %q", tt.date, got, tt.want)
		}
	}

	// 63 movable dates + 24 fixed dates - 4 shared dates.
	if len(complete) != 83 {
		t.Errorf("len(GenerateComplete(2026)) = %d, want 83", len(complete))
	}

	entries, _ := g.Entries(2026)
	if len(entries) != len(complete) {
		t.Fatalf("len(Entries) = %d, want %d", len(entries), len(complete))
	}
	for i := 1; i < len(entries); i++ {
		if !entries[i-1].Date.Before(entries[i].Date) {
			t.Fatalf("Entries not sorted at %d", i)
		}
	}
}

func TestFeastName(t *testing.T) {
	g := NewGenerator(DefaultLookup())

	tests := []struct {
		date CivilDate
		want string
	}{
		{NewDate(2026, time.April, 5), "Duminica Floriilor"},
		{NewDate(2026, time.December, 6), "Duminica a 27-a după Rusalii / Sfântul Nicolae"},
		{NewDate(2026, time.October, 13), ""},
		// Outside the table only fixed feasts are known.
		{NewDate(2050, time.August, 15), "Adormirea Maicii Domnului"},
		{NewDate(2050, time.August, 16), ""},
	}

	for _, tt := range tests {
		if got := g.FeastName(tt.date); got != tt.want {
			t.Errorf("FeastName(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestIsMajorFeast(t *testing.T) {
	g := NewGenerator(DefaultLookup())

	tests := []struct {
		date CivilDate
		want bool
	}{
		{NewDate(2026, time.April, 12), true},    // Pascha
		{NewDate(2026, time.May, 21), true},      // Ascension
		{NewDate(2026, time.May, 31), true},      // Pentecost
		{NewDate(2026, time.December, 25), true}, // Nativity
		{NewDate(2026, time.April, 5), false},    // Palm Sunday
		{NewDate(2026, time.December, 6), false}, // St. Nicholas
		{NewDate(2026, time.October, 13), false},
	}

	for _, tt := range tests {
		if got := g.IsMajorFeast(tt.date); got != tt.want {
			t.Errorf("IsMajorFeast(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		offset int
		want   Season
	}{
		{-71, SeasonOrdinary},
		{-70, SeasonTriod},
		{-49, SeasonTriod},
		{-48, SeasonGreatLent},
		{-1, SeasonGreatLent},
		{0, SeasonBrightWeek},
		{7, SeasonBrightWeek},
		{8, SeasonPaschal},
		{49, SeasonPaschal},
		{50, SeasonAfterPentecost},
		{250, SeasonAfterPentecost},
	}

	for _, tt := range tests {
		if got := SeasonFor(tt.offset); got != tt.want {
			t.Errorf("SeasonFor(%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestSundaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  []string
	}{
		{2026, time.April, []string{"2026-04-05", "2026-04-12", "2026-04-19", "2026-04-26"}},
		{2026, time.May, []string{"2026-05-03", "2026-05-10", "2026-05-17", "2026-05-24", "2026-05-31"}},
		{2026, time.February, []string{"2026-02-01", "2026-02-08", "2026-02-15", "2026-02-22"}},
	}

	for _, tt := range tests {
		got := SundaysIn(tt.year, tt.month)
		if len(got) != len(tt.want) {
			t.Errorf("SundaysIn(%d, %s) = %v, want %v", tt.year, tt.month, got, tt.want)
			continue
		}
		for i := range got {
			if got[i].String() != tt.want[i] {
				t.Errorf("SundaysIn(%d, %s)[%d] = %s, want %s", tt.year, tt.month, i, got[i], tt.want[i])
			}
		}
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 33: "33rd"}
	for n, want := range tests {
		if got := Ordinal(n); got != want {
			t.Errorf("Ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestWriteICS(t *testing.T) {
	g := NewGenerator(DefaultLookup())
	entries, ok := g.Entries(2026)
	if !ok {
		t.Fatal("Entries(2026) not resolved")
	}

	var buf bytes.Buffer
	stamp := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if err := WriteICS(&buf, 2026, entries, stamp); err != nil {
		t.Fatalf("WriteICS() error = %v", err)
	}

	if !strings.Contains(buf.String(), "BEGIN:VCALENDAR") {
		t.Fatal("output is not an iCalendar document")
	}

	cal, err := ical.ParseCalendar(&buf)
	if err != nil {
		t.Fatalf("ParseCalendar() error = %v", err)
	}

	events := cal.Events()
	if len(events) != len(entries) {
		t.Errorf("event count = %d, want %d", len(events), len(entries))
	}

	uid := events[0].GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value != entries[0].Date.String()+"@predici-api" {
		t.Errorf("first UID = %v, want %s@predici-api", uid, entries[0].Date)
	}
}

func TestCivilDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.AddDays(1).String(); got != "2026-03-01" {
		t.Errorf("AddDays(1) = %s, want 2026-03-01", got)
	}
	if got := NewDate(2026, time.March, 1).DaysSince(d); got != 1 {
		t.Errorf("DaysSince = %d, want 1", got)
	}
	if got := d.DaysSince(NewDate(2026, time.March, 1)); got != -1 {
		t.Errorf("DaysSince = %d, want -1", got)
	}
	if d.MonthDayKey() != "2-28" {
		t.Errorf("MonthDayKey() = %q, want 2-28", d.MonthDayKey())
	}
	if DaysIn(2028, time.February) != 29 {
		t.Error("DaysIn(2028, February) != 29")
	}
	if _, err := ParseDate("2026-13-01"); err == nil {
		t.Error("ParseDate(2026-13-01) error = nil")
	}

	text, _ := d.MarshalText()
	var back CivilDate
	if err := back.UnmarshalText(text); err != nil || back != d {
		t.Errorf("text round trip = %v, %v", back, err)
	}
}
