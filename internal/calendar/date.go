package calendar

import (
	"fmt"
	"time"
)

// isoLayout is the YYYY-MM-DD layout used for every date key in the API.
const isoLayout = "2006-01-02"

// CivilDate is a calendar day with no time-of-day and no location.
//
// All comparisons, day differences and cache keys go through CivilDate so
// that two instants on the same calendar day always produce the same value.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the CivilDate for year/month/day, normalizing overflow
// the way time.Date does (e.g. April 31 becomes May 1).
func NewDate(year int, month time.Month, day int) CivilDate {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf strips the time-of-day from t, keeping the calendar day as seen in
// t's own location.
func DateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (CivilDate, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as YYYY-MM-DD.
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero value.
func (d CivilDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight of d in loc. A nil loc means UTC.
func (d CivilDate) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days after d (n may be negative).
func (d CivilDate) AddDays(n int) CivilDate {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// DaysSince returns the number of whole days from other to d.
// Both sides are taken at UTC midnight, so daylight-saving transitions
// never produce fractional days.
func (d CivilDate) DaysSince(other CivilDate) int {
	hours := d.Time(time.UTC).Sub(other.Time(time.UTC)).Hours()
	if hours < 0 {
		return -int(-hours/24 + 0.5)
	}
	return int(hours/24 + 0.5)
}

// Weekday returns the day of the week for d.
func (d CivilDate) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Before reports whether d is strictly before other.
func (d CivilDate) Before(other CivilDate) bool {
	return d.Compare(other) < 0
}

// After reports whether d is strictly after other.
func (d CivilDate) After(other CivilDate) bool {
	return d.Compare(other) > 0
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to,
// or after other.
func (d CivilDate) Compare(other CivilDate) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

// MonthDayKey returns the "month-day" key used by the fixed feast table,
// e.g. "1-6" for January 6.
func (d CivilDate) MonthDayKey() string {
	return fmt.Sprintf("%d-%d", int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler (YYYY-MM-DD).
func (d CivilDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (YYYY-MM-DD).
func (d *CivilDate) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
