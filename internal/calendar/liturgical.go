package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// dayNamesRo are the Romanian weekday names, indexed by time.Weekday.
var dayNamesRo = [...]string{"Duminică", "Luni", "Marți", "Miercuri", "Joi", "Vineri", "Sâmbătă"}

// DayNameRo returns the Romanian day of week name (Duminică, Luni, etc.)
func DayNameRo(date CivilDate) string {
	return dayNamesRo[date.Weekday()]
}

// Ordinal returns the ordinal form of a number (1st, 2nd, 3rd, 4th, 11th, 21st, etc.)
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// SundaysIn returns every Sunday of the given month in ascending order.
func SundaysIn(year int, month time.Month) []CivilDate {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month, DaysIn(year, month), 0, 0, 0, 0, time.UTC)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rrule.SU},
		Dtstart:   first,
		Until:     last,
	})
	if err != nil {
		// The option set is static; fall back to a plain scan anyway.
		return scanSundays(first, last)
	}

	occurrences := rule.All()
	sundays := make([]CivilDate, 0, len(occurrences))
	for _, t := range occurrences {
		sundays = append(sundays, DateOf(t))
	}
	return sundays
}

func scanSundays(first, last time.Time) []CivilDate {
	var sundays []CivilDate
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			sundays = append(sundays, DateOf(d))
		}
	}
	return sundays
}
