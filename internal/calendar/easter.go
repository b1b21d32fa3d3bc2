// Package calendar provides Orthodox liturgical calendar calculations.
package calendar

import "time"

// Liturgical calendar constants
const (
	// JulianToGregorianDays converts a Julian calendar date to the civil
	// (Gregorian) date used by the New Calendar churches. The 13 day
	// difference holds for 1900 through 2099.
	JulianToGregorianDays = 13

	// DaysFromPaschaToPalmSunday is the number of days before Pascha that Palm Sunday falls.
	DaysFromPaschaToPalmSunday = 7

	// DaysFromPaschaToAscension is the number of days after Pascha for the Ascension.
	DaysFromPaschaToAscension = 39

	// DaysFromPaschaToPentecost is the number of days after Pascha for Pentecost (Rusalii).
	DaysFromPaschaToPentecost = 49
)

// PaschaDate is the civil date of Pascha in a given year.
type PaschaDate = CivilDate

// Resolver resolves the Pascha date for a Gregorian year.
//
// The boolean result is false when the resolver has no answer for the year.
// That is "outside coverage", never "no Pascha that year".
type Resolver interface {
	Pascha(year int) (PaschaDate, bool)
}

// ComputePascha calculates the Orthodox Pascha for a given year using the
// Meeus algorithm for the Julian calendar, then shifts the result by 13 days
// to the civil (Gregorian) calendar.
//
// The result is deterministic for any year. It may disagree with official
// declarations outside the verified lookup table; callers that care should
// prefer a Lookup and treat this as a fallback.
func ComputePascha(year int) PaschaDate {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	month := (d + e + 114) / 31
	day := ((d + e + 114) % 31) + 1

	julian := NewDate(year, time.Month(month), day)
	return julian.AddDays(JulianToGregorianDays)
}

// Algorithmic is the Resolver backed by ComputePascha. It answers for every year.
type Algorithmic struct{}

// Pascha implements Resolver.
func (Algorithmic) Pascha(year int) (PaschaDate, bool) {
	return ComputePascha(year), true
}

// PalmSunday returns Palm Sunday for the given Pascha date.
func PalmSunday(pascha PaschaDate) CivilDate {
	return pascha.AddDays(-DaysFromPaschaToPalmSunday)
}

// Ascension returns the Ascension of the Lord for the given Pascha date.
func Ascension(pascha PaschaDate) CivilDate {
	return pascha.AddDays(DaysFromPaschaToAscension)
}

// Pentecost returns Pentecost Sunday for the given Pascha date.
func Pentecost(pascha PaschaDate) CivilDate {
	return pascha.AddDays(DaysFromPaschaToPentecost)
}
