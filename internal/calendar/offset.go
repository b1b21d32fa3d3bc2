package calendar

import "time"

// Offset returns the signed number of days from pascha to date.
// Zero is Pascha itself, negative values fall before it.
func Offset(date, pascha CivilDate) int {
	return date.DaysSince(pascha)
}

// OffsetCalculator computes Pascha offsets against a Resolver.
type OffsetCalculator struct {
	resolver Resolver
}

// NewOffsetCalculator creates a new offset calculator.
func NewOffsetCalculator(resolver Resolver) *OffsetCalculator {
	return &OffsetCalculator{resolver: resolver}
}

// OffsetOf returns the offset of date from Pascha of the same year.
// It returns false when the resolver cannot answer for that year.
func (c *OffsetCalculator) OffsetOf(date CivilDate) (int, bool) {
	pascha, ok := c.resolver.Pascha(date.Year)
	if !ok {
		return 0, false
	}
	return Offset(date, pascha), true
}

// OffsetOfTime is OffsetOf for an instant, taking its calendar day in t's location.
func (c *OffsetCalculator) OffsetOfTime(t time.Time) (int, bool) {
	return c.OffsetOf(DateOf(t))
}
