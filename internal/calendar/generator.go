package calendar

import (
	"fmt"
	"slices"
)

const (
	// firstPentecostSunday is the first "Nth Sunday after Pentecost" that is
	// generated; the 1st is the Sunday of All Saints.
	firstPentecostSunday = 2
	// lastPentecostSunday caps the generated Sundays after Pentecost.
	lastPentecostSunday = 35

	// feastSeparator joins a movable and a fixed feast that share a date.
	feastSeparator = " / "
)

// FeastDate is a movable feast placed on a concrete date.
type FeastDate struct {
	Feast
	Date CivilDate `json:"date"`
}

// Generator builds a year's liturgical calendar from its Pascha date.
type Generator struct {
	resolver Resolver
}

// NewGenerator creates a new calendar generator.
func NewGenerator(resolver Resolver) *Generator {
	return &Generator{resolver: resolver}
}

// Generate places every movable feast of year on its date, followed by the
// Sundays after Pentecost. It returns false when Pascha cannot be resolved.
//
// Sundays after Pentecost stop at the first one that falls in year+1.
func (g *Generator) Generate(year int) ([]FeastDate, bool) {
	pascha, ok := g.resolver.Pascha(year)
	if !ok {
		return nil, false
	}

	out := make([]FeastDate, 0, len(movableFeasts)+lastPentecostSunday)
	for _, f := range movableFeasts {
		out = append(out, FeastDate{Feast: f, Date: pascha.AddDays(f.Offset)})
	}

	for n := firstPentecostSunday; n <= lastPentecostSunday; n++ {
		offset := DaysFromPaschaToPentecost + 7*n
		date := pascha.AddDays(offset)
		if date.Year != year {
			break
		}
		out = append(out, FeastDate{
			Feast: Feast{
				Name:   fmt.Sprintf("%s Sunday after Pentecost", Ordinal(n)),
				NameRo: fmt.Sprintf("Duminica a %d-a după Rusalii", n),
				Offset: offset,
			},
			Date: date,
		})
	}

	return out, true
}

// GenerateComplete merges the movable feasts of year with the fixed feast
// table into a map of YYYY-MM-DD to Romanian feast name. When a fixed and a
// movable feast share a date both names are kept, movable first, joined by " / ".
func (g *Generator) GenerateComplete(year int) (map[string]string, bool) {
	movable, ok := g.Generate(year)
	if !ok {
		return nil, false
	}

	out := make(map[string]string, len(movable)+len(fixedFeasts))
	for _, fd := range movable {
		out[fd.Date.String()] = fd.NameRo
	}

	for _, f := range fixedFeasts {
		key := NewDate(year, f.Month, f.Day).String()
		if existing, ok := out[key]; ok {
			out[key] = existing + feastSeparator + f.NameRo
			continue
		}
		out[key] = f.NameRo
	}

	return out, true
}

// Entry is one dated line of a complete calendar.
type Entry struct {
	Date CivilDate `json:"date"`
	Name string    `json:"name"`
}

// Entries returns GenerateComplete as a slice sorted by date.
func (g *Generator) Entries(year int) ([]Entry, bool) {
	complete, ok := g.GenerateComplete(year)
	if !ok {
		return nil, false
	}

	out := make([]Entry, 0, len(complete))
	for key, name := range complete {
		d, err := ParseDate(key)
		if err != nil {
			continue
		}
		out = append(out, Entry{Date: d, Name: name})
	}
	slices.SortFunc(out, func(a, b Entry) int { return a.Date.Compare(b.Date) })
	return out, true
}

// FeastName returns the Romanian feast name for date, or "" when the date
// is not a feast (or its year cannot be resolved).
func (g *Generator) FeastName(date CivilDate) string {
	complete, ok := g.GenerateComplete(date.Year)
	if !ok {
		if f, ok := FixedFeastOn(date); ok {
			return f.NameRo
		}
		return ""
	}
	return complete[date.String()]
}

// IsMajorFeast reports whether date is one of the great feasts.
func (g *Generator) IsMajorFeast(date CivilDate) bool {
	if f, ok := FixedFeastOn(date); ok && f.Major {
		return true
	}

	pascha, ok := g.resolver.Pascha(date.Year)
	if !ok {
		return false
	}
	f, ok := MovableFeastAt(Offset(date, pascha))
	return ok && f.Major
}
