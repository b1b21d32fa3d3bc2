package sermon

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/zapponejosh/predici-api/internal/cache"
	"github.com/zapponejosh/predici-api/internal/calendar"
)

// MatchType tells which rule selected a sermon for a date.
type MatchType string

const (
	MatchFixedDate    MatchType = "fixed_date"
	MatchPaschaOffset MatchType = "pascha_offset"
	MatchUnknown      MatchType = "unknown"
)

// DatedMatch is a sermon placed on a calendar date.
type DatedMatch struct {
	Date      calendar.CivilDate `json:"date"`
	Sermon    *Sermon            `json:"sermon"`
	MatchType MatchType          `json:"match_type"`
}

// SundayMatch is a Sunday and its sermon, which may be nil.
type SundayMatch struct {
	Date   calendar.CivilDate `json:"date"`
	Sermon *Sermon            `json:"sermon"`
}

// PotentialMatch is a catalog entry that qualifies for a date, whether or
// not it won.
type PotentialMatch struct {
	Sermon *Sermon `json:"sermon"`
	Reason string  `json:"reason"`
}

// MatchInfo explains how a date was matched.
type MatchInfo struct {
	Date         calendar.CivilDate `json:"date"`
	PaschaOffset *int               `json:"pascha_offset"`
	Month        int                `json:"month"`
	Day          int                `json:"day"`
	Season       calendar.Season    `json:"season,omitempty"`
	Sermon       *Sermon            `json:"sermon"`
	Potential    []PotentialMatch   `json:"potential_matches"`
}

// Matcher resolves calendar dates to catalog sermons.
//
// Precedence is fixed: the first sermon in catalog order whose month and day
// equal the date's, otherwise the first whose Pascha offset equals the
// date's offset, otherwise no match. Malformed entries never match.
// Results, including "no match", are stored in the cache.
//
// Returned sermons point into the matcher's own copy of the catalog and must
// not be modified.
type Matcher struct {
	catalog []Sermon
	cache   *cache.Cache[Sermon]
	logger  *slog.Logger
}

// NewMatcher creates a matcher over a copy of catalog.
func NewMatcher(catalog []Sermon, c *cache.Cache[Sermon], logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Matcher{
		catalog: slices.Clone(catalog),
		cache:   c,
		logger:  logger,
	}

	if skipped := m.malformed(); len(skipped) > 0 {
		logger.Warn("catalog contains malformed sermons, they will never match",
			slog.Int("count", len(skipped)),
			slog.Any("ids", skipped),
		)
	}
	return m
}

func (m *Matcher) malformed() []string {
	var ids []string
	for i := range m.catalog {
		s := &m.catalog[i]
		switch s.Type {
		case TypeFixed:
			if s.FixedMonth == nil || s.FixedDay == nil {
				ids = append(ids, s.ID)
			}
		case TypeMovable:
			if s.PaschaOffset == nil {
				ids = append(ids, s.ID)
			}
		default:
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Len returns the number of catalog entries.
func (m *Matcher) Len() int {
	return len(m.catalog)
}

// Catalog returns a copy of the catalog in its original order.
func (m *Matcher) Catalog() []Sermon {
	return slices.Clone(m.catalog)
}

// Find returns the sermon with the given id.
func (m *Matcher) Find(id string) (*Sermon, bool) {
	for i := range m.catalog {
		if m.catalog[i].ID == id {
			return &m.catalog[i], true
		}
	}
	return nil, false
}

// Cache returns the cache backing the matcher.
func (m *Matcher) Cache() *cache.Cache[Sermon] {
	return m.cache
}

// Match returns the sermon for date, or nil when none applies.
func (m *Matcher) Match(date calendar.CivilDate) *Sermon {
	if s, cached := m.cache.Sermon(date); cached {
		return s
	}

	s := m.match(date)
	m.cache.SetSermon(date, s)
	return s
}

func (m *Matcher) match(date calendar.CivilDate) *Sermon {
	for i := range m.catalog {
		if m.catalog[i].matchesFixed(date.Month, date.Day) {
			return &m.catalog[i]
		}
	}

	offset, ok := m.cache.Offset(date)
	if !ok {
		return nil
	}
	for i := range m.catalog {
		if m.catalog[i].matchesOffset(offset) {
			return &m.catalog[i]
		}
	}
	return nil
}

// matchType classifies why s was chosen for date.
func (m *Matcher) matchType(date calendar.CivilDate, s *Sermon) MatchType {
	if s.matchesFixed(date.Month, date.Day) {
		return MatchFixedDate
	}
	if offset, ok := m.cache.Offset(date); ok && s.matchesOffset(offset) {
		return MatchPaschaOffset
	}
	return MatchUnknown
}

// MatchDated is Match with the match type attached. ok is false when no
// sermon applies.
func (m *Matcher) MatchDated(date calendar.CivilDate) (DatedMatch, bool) {
	s := m.Match(date)
	if s == nil {
		return DatedMatch{}, false
	}
	return DatedMatch{Date: date, Sermon: s, MatchType: m.matchType(date, s)}, true
}

// ForMonth returns every day of the month that has a sermon, in date order.
func (m *Matcher) ForMonth(year int, month time.Month) []DatedMatch {
	var out []DatedMatch
	for day := 1; day <= calendar.DaysIn(year, month); day++ {
		if dm, ok := m.MatchDated(calendar.NewDate(year, month, day)); ok {
			out = append(out, dm)
		}
	}
	return out
}

// SundaysForMonth returns every Sunday of the month with its sermon, if any.
func (m *Matcher) SundaysForMonth(year int, month time.Month) []SundayMatch {
	sundays := calendar.SundaysIn(year, month)
	out := make([]SundayMatch, 0, len(sundays))
	for _, d := range sundays {
		out = append(out, SundayMatch{Date: d, Sermon: m.Match(d)})
	}
	return out
}

// Upcoming returns the sermons of the days days starting at from.
func (m *Matcher) Upcoming(from calendar.CivilDate, days int) []DatedMatch {
	var out []DatedMatch
	for i := 0; i < days; i++ {
		if dm, ok := m.MatchDated(from.AddDays(i)); ok {
			out = append(out, dm)
		}
	}
	return out
}

// MajorFeastSermons returns the feast-day sermons in catalog order.
func (m *Matcher) MajorFeastSermons() []Sermon {
	var out []Sermon
	for _, s := range m.catalog {
		if s.Category == CategoryFeast {
			out = append(out, s)
		}
	}
	return out
}

// Season classifies date. It returns false when Pascha of date's year is
// unknown.
func (m *Matcher) Season(date calendar.CivilDate) (calendar.Season, bool) {
	offset, ok := m.cache.Offset(date)
	if !ok {
		return "", false
	}
	return calendar.SeasonFor(offset), true
}

// Info reports the winning sermon for date together with every catalog
// entry that qualifies.
func (m *Matcher) Info(date calendar.CivilDate) MatchInfo {
	info := MatchInfo{
		Date:      date,
		Month:     int(date.Month),
		Day:       date.Day,
		Sermon:    m.Match(date),
		Potential: []PotentialMatch{},
	}

	offset, hasOffset := m.cache.Offset(date)
	if hasOffset {
		info.PaschaOffset = &offset
		info.Season = calendar.SeasonFor(offset)
	}

	for i := range m.catalog {
		s := &m.catalog[i]
		if s.matchesFixed(date.Month, date.Day) {
			info.Potential = append(info.Potential, PotentialMatch{
				Sermon: s,
				Reason: fmt.Sprintf("fixed date %d/%d", info.Month, info.Day),
			})
		}
		if hasOffset && s.matchesOffset(offset) {
			info.Potential = append(info.Potential, PotentialMatch{
				Sermon: s,
				Reason: fmt.Sprintf("pascha offset %d", offset),
			})
		}
	}
	return info
}
