package calendar

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"sync"
)

//go:embed data/orthodox-easter-dates.json
var embeddedPaschaTable []byte

// PaschaTable is the on-disk shape of the verified Pascha dates resource.
type PaschaTable struct {
	Source      string            `json:"source"`
	Description string            `json:"description"`
	LastUpdated string            `json:"lastUpdated"`
	Dates       map[string]string `json:"dates"` // year -> YYYY-MM-DD
}

// TableInfo describes where a lookup table came from.
type TableInfo struct {
	Source      string `json:"source"`
	Description string `json:"description"`
	LastUpdated string `json:"last_updated"`
}

// Lookup is the Resolver backed by a verified table of Pascha dates.
// It is immutable after construction and safe for concurrent use.
type Lookup struct {
	info  TableInfo
	dates map[int]CivilDate
	years []int
}

// NewLookup validates a PaschaTable and builds a Lookup from it.
// Every key must be a year and every value a YYYY-MM-DD date in that year.
func NewLookup(table PaschaTable) (*Lookup, error) {
	var errs []error

	l := &Lookup{
		info: TableInfo{
			Source:      table.Source,
			Description: table.Description,
			LastUpdated: table.LastUpdated,
		},
		dates: make(map[int]CivilDate, len(table.Dates)),
	}

	for key, value := range table.Dates {
		year, err := strconv.Atoi(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("year key %q: %w", key, err))
			continue
		}

		date, err := ParseDate(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("year %d: %w", year, err))
			continue
		}

		if date.Year != year {
			errs = append(errs, fmt.Errorf("year %d: date %s belongs to another year", year, date))
			continue
		}
		if _, dup := l.dates[year]; dup {
			errs = append(errs, fmt.Errorf("year %d: listed more than once", year))
			continue
		}

		l.dates[year] = date
		l.years = append(l.years, year)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slices.Sort(l.years)
	return l, nil
}

// ParsePaschaTable decodes a JSON Pascha table.
func ParsePaschaTable(data []byte) (*Lookup, error) {
	var table PaschaTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode pascha table: %w", err)
	}
	return NewLookup(table)
}

// LoadPaschaTable reads a JSON Pascha table from path.
func LoadPaschaTable(path string) (*Lookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pascha table: %w", err)
	}
	return ParsePaschaTable(data)
}

var defaultLookup = sync.OnceValue(func() *Lookup {
	l, err := ParsePaschaTable(embeddedPaschaTable)
	if err != nil {
		panic(fmt.Sprintf("calendar: embedded pascha table is invalid: %v", err))
	}
	return l
})

// DefaultLookup returns the Lookup built from the bundled table.
func DefaultLookup() *Lookup {
	return defaultLookup()
}

// Pascha implements Resolver. It returns false for years the table does not cover.
func (l *Lookup) Pascha(year int) (CivilDate, bool) {
	d, ok := l.dates[year]
	return d, ok
}

// Has reports whether the table covers year.
func (l *Lookup) Has(year int) bool {
	_, ok := l.dates[year]
	return ok
}

// AvailableYears returns the covered years in ascending order.
func (l *Lookup) AvailableYears() []int {
	return slices.Clone(l.years)
}

// Info returns the table metadata.
func (l *Lookup) Info() TableInfo {
	return l.info
}
