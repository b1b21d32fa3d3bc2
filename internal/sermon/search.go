package sermon

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SearchOptions filters the catalog. Zero values disable a filter.
type SearchOptions struct {
	Query    string // substring of title, description, category or gospel reading
	Category string // exact category, case-insensitive
	Types    []Type // allowed types; empty allows all

	// IgnoreDiacritics also folds "ș", "ț", "ă" and friends to their base
	// letters, so "boboteaza" finds "Bobotează".
	IgnoreDiacritics bool

	Limit  int // 0 means no limit
	Offset int
}

// Search returns the catalog entries matching opts, in catalog order.
func (m *Matcher) Search(opts SearchOptions) []Sermon {
	return Search(m.catalog, opts)
}

// Search filters catalog by opts.
func Search(catalog []Sermon, opts SearchOptions) []Sermon {
	f := newFolder(opts.IgnoreDiacritics)
	query := f.fold(strings.TrimSpace(opts.Query))
	category := f.fold(strings.TrimSpace(opts.Category))

	var out []Sermon
	for _, s := range catalog {
		if category != "" && f.fold(s.Category) != category {
			continue
		}
		if len(opts.Types) > 0 && !slices.Contains(opts.Types, s.Type) {
			continue
		}
		if query != "" && !f.matches(query, s.Title, s.Description, s.Category, s.GospelReading) {
			continue
		}
		out = append(out, s)
	}

	return page(out, opts.Offset, opts.Limit)
}

func page(s []Sermon, offset, limit int) []Sermon {
	if offset > 0 {
		if offset >= len(s) {
			return nil
		}
		s = s[offset:]
	}
	if limit > 0 && limit < len(s) {
		s = s[:limit]
	}
	return s
}

// folder normalizes text for comparison. It is not safe for concurrent use.
type folder struct {
	caser      cases.Caser
	diacritics transform.Transformer
}

func newFolder(ignoreDiacritics bool) *folder {
	f := &folder{caser: cases.Fold()}
	if ignoreDiacritics {
		f.diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	}
	return f
}

func (f *folder) fold(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	if f.diacritics != nil {
		if stripped, _, err := transform.String(f.diacritics, s); err == nil {
			s = stripped
		}
	}
	return f.caser.String(s)
}

func (f *folder) matches(query string, fields ...string) bool {
	for _, field := range fields {
		if field != "" && strings.Contains(f.fold(field), query) {
			return true
		}
	}
	return false
}
