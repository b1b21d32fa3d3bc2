package database

import (
	"database/sql"
	"time"

	"github.com/zapponejosh/predici-api/internal/sermon"
)

// CatalogImport is one run of the catalog importer.
type CatalogImport struct {
	ID         string    `json:"id"`       // ULID, sortable by creation time
	Source     string    `json:"source"`   // file the catalog was read from
	Checksum   string    `json:"checksum"` // sha256 of the file contents
	Total      int       `json:"total"`
	Imported   int       `json:"imported"`
	Rejected   int       `json:"rejected"`
	ImportedAt time.Time `json:"imported_at"`
}

// CatalogStats summarizes the stored catalog.
type CatalogStats struct {
	Total      int            `json:"total"`
	Fixed      int            `json:"fixed"`
	Movable    int            `json:"movable"`
	ByCategory map[string]int `json:"by_category"`
}

// sermonRow mirrors a row of the sermons table.
type sermonRow struct {
	ID             string
	Position       int
	Title          string
	Category       string
	AudioURL       string
	Type           string
	FixedMonth     sql.NullInt64
	FixedDay       sql.NullInt64
	PaschaOffset   sql.NullInt64
	Duration       sql.NullString
	Description    sql.NullString
	GospelReading  sql.NullString
	LiturgicalDate sql.NullString
}

func (r *sermonRow) scanTargets() []any {
	return []any{
		&r.ID, &r.Position, &r.Title, &r.Category, &r.AudioURL, &r.Type,
		&r.FixedMonth, &r.FixedDay, &r.PaschaOffset,
		&r.Duration, &r.Description, &r.GospelReading, &r.LiturgicalDate,
	}
}

func (r *sermonRow) toSermon() sermon.Sermon {
	return sermon.Sermon{
		ID:             r.ID,
		Title:          r.Title,
		Category:       r.Category,
		AudioURL:       r.AudioURL,
		Type:           sermon.Type(r.Type),
		FixedMonth:     intPtr(r.FixedMonth),
		FixedDay:       intPtr(r.FixedDay),
		PaschaOffset:   intPtr(r.PaschaOffset),
		Duration:       r.Duration.String,
		Description:    r.Description.String,
		GospelReading:  r.GospelReading.String,
		LiturgicalDate: r.LiturgicalDate.String,
	}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
