package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/zapponejosh/predici-api/internal/sermon"
)

const sermonColumns = `
	id, position, title, category, audio_url, type,
	fixed_month, fixed_day, pascha_offset,
	duration, description, gospel_reading, liturgical_date`

// timestampLayout is fixed width so that stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// parseTimestamp parses SQLite TEXT timestamps. It returns the zero time
// for empty or unrecognized values.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// =============================================================================
// Sermon Queries
// =============================================================================

// ListSermons returns the whole catalog in catalog order.
func (db *DB) ListSermons(ctx context.Context) ([]sermon.Sermon, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+sermonColumns+` FROM sermons ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sermons: %w", err)
	}
	defer rows.Close()

	var out []sermon.Sermon
	for rows.Next() {
		var r sermonRow
		if err := rows.Scan(r.scanTargets()...); err != nil {
			return nil, fmt.Errorf("scan sermon row: %w", err)
		}
		out = append(out, r.toSermon())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sermons: %w", err)
	}
	return out, nil
}

// GetSermon returns one sermon by id, or ErrNotFound.
func (db *DB) GetSermon(ctx context.Context, id string) (*sermon.Sermon, error) {
	var r sermonRow
	err := db.QueryRowContext(ctx, `SELECT `+sermonColumns+` FROM sermons WHERE id = ?`, id).
		Scan(r.scanTargets()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query sermon %q: %w", id, err)
	}

	s := r.toSermon()
	return &s, nil
}

// CountSermons returns the catalog size.
func (db *DB) CountSermons(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sermons`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sermons: %w", err)
	}
	return n, nil
}

// GetCatalogStats counts sermons by type and category.
func (db *DB) GetCatalogStats(ctx context.Context) (*CatalogStats, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT type, category, COUNT(*)
		FROM sermons
		GROUP BY type, category
	`)
	if err != nil {
		return nil, fmt.Errorf("query catalog stats: %w", err)
	}
	defer rows.Close()

	stats := &CatalogStats{ByCategory: make(map[string]int)}
	for rows.Next() {
		var typ, category string
		var n int
		if err := rows.Scan(&typ, &category, &n); err != nil {
			return nil, fmt.Errorf("scan catalog stats: %w", err)
		}
		stats.Total += n
		stats.ByCategory[category] += n
		switch sermon.Type(typ) {
		case sermon.TypeFixed:
			stats.Fixed += n
		case sermon.TypeMovable:
			stats.Movable += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog stats: %w", err)
	}
	return stats, nil
}

// ReplaceCatalog swaps the stored catalog for catalog in one transaction.
// Slice order becomes catalog order. A repeated id fails with ErrDuplicate
// and leaves the previous catalog untouched.
func (db *DB) ReplaceCatalog(ctx context.Context, catalog []sermon.Sermon) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		return replaceCatalog(ctx, tx, catalog)
	})
}

func replaceCatalog(ctx context.Context, tx *Tx, catalog []sermon.Sermon) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM sermons`); err != nil {
		return fmt.Errorf("clear sermons: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sermons (`+sermonColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range catalog {
		_, err := stmt.ExecContext(ctx,
			s.ID, i, s.Title, s.Category, s.AudioURL, string(s.Type),
			nullInt(s.FixedMonth), nullInt(s.FixedDay), nullInt(s.PaschaOffset),
			nullString(s.Duration), nullString(s.Description),
			nullString(s.GospelReading), nullString(s.LiturgicalDate),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert sermon %q: %w", s.ID, ErrDuplicate)
			}
			return fmt.Errorf("insert sermon %q: %w", s.ID, err)
		}
	}
	return nil
}

// upsertSermonSQL updates a stored sermon in place, keeping its position,
// or appends a new one after the last position.
const upsertSermonSQL = `
	INSERT INTO sermons (` + sermonColumns + `)
	VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM sermons), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		category = excluded.category,
		audio_url = excluded.audio_url,
		type = excluded.type,
		fixed_month = excluded.fixed_month,
		fixed_day = excluded.fixed_day,
		pascha_offset = excluded.pascha_offset,
		duration = excluded.duration,
		description = excluded.description,
		gospel_reading = excluded.gospel_reading,
		liturgical_date = excluded.liturgical_date,
		updated_at = datetime('now')
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertSermon(ctx context.Context, ex execer, s sermon.Sermon) error {
	_, err := ex.ExecContext(ctx, upsertSermonSQL,
		s.ID, s.Title, s.Category, s.AudioURL, string(s.Type),
		nullInt(s.FixedMonth), nullInt(s.FixedDay), nullInt(s.PaschaOffset),
		nullString(s.Duration), nullString(s.Description),
		nullString(s.GospelReading), nullString(s.LiturgicalDate),
	)
	if err != nil {
		return fmt.Errorf("upsert sermon %q: %w", s.ID, err)
	}
	return nil
}

// UpsertSermon stores s. An existing sermon with the same id is updated and
// keeps its place in catalog order; a new one goes to the end.
func (db *DB) UpsertSermon(ctx context.Context, s sermon.Sermon) error {
	return upsertSermon(ctx, db, s)
}

// MergeCatalog upserts every sermon of catalog in one transaction. Sermons
// not in catalog are left alone.
func (db *DB) MergeCatalog(ctx context.Context, catalog []sermon.Sermon) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		return mergeCatalog(ctx, tx, catalog)
	})
}

func mergeCatalog(ctx context.Context, tx *Tx, catalog []sermon.Sermon) error {
	for _, s := range catalog {
		if err := upsertSermon(ctx, tx, s); err != nil {
			return err
		}
	}
	return nil
}

// ImportCatalog stores catalog and records imp in one transaction, so a
// failed import leaves neither the sermons nor the import log changed.
// With merge set the catalog is merged instead of replaced.
func (db *DB) ImportCatalog(ctx context.Context, catalog []sermon.Sermon, merge bool, imp *CatalogImport) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		store := replaceCatalog
		if merge {
			store = mergeCatalog
		}
		if err := store(ctx, tx, catalog); err != nil {
			return err
		}
		return recordImport(ctx, tx, imp)
	})
}

// =============================================================================
// Import Log Queries
// =============================================================================

// RecordImport stores an import run. ID and ImportedAt are filled in when
// empty.
func (db *DB) RecordImport(ctx context.Context, imp *CatalogImport) error {
	return recordImport(ctx, db, imp)
}

func recordImport(ctx context.Context, ex execer, imp *CatalogImport) error {
	if imp.ImportedAt.IsZero() {
		imp.ImportedAt = time.Now().UTC()
	}
	if imp.ID == "" {
		imp.ID = ulid.MustNew(ulid.Timestamp(imp.ImportedAt), ulid.DefaultEntropy()).String()
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO catalog_imports (id, source, checksum, total, imported, rejected, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, imp.ID, imp.Source, strings.ToLower(imp.Checksum), imp.Total, imp.Imported, imp.Rejected,
		imp.ImportedAt.UTC().Format(timestampLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("record import %s: %w", imp.ID, ErrDuplicate)
		}
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

// ListImports returns up to limit import runs, newest first.
func (db *DB) ListImports(ctx context.Context, limit int) ([]CatalogImport, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, source, checksum, total, imported, rejected, imported_at
		FROM catalog_imports
		ORDER BY imported_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var out []CatalogImport
	for rows.Next() {
		var imp CatalogImport
		var importedAt string
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.Checksum,
			&imp.Total, &imp.Imported, &imp.Rejected, &importedAt); err != nil {
			return nil, fmt.Errorf("scan import row: %w", err)
		}
		imp.ImportedAt = parseTimestamp(importedAt)
		out = append(out, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}
	return out, nil
}

// LatestImport returns the most recent import run, or ErrNotFound.
func (db *DB) LatestImport(ctx context.Context) (*CatalogImport, error) {
	imports, err := db.ListImports(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(imports) == 0 {
		return nil, ErrNotFound
	}
	return &imports[0], nil
}

// HasChecksum reports whether a catalog with this checksum was imported
// before.
func (db *DB) HasChecksum(ctx context.Context, checksum string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM catalog_imports WHERE checksum = ?`,
		strings.ToLower(checksum),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query import checksum: %w", err)
	}
	return n > 0, nil
}
