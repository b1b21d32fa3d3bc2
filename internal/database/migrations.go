package database

// migrationsSQL holds the schema, applied in version order.
var migrationsSQL = map[int]string{
	1: migrationV1Sermons,
	2: migrationV2CatalogImports,
}

// migrationV1Sermons creates the catalog table.
//
// position keeps the order of the source file; the matcher relies on it to
// break ties between sermons that share a date or an offset.
const migrationV1Sermons = `
CREATE TABLE IF NOT EXISTS sermons (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL UNIQUE,

    title TEXT NOT NULL,
    category TEXT NOT NULL,
    audio_url TEXT NOT NULL,

    type TEXT NOT NULL CHECK (type IN ('fixed', 'movable')),
    fixed_month INTEGER CHECK (fixed_month BETWEEN 1 AND 12),
    fixed_day INTEGER CHECK (fixed_day BETWEEN 1 AND 31),
    pascha_offset INTEGER,

    duration TEXT,
    description TEXT,
    gospel_reading TEXT,
    liturgical_date TEXT,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    CHECK (type <> 'fixed' OR (fixed_month IS NOT NULL AND fixed_day IS NOT NULL)),
    CHECK (type <> 'movable' OR pascha_offset IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_sermons_fixed
    ON sermons(fixed_month, fixed_day)
    WHERE type = 'fixed';

CREATE INDEX IF NOT EXISTS idx_sermons_offset
    ON sermons(pascha_offset)
    WHERE type = 'movable';

CREATE INDEX IF NOT EXISTS idx_sermons_category
    ON sermons(category);
`

// migrationV2CatalogImports records every catalog import.
const migrationV2CatalogImports = `
CREATE TABLE IF NOT EXISTS catalog_imports (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    checksum TEXT NOT NULL,
    total INTEGER NOT NULL,
    imported INTEGER NOT NULL,
    rejected INTEGER NOT NULL,
    imported_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_catalog_imports_imported_at
    ON catalog_imports(imported_at);
`
