// Command import loads a sermon catalog file into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -file data/catalog.yaml -db data/predici.db
//
// This tool:
//  1. Reads the catalog (.yaml, .yml or .json)
//  2. Validates every entry and reports the rejected ones
//  3. Creates/opens the SQLite database and runs migrations
//  4. Replaces the stored catalog with the valid entries in one transaction,
//     or with -merge updates and appends them, keeping the other sermons
//  5. Records the import with the file's checksum
//
// A file whose checksum was already imported is skipped unless -force is set.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/predici-api/internal/database"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

// options are the command line flags.
type options struct {
	File   string
	DB     string
	Force  bool
	Strict bool
	Merge  bool
}

// errRejected aborts a strict import that found invalid entries.
var errRejected = errors.New("catalog has invalid entries")

func main() {
	var opts options
	flag.StringVar(&opts.File, "file", "data/catalog.yaml", "Path to catalog file (.yaml, .yml or .json)")
	flag.StringVar(&opts.DB, "db", "data/predici.db", "Path to SQLite database")
	flag.BoolVar(&opts.Force, "force", false, "Import even if this file was imported before")
	flag.BoolVar(&opts.Strict, "strict", false, "Abort if any entry is invalid")
	flag.BoolVar(&opts.Merge, "merge", false, "Update and append sermons instead of replacing the catalog")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := run(context.Background(), opts, os.Stdout, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(ctx context.Context, opts options, out io.Writer, logger *slog.Logger) error {
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and validate the catalog
	// =========================================================================
	logger.Info("reading catalog", slog.String("path", opts.File))

	data, err := os.ReadFile(opts.File)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	format, err := sermon.FormatFromPath(opts.File)
	if err != nil {
		return err
	}
	catalog, err := sermon.ParseCatalog(data, format)
	if err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	valid, rejected := sermon.SplitValid(catalog)
	for _, err := range rejected {
		logger.Warn("rejected sermon", slog.String("error", err.Error()))
	}
	logger.Info("parsed catalog",
		slog.Int("total", len(catalog)),
		slog.Int("valid", len(valid)),
		slog.Int("rejected", len(rejected)),
	)

	if opts.Strict && len(rejected) > 0 {
		return fmt.Errorf("%w: %d of %d", errRejected, len(rejected), len(catalog))
	}
	if len(valid) == 0 {
		return errors.New("catalog has no valid entries")
	}

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", opts.DB))

	db, err := database.Open(database.DefaultConfig(opts.DB), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	if !opts.Force {
		seen, err := db.HasChecksum(ctx, checksum)
		if err != nil {
			return fmt.Errorf("check previous imports: %w", err)
		}
		if seen {
			logger.Info("catalog unchanged since a previous import, skipping",
				slog.String("checksum", checksum))
			return nil
		}
	}

	// =========================================================================
	// Step 3: Store the catalog and record the import
	// =========================================================================
	imp := &database.CatalogImport{
		Source:     opts.File,
		Checksum:   checksum,
		Total:      len(catalog),
		Imported:   len(valid),
		Rejected:   len(rejected),
		ImportedAt: time.Now(),
	}
	if err := db.ImportCatalog(ctx, valid, opts.Merge, imp); err != nil {
		return fmt.Errorf("store catalog: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	stats, err := db.GetCatalogStats(ctx)
	if err != nil {
		return fmt.Errorf("catalog stats: %w", err)
	}

	elapsed := time.Since(startTime)
	logger.Info("import verified",
		slog.String("import_id", imp.ID),
		slog.Int("sermons", stats.Total),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Import Summary ===")
	fmt.Fprintf(out, "Import ID:           %s\n", imp.ID)
	fmt.Fprintf(out, "Sermons imported:    %d\n", imp.Imported)
	fmt.Fprintf(out, "Entries rejected:    %d\n", imp.Rejected)
	fmt.Fprintf(out, "Fixed / movable:     %d / %d\n", stats.Fixed, stats.Movable)

	categories := make([]string, 0, len(stats.ByCategory))
	for c := range stats.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(out, "  %-24s %d\n", c, stats.ByCategory[c])
	}
	fmt.Fprintf(out, "Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}
