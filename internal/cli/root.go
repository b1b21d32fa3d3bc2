// Package cli implements the predici command line tool.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/predici-api/internal/cache"
	"github.com/zapponejosh/predici-api/internal/calendar"
	"github.com/zapponejosh/predici-api/internal/database"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

const defaultDBPath = "./data/predici.db"

// app holds the persistent flags shared by every subcommand.
type app struct {
	dbPath      string
	catalogPath string
	format      string
	strategy    string
	tablePath   string
	timezone    string

	logger *slog.Logger
	now    func() time.Time
}

// NewRootCmd builds the predici command tree.
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "predici",
		Short: "Orthodox liturgical calendar and sermon lookup",
		Long: "Resolves Orthodox Pascha dates, builds the liturgical calendar of a year\n" +
			"and finds the sermon of any day in a catalog read from SQLite or a file.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.dbPath, "db", "d", "", "Database path (default: $DATABASE_PATH or ./data/predici.db)")
	pf.StringVarP(&a.catalogPath, "catalog", "c", "", "Catalog file (.yaml, .yml or .json); takes precedence over --db")
	pf.StringVarP(&a.format, "format", "f", "text", "Output format: json or text")
	pf.StringVar(&a.strategy, "strategy", string(calendar.StrategyAuto), "Pascha strategy: auto, lookup or algorithmic")
	pf.StringVar(&a.tablePath, "pascha-table", "", "Pascha table JSON replacing the bundled one")
	pf.StringVar(&a.timezone, "tz", "Europe/Bucharest", "Time zone that decides what today is")

	root.AddCommand(
		a.paschaCmd(),
		a.yearsCmd(),
		a.offsetCmd(),
		a.seasonCmd(),
		a.calendarCmd(),
		a.icsCmd(),
		a.matchCmd(),
		a.infoCmd(),
		a.monthCmd(),
		a.sundaysCmd(),
		a.upcomingCmd(),
		a.searchCmd(),
		a.coverageCmd(),
		a.reminderCmd(),
		a.catalogCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	switch a.format {
	case "json", "text":
	default:
		return fmt.Errorf("--format must be json or text, got %q", a.format)
	}
	if !calendar.Strategy(a.strategy).IsValid() {
		return fmt.Errorf("--strategy must be auto, lookup or algorithmic, got %q", a.strategy)
	}
	if _, err := time.LoadLocation(a.timezone); err != nil {
		return fmt.Errorf("--tz: %w", err)
	}

	// Warnings only: unverified Pascha dates and skipped catalog entries.
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	return nil
}

func (a *app) getDBPath() string {
	if a.dbPath != "" {
		return a.dbPath
	}
	if env := os.Getenv("DATABASE_PATH"); env != "" {
		return env
	}
	return defaultDBPath
}

func (a *app) location() *time.Location {
	loc, err := time.LoadLocation(a.timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (a *app) today() calendar.CivilDate {
	return calendar.DateOf(a.now().In(a.location()))
}

func (a *app) lookup() (*calendar.Lookup, error) {
	if a.tablePath == "" {
		return calendar.DefaultLookup(), nil
	}
	return calendar.LoadPaschaTable(a.tablePath)
}

func (a *app) resolver() (calendar.Resolver, *calendar.Lookup, error) {
	lookup, err := a.lookup()
	if err != nil {
		return nil, nil, err
	}
	r, err := calendar.NewResolver(calendar.Strategy(a.strategy), lookup, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return r, lookup, nil
}

// catalog reads the sermon catalog from --catalog, or else from the database.
// Invalid file entries are reported and dropped.
func (a *app) catalog(ctx context.Context) ([]sermon.Sermon, error) {
	if a.catalogPath != "" {
		all, err := sermon.LoadCatalogFile(a.catalogPath)
		if err != nil {
			return nil, err
		}
		valid, rejected := sermon.SplitValid(all)
		for _, err := range rejected {
			a.logger.Warn("skipping catalog entry", slog.String("error", err.Error()))
		}
		return valid, nil
	}

	db, err := a.openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.ListSermons(ctx)
}

// openDB opens an existing, migrated database.
func (a *app) openDB() (*database.DB, error) {
	path := a.getDBPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database %s not found: import a catalog first or pass --catalog", path)
		}
		return nil, err
	}
	return database.Open(database.DefaultConfig(path), a.logger)
}

// services bundles what the sermon commands need.
type services struct {
	resolver  calendar.Resolver
	generator *calendar.Generator
	matcher   *sermon.Matcher
}

func (a *app) services(ctx context.Context) (*services, error) {
	resolver, _, err := a.resolver()
	if err != nil {
		return nil, err
	}
	catalog, err := a.catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	c := cache.New[sermon.Sermon](resolver, cache.WithLogger(a.logger))
	return &services{
		resolver:  resolver,
		generator: calendar.NewGenerator(resolver),
		matcher:   sermon.NewMatcher(catalog, c, a.logger),
	}, nil
}

// render writes v as indented JSON, or calls text for the text format.
func (a *app) render(w io.Writer, v any, text func(io.Writer)) error {
	if a.format == "json" {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	text(w)
	return nil
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}

func parseMonth(s string) (time.Month, error) {
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, fmt.Errorf("invalid month %q, use 1-12", s)
	}
	return time.Month(m), nil
}

func parseDate(s string) (calendar.CivilDate, error) {
	d, err := calendar.ParseDate(s)
	if err != nil {
		return calendar.CivilDate{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return d, nil
}
