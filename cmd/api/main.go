// Package main is the entry point for the Predici API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/predici-api/internal/api"
	"github.com/zapponejosh/predici-api/internal/cache"
	"github.com/zapponejosh/predici-api/internal/calendar"
	"github.com/zapponejosh/predici-api/internal/config"
	"github.com/zapponejosh/predici-api/internal/database"
	"github.com/zapponejosh/predici-api/internal/logger"
	"github.com/zapponejosh/predici-api/internal/notify"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	log.Info("starting predici API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("timezone", cfg.TimeZone),
		slog.String("pascha_strategy", string(cfg.PaschaStrategy)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("predici API stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// Database
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	catalog, err := db.ListSermons(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if len(catalog) == 0 {
		log.Warn("sermon catalog is empty, load one with cmd/import")
	}

	// Calendar
	lookup := calendar.DefaultLookup()
	if cfg.PaschaTablePath != "" {
		lookup, err = calendar.LoadPaschaTable(cfg.PaschaTablePath)
		if err != nil {
			return fmt.Errorf("load pascha table: %w", err)
		}
	}
	years := lookup.AvailableYears()
	log.Info("pascha table loaded",
		slog.String("source", lookup.Info().Source),
		slog.Int("years", len(years)),
	)

	resolver, err := calendar.NewResolver(cfg.PaschaStrategy, lookup, log)
	if err != nil {
		return err
	}

	loc := cfg.Location()
	sermonCache := cache.New[sermon.Sermon](resolver,
		cache.WithLogger(log),
		cache.WithClock(func() time.Time { return time.Now().In(loc) }),
	)
	matcher := sermon.NewMatcher(catalog, sermonCache, log)
	generator := calendar.NewGenerator(resolver)

	// Reminders
	if cfg.RemindersEnabled {
		planner := notify.NewPlanner(generator, matcher, loc)
		scheduler, err := notify.NewScheduler(cfg.ReminderCron, loc, planner,
			notify.NewLogNotifier(log), sermonCache, log)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := scheduler.Stop(stopCtx); err != nil {
				log.Warn("reminder scheduler did not stop cleanly", slog.Any("error", err))
			}
		}()
	}

	// HTTP server
	handlers := api.NewHandlers(api.Deps{
		DB:        db,
		Lookup:    lookup,
		Resolver:  resolver,
		Strategy:  cfg.PaschaStrategy,
		Generator: generator,
		Matcher:   matcher,
		Location:  loc,
	}, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("predici API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
