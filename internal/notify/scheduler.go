package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Cleaner drops stale cache entries and reports how many it removed.
type Cleaner interface {
	CleanupStale() int
}

// Scheduler runs the reminder check on a cron schedule. Each tick plans the
// reminder for the next day, delivers it and lets the cache clean itself.
type Scheduler struct {
	cron     *cron.Cron
	planner  *Planner
	notifier Notifier
	cleaner  Cleaner
	logger   *slog.Logger
	now      func() time.Time
}

// NewScheduler registers the reminder check under spec, a standard 5-field
// cron expression evaluated in loc. cleaner may be nil.
func NewScheduler(spec string, loc *time.Location, planner *Planner, notifier Notifier, cleaner Cleaner, logger *slog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		planner:  planner,
		notifier: notifier,
		cleaner:  cleaner,
		logger:   logger,
		now:      time.Now,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.Tick(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("reminder scheduler started", slog.Time("next_run", e.Next))
	}
}

// Stop halts the schedule and waits for a running tick to finish or for ctx
// to end, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick performs one check. It returns the reminder it delivered, if any.
func (s *Scheduler) Tick(ctx context.Context) *Reminder {
	defer s.cleanup()

	r, ok := s.planner.Plan(s.now())
	if !ok {
		s.logger.Debug("no reminder for tomorrow")
		return nil
	}

	if err := s.notifier.Notify(ctx, *r); err != nil {
		s.logger.Error("deliver reminder",
			slog.String("date", r.Date.String()),
			slog.Any("error", err),
		)
		return nil
	}
	return r
}

func (s *Scheduler) cleanup() {
	if s.cleaner == nil {
		return
	}
	if n := s.cleaner.CleanupStale(); n > 0 {
		s.logger.Info("cache cleanup", slog.Int("removed", n))
	}
}
