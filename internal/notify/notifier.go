package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Notifier delivers a planned reminder.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// LogNotifier writes reminders to a structured logger. It is the delivery
// channel used when no push provider is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger means slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs r at info level.
func (n *LogNotifier) Notify(ctx context.Context, r Reminder) error {
	args := []any{
		slog.String("date", r.Date.String()),
		slog.Time("at", r.At),
		slog.String("title", r.Title),
		slog.String("body", r.Body),
	}
	if r.Sermon != nil {
		args = append(args, slog.String("sermon_id", r.Sermon.ID))
	}
	n.logger.InfoContext(ctx, "sermon reminder", args...)
	return nil
}

// Recorder keeps every reminder it is given.
type Recorder struct {
	mu        sync.Mutex
	reminders []Reminder
}

// Notify records r.
func (rec *Recorder) Notify(_ context.Context, r Reminder) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.reminders = append(rec.reminders, r)
	return nil
}

// Reminders returns a copy of the recorded reminders.
func (rec *Recorder) Reminders() []Reminder {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]Reminder, len(rec.reminders))
	copy(out, rec.reminders)
	return out
}
