// Package cache memoizes values derived from the liturgical calendar:
// Pascha dates by year, Pascha offsets by date and matched sermons by date.
package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/zapponejosh/predici-api/internal/calendar"
)

const (
	// DefaultRetention is how far in the past a dated entry may be before
	// cleanup drops it.
	DefaultRetention = 7 * 24 * time.Hour

	// DefaultCleanupInterval is the minimum time between two cleanup passes.
	DefaultCleanupInterval = 24 * time.Hour
)

// entry is a cached value and the time it was stored.
type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Stats reports cache sizes.
type Stats struct {
	PaschaEntries int       `json:"pascha_entries"`
	OffsetEntries int       `json:"offset_entries"`
	SermonEntries int       `json:"sermon_entries"`
	LastCleanup   time.Time `json:"last_cleanup"`
}

// Cache memoizes derived values. V is the matched value type; the cache
// stores *V so that a nil match can be cached as well.
//
// Keys are calendar-normalized: a year for Pascha dates and YYYY-MM-DD for
// everything else. A Cache is safe for concurrent use. Concurrent misses may
// compute the same value twice; values are deterministic so the second write
// is harmless.
type Cache[V any] struct {
	resolver calendar.Resolver
	logger   *slog.Logger
	now      func() time.Time

	retention       time.Duration
	cleanupInterval time.Duration

	mu          sync.Mutex
	pascha      map[int]entry[calendar.CivilDate]
	offsets     map[string]entry[int]
	sermons     map[string]entry[*V]
	lastCleanup time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	logger          *slog.Logger
	now             func() time.Time
	retention       time.Duration
	cleanupInterval time.Duration
}

// WithLogger sets the logger used for cleanup reports.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRetention overrides DefaultRetention.
func WithRetention(d time.Duration) Option {
	return func(o *options) { o.retention = d }
}

// WithCleanupInterval overrides DefaultCleanupInterval.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.cleanupInterval = d }
}

// New creates an empty cache that resolves Pascha dates with resolver.
func New[V any](resolver calendar.Resolver, opts ...Option) *Cache[V] {
	o := options{
		logger:          slog.Default(),
		now:             time.Now,
		retention:       DefaultRetention,
		cleanupInterval: DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[V]{
		resolver:        resolver,
		logger:          o.logger,
		now:             o.now,
		retention:       o.retention,
		cleanupInterval: o.cleanupInterval,
	}
	c.reset()
	return c
}

// reset empties every map. Caller must hold mu or own c exclusively.
func (c *Cache[V]) reset() {
	c.pascha = make(map[int]entry[calendar.CivilDate])
	c.offsets = make(map[string]entry[int])
	c.sermons = make(map[string]entry[*V])
	c.lastCleanup = c.now()
}

// PaschaDate returns the Pascha date for year, resolving and caching it on
// first use. Years the resolver cannot answer are not cached.
func (c *Cache[V]) PaschaDate(year int) (calendar.CivilDate, bool) {
	c.mu.Lock()
	e, ok := c.pascha[year]
	c.mu.Unlock()
	if ok {
		return e.value, true
	}

	d, ok := c.resolver.Pascha(year)
	if !ok {
		return calendar.CivilDate{}, false
	}

	c.mu.Lock()
	c.pascha[year] = entry[calendar.CivilDate]{value: d, storedAt: c.now()}
	c.mu.Unlock()
	return d, true
}

// Offset returns the Pascha offset of date, computing and caching it on
// first use. It returns false when Pascha of date's year is unknown.
func (c *Cache[V]) Offset(date calendar.CivilDate) (int, bool) {
	key := date.String()

	c.mu.Lock()
	e, ok := c.offsets[key]
	c.mu.Unlock()
	if ok {
		return e.value, true
	}

	pascha, ok := c.PaschaDate(date.Year)
	if !ok {
		return 0, false
	}
	offset := calendar.Offset(date, pascha)

	c.mu.Lock()
	c.offsets[key] = entry[int]{value: offset, storedAt: c.now()}
	c.mu.Unlock()
	return offset, true
}

// Sermon returns the cached match for date. cached is false when nothing
// was stored yet; a stored "no match" returns (nil, true).
func (c *Cache[V]) Sermon(date calendar.CivilDate) (value *V, cached bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.sermons[date.String()]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// SetSermon stores the match for date. A nil value records "no match".
// It also gives the throttled cleanup pass a chance to run.
func (c *Cache[V]) SetSermon(date calendar.CivilDate, value *V) {
	c.mu.Lock()
	c.sermons[date.String()] = entry[*V]{value: value, storedAt: c.now()}
	c.mu.Unlock()

	c.CleanupStale()
}

// ClearAll empties the cache and restarts the cleanup throttle.
func (c *Cache[V]) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// CleanupStale drops offset and sermon entries whose date lies more than the
// retention period before today. It does nothing if the previous pass ran
// less than the cleanup interval ago, and returns the number of entries removed.
func (c *Cache[V]) CleanupStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastCleanup) < c.cleanupInterval {
		return 0
	}

	cutoff := now.Add(-c.retention)
	removed := removeBefore(c.sermons, cutoff, now.Location())
	removed += removeBefore(c.offsets, cutoff, now.Location())
	c.lastCleanup = now

	if removed > 0 {
		c.logger.Debug("cache cleanup",
			slog.Int("removed", removed),
			slog.Int("sermon_entries", len(c.sermons)),
			slog.Int("offset_entries", len(c.offsets)),
		)
	}
	return removed
}

// removeBefore deletes entries whose date key, taken at midnight in loc, is
// before cutoff. Keys that do not parse are left alone.
func removeBefore[T any](m map[string]entry[T], cutoff time.Time, loc *time.Location) int {
	removed := 0
	for key := range m {
		d, err := calendar.ParseDate(key)
		if err != nil {
			continue
		}
		if d.Time(loc).Before(cutoff) {
			delete(m, key)
			removed++
		}
	}
	return removed
}

// Stats returns the current cache sizes.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		PaschaEntries: len(c.pascha),
		OffsetEntries: len(c.offsets),
		SermonEntries: len(c.sermons),
		LastCleanup:   c.lastCleanup,
	}
}
