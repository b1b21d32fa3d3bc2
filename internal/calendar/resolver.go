package calendar

import (
	"fmt"
	"log/slog"
	"sync"
)

// Strategy selects how Pascha dates are resolved.
type Strategy string

const (
	// StrategyAuto prefers the verified table and falls back to the algorithm.
	StrategyAuto Strategy = "auto"
	// StrategyLookup answers only for years in the verified table.
	StrategyLookup Strategy = "lookup"
	// StrategyAlgorithmic always computes the date.
	StrategyAlgorithmic Strategy = "algorithmic"
)

// ValidStrategies returns all valid strategies.
func ValidStrategies() []Strategy {
	return []Strategy{StrategyAuto, StrategyLookup, StrategyAlgorithmic}
}

// IsValid checks if a strategy is valid.
func (s Strategy) IsValid() bool {
	for _, valid := range ValidStrategies() {
		if s == valid {
			return true
		}
	}
	return false
}

// Source names the strategy that produced a Pascha date.
type Source string

const (
	SourceLookup      Source = "lookup"
	SourceAlgorithmic Source = "algorithmic"
)

// Chain resolves Pascha from the verified table when it covers the year and
// computes it otherwise. Computed dates for uncovered years are logged as
// unverified, once per year.
type Chain struct {
	lookup *Lookup
	logger *slog.Logger

	mu      sync.Mutex
	flagged map[int]bool
}

// NewChain creates a Chain over lookup. A nil lookup uses the bundled table.
func NewChain(lookup *Lookup, logger *slog.Logger) *Chain {
	if lookup == nil {
		lookup = DefaultLookup()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		lookup:  lookup,
		logger:  logger,
		flagged: make(map[int]bool),
	}
}

// Resolve returns the Pascha date for year and the strategy that answered.
func (c *Chain) Resolve(year int) (CivilDate, Source) {
	if d, ok := c.lookup.Pascha(year); ok {
		return d, SourceLookup
	}

	d := ComputePascha(year)

	c.mu.Lock()
	first := !c.flagged[year]
	c.flagged[year] = true
	c.mu.Unlock()

	if first {
		c.logger.Warn("pascha computed outside verified table",
			slog.Int("year", year),
			slog.String("date", d.String()),
			slog.Any("table_years", c.lookup.AvailableYears()),
		)
	}

	return d, SourceAlgorithmic
}

// Pascha implements Resolver. A Chain always has an answer.
func (c *Chain) Pascha(year int) (CivilDate, bool) {
	d, _ := c.Resolve(year)
	return d, true
}

// Lookup returns the table backing the chain.
func (c *Chain) Lookup() *Lookup {
	return c.lookup
}

// NewResolver builds the Resolver for a strategy.
func NewResolver(strategy Strategy, lookup *Lookup, logger *slog.Logger) (Resolver, error) {
	if lookup == nil {
		lookup = DefaultLookup()
	}

	switch strategy {
	case StrategyAuto, "":
		return NewChain(lookup, logger), nil
	case StrategyLookup:
		return lookup, nil
	case StrategyAlgorithmic:
		return Algorithmic{}, nil
	default:
		return nil, fmt.Errorf("unknown pascha strategy %q", strategy)
	}
}
