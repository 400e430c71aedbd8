package engine

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Load() and Run()
// ============================================================================

const defaultTopN = 10

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Now      func() time.Time
	Year     int // fixed current year; overrides Now when non-zero
	Logger   logrus.FieldLogger
	TopN     int
	Workers  int      // >1 enables FilterParallel
	Columns  []string // table projection
	Builders []ChartBuilder
}

// WithClock sets the clock the current year is read from.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithCurrentYear pins the year used for age calculation.
func WithCurrentYear(year int) Option {
	return func(c *config) {
		c.Year = year
	}
}

// WithLogger routes pipeline logs to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithTopN sets how many items the top-items chart shows.
func WithTopN(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.TopN = n
		}
	}
}

// WithWorkers filters in n parallel chunks.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.Workers = n
	}
}

// WithColumns sets the table projection.
func WithColumns(cols ...string) Option {
	return func(c *config) {
		c.Columns = cols
	}
}

// WithChartBuilders replaces the default dashboard charts.
func WithChartBuilders(b ...ChartBuilder) Option {
	return func(c *config) {
		c.Builders = b
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Now:    time.Now,
		Logger: logrus.StandardLogger(),
		TopN:   defaultTopN,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Builders == nil {
		cfg.Builders = DefaultChartBuilders(cfg.TopN)
	}
	return cfg
}

func (c *config) currentYear() int {
	if c.Year != 0 {
		return c.Year
	}
	return c.Now().Year()
}
