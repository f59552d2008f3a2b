package ogst

import "github.com/npillmayer/schuko/tracing"

// defaultCacheSize bounds the Contains query cache; chosen generously for
// an in-process index rather than tuned against any workload.
const defaultCacheSize = 4096

// config collects the construction-time options for a Tree, following the
// functional-options idiom used throughout the hashicorp Go ecosystem.
type config struct {
	tracer    tracing.Trace
	cacheSize int
}

func defaultConfig() *config {
	return &config{
		tracer:    tracing.Select("ogst"),
		cacheSize: defaultCacheSize,
	}
}

// Option configures a Tree at construction time.
type Option func(*config)

// WithTracer overrides the tree's tracer. By default a tree selects the
// "ogst" trace channel via schuko/tracing, so callers can enable it with
// tracing.SetTraceSelector / gtrace without plumbing anything through this
// package.
func WithTracer(t tracing.Trace) Option {
	return func(c *config) {
		c.tracer = t
	}
}

// WithCacheSize overrides the capacity of the Contains result cache. A size
// of 0 disables caching entirely.
func WithCacheSize(n int) Option {
	return func(c *config) {
		c.cacheSize = n
	}
}
