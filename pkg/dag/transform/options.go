package transform

import "github.com/charmbracelet/log"

// Option configures the layout engine stages in this package.
type Option func(*config)

type config struct {
	logger   *log.Logger
	rule     PredecessorRule
	fallback PredecessorRule
}

// WithLogger routes warnings (duplicate ids, dangling edges, stalls) to l.
// The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPredecessorRule replaces the needed-predecessor policy used by
// [AssignLayers]. The default is [DiscoveryOrder].
func WithPredecessorRule(r PredecessorRule) Option {
	return func(c *config) {
		if r != nil {
			c.rule = r
		}
	}
}

// WithStallFallback sets the rule [AssignLayers] retries the blocked ids with
// when the configured rule stops placing nodes. The default is
// [DiscoveryOrder]; nil disables the retry and reports the stall as is.
func WithStallFallback(r PredecessorRule) Option {
	return func(c *config) { c.fallback = r }
}

func newConfig(opts []Option) config {
	c := config{logger: log.Default(), rule: DiscoveryOrder, fallback: DiscoveryOrder}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
