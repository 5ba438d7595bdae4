package layout

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/deplayer/pkg/dag/transform"
)

// Default margins in pixels.
const (
	DefaultXMargin = 20.0 // horizontal gap between sibling nodes
	DefaultYMargin = 75.0 // vertical gap between layers
)

// Option configures [Concretize] and [Arrange].
type Option func(*config)

type config struct {
	xMargin float64
	yMargin float64
	logger  *log.Logger
	rule    transform.PredecessorRule

	fallback    transform.PredecessorRule
	hasFallback bool
}

// WithMargins sets both margins.
func WithMargins(x, y float64) Option {
	return func(c *config) { c.xMargin, c.yMargin = x, y }
}

// WithXMargin sets the horizontal gap between sibling nodes.
func WithXMargin(x float64) Option { return func(c *config) { c.xMargin = x } }

// WithYMargin sets the vertical gap between layers.
func WithYMargin(y float64) Option { return func(c *config) { c.yMargin = y } }

// WithLogger routes warnings to l. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPredecessorRule selects the cycle threading policy used by [Arrange].
func WithPredecessorRule(r transform.PredecessorRule) Option {
	return func(c *config) { c.rule = r }
}

// WithStallFallback overrides the rule the layer assigner retries blocked
// nodes with. nil disables the retry.
func WithStallFallback(r transform.PredecessorRule) Option {
	return func(c *config) { c.fallback, c.hasFallback = r, true }
}

func newConfig(opts []Option) config {
	c := config{
		xMargin: DefaultXMargin,
		yMargin: DefaultYMargin,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) transformOptions() []transform.Option {
	opts := []transform.Option{
		transform.WithLogger(c.logger),
		transform.WithPredecessorRule(c.rule),
	}
	if c.hasFallback {
		opts = append(opts, transform.WithStallFallback(c.fallback))
	}
	return opts
}
