package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/dag/transform"
	"github.com/matzehuels/deplayer/pkg/errors"
	"github.com/matzehuels/deplayer/pkg/graph"
	"github.com/matzehuels/deplayer/pkg/layout"
	"github.com/matzehuels/deplayer/pkg/observability"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the logger - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete prepare → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, d graph.Descriptor, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	g, err := r.Prepare(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}

	result, err := r.ComputeLayout(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"backend", opts.Backend,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Prepare validates the descriptor and builds the sized graph.
func (r *Runner) Prepare(ctx context.Context, d graph.Descriptor, opts Options) (*dag.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()

	if err := d.Validate(); err != nil {
		return nil, err
	}
	if opts.HideStdlib {
		before := len(d.Nodes)
		d = d.HideStandardLibrary()
		r.Logger.Debug("hid standard library", "before", before, "after", len(d.Nodes))
	}

	g := d.ToGraph(opts.Sizer().Size)
	r.Logger.Debug("built graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// ComputeLayout organizes the graph into layers and computes coordinates.
//
// A stalled assignment is logged and reported to [observability.LayoutHooks];
// with Options.Strict it becomes an error carrying the unplaced ids.
func (r *Runner) ComputeLayout(ctx context.Context, g *dag.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, g.NodeCount(), g.EdgeCount())
	start := time.Now()

	arrangeOpts := []layout.Option{
		layout.WithMargins(opts.XMargin, opts.YMargin),
		layout.WithPredecessorRule(opts.PredecessorRule()),
		layout.WithLogger(opts.Logger),
	}
	if opts.RuleFunc != nil {
		arrangeOpts = append(arrangeOpts, layout.WithStallFallback(nil))
	}
	cg, org, err := layout.Arrange(g, arrangeOpts...)
	duration := time.Since(start)
	if err != nil {
		if stderrors.Is(err, transform.ErrCycleMembership) {
			err = errors.Wrap(errors.ErrCodeCycleInconsistency, err, "cycle bookkeeping is inconsistent")
		}
		hooks.OnLayoutComplete(ctx, 0, 0, duration, err)
		return nil, err
	}

	result := &Result{
		Graph:        g,
		Organization: org,
		Concrete:     cg,
		Layout: graph.FromConcrete(g, cg, org, graph.Settings{
			XMargin: opts.XMargin,
			YMargin: opts.YMargin,
			Rule:    opts.Rule,
		}),
		Artifacts: make(map[string][]byte),
		Stats: Stats{
			NodeCount:  g.NodeCount(),
			EdgeCount:  g.EdgeCount(),
			LayerCount: len(org.Layers),
			CycleCount: org.Cycles.Count(),
			LayoutTime: duration,
		},
	}

	if org.Stalled() {
		hooks.OnStall(ctx, org.Unplaced)
		r.Logger.Warn("layout incomplete",
			"placed", org.Placed(),
			"unplaced", len(org.Unplaced))
		if opts.Strict {
			err := &errors.StallError{Placed: org.Placed(), Unplaced: org.Unplaced}
			hooks.OnLayoutComplete(ctx, result.Stats.LayerCount, result.Stats.CycleCount, duration, err)
			return nil, err
		}
	}
	hooks.OnLayoutComplete(ctx, result.Stats.LayerCount, result.Stats.CycleCount, duration, nil)

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"layers", result.Stats.LayerCount,
		"cycles", result.Stats.CycleCount,
		"duration", duration)

	return result, nil
}

// Layout is a convenience wrapper that prepares the descriptor and computes
// its layout without rendering.
func (r *Runner) Layout(ctx context.Context, d graph.Descriptor, opts Options) (*Result, error) {
	g, err := r.Prepare(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return r.ComputeLayout(ctx, g, opts)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
