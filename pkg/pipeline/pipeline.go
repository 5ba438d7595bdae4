// Package pipeline provides the descriptor → layout → render pipeline.
//
// This package wires the layout engine to its collaborators so the CLI and
// the HTTP server behave identically. By centralizing this logic, both entry
// points share defaults, validation, logging and observability hooks.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Prepare: Validate a descriptor, optionally hide the standard library,
//     and build a sized graph
//  2. Layout: Organize the graph into layers and concretize coordinates
//  3. Render: Generate output in various formats (SVG, DOT, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, descriptor, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Prepare(ctx, descriptor, opts)
//	result, err := runner.ComputeLayout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, result, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/dag/transform"
	"github.com/matzehuels/deplayer/pkg/errors"
	"github.com/matzehuels/deplayer/pkg/graph"
	"github.com/matzehuels/deplayer/pkg/layout"
	"github.com/matzehuels/deplayer/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultRule is the default cycle threading rule.
	DefaultRule = transform.RuleDiscovery

	// DefaultBackend is the default renderer.
	DefaultBackend = BackendNative

	// DefaultPNGScale is the default PNG resolution multiplier.
	DefaultPNGScale = 2.0
)

// Renderer backends.
const (
	BackendNative   = "native"
	BackendGraphviz = "graphviz"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatSVG, FormatDOT, FormatPNG, FormatPDF, FormatJSON}

// ValidBackends lists the supported renderer backends.
var ValidBackends = []string{BackendNative, BackendGraphviz}

// ValidRules lists the supported cycle threading rules.
var ValidRules = []string{transform.RuleDiscovery, transform.RuleLexicographic}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
//
// Zero numeric values select the defaults.
type Options struct {
	// Prepare options
	HideStdlib bool    `json:"hide_stdlib,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	PaddingX   float64 `json:"padding_x,omitempty"`
	PaddingY   float64 `json:"padding_y,omitempty"`

	// Layout options
	XMargin float64 `json:"x_margin,omitempty"`
	YMargin float64 `json:"y_margin,omitempty"`
	Rule    string  `json:"rule,omitempty"`
	Strict  bool    `json:"strict,omitempty"` // Fail when the layer assigner stalls

	// Render options
	Formats []string `json:"formats,omitempty"`
	Backend string   `json:"backend,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // PNG scale factor

	// Runtime options (not serialized)
	Logger   *log.Logger               `json:"-"`
	RuleFunc transform.PredecessorRule `json:"-"` // Overrides Rule when set; stalls are not retried

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the sized graph the engine ran on.
	Graph *dag.Graph

	// Organization holds layers, cycles and unplaced ids.
	Organization transform.Organization

	// Concrete holds the computed coordinates.
	Concrete *layout.ConcreteGraph

	// Layout is the serializable form of the result.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayerCount int
	CycleCount int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	return errors.ValidateFormats(formats, ValidFormats...)
}

// ValidateBackend checks that a backend is supported.
func ValidateBackend(backend string) error {
	if !slices.Contains(ValidBackends, backend) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid backend: %q (must be one of: %s)", backend, strings.Join(ValidBackends, ", "))
	}
	return nil
}

// ValidateRule checks that a cycle threading rule is supported.
func ValidateRule(rule string) error {
	if _, err := transform.RuleByName(rule); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRule, err, "invalid rule")
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for preparation and layout.
func (o *Options) SetLayoutDefaults() {
	if o.XMargin == 0 {
		o.XMargin = layout.DefaultXMargin
	}
	if o.YMargin == 0 {
		o.YMargin = layout.DefaultYMargin
	}
	if o.Rule == "" {
		o.Rule = DefaultRule
	}
	if o.FontSize == 0 {
		o.FontSize = render.DefaultFontSize
	}
	if o.PaddingX == 0 {
		o.PaddingX = render.DefaultPaddingX
	}
	if o.PaddingY == 0 {
		o.PaddingY = render.DefaultPaddingY
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.XMargin < 0 || o.YMargin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margins must not be negative (x=%g, y=%g)", o.XMargin, o.YMargin)
	}
	return ValidateRule(o.Rule)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = slices.Clone(o.Formats)
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if o.Backend == "" {
		o.Backend = DefaultBackend
	}
	if o.Scale == 0 {
		o.Scale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateBackend(o.Backend)
}

// Sizer returns the label sizer configured by the options.
func (o *Options) Sizer() render.LabelSizer {
	s := render.DefaultLabelSizer()
	if o.FontSize > 0 {
		s.FontSize = o.FontSize
	}
	if o.PaddingX > 0 {
		s.PaddingX = o.PaddingX
	}
	if o.PaddingY > 0 {
		s.PaddingY = o.PaddingY
	}
	return s
}

// PredecessorRule resolves the cycle threading rule to use.
func (o *Options) PredecessorRule() transform.PredecessorRule {
	if o.RuleFunc != nil {
		return o.RuleFunc
	}
	rule, err := transform.RuleByName(o.Rule)
	if err != nil {
		return transform.DiscoveryOrder
	}
	return rule
}

// IsGraphviz returns true if rendering goes through Graphviz.
func (o *Options) IsGraphviz() bool {
	return o.Backend == BackendGraphviz
}
