package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deplayer/pkg/errors"
	"github.com/matzehuels/deplayer/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file (single format) or base path (multiple)
	formats  string  // comma-separated output formats
	backend  string  // native or graphviz
	fontSize float64 // label font size, sizes the boxes
	paddingX float64 // horizontal label padding
	paddingY float64 // vertical label padding
	scale    float64 // PNG scale factor
}

// renderCommand creates the render command for drawing a layout.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render [descriptor.json]",
		Short: "Render a dependency graph to SVG, DOT, PNG or PDF",
		Long: `Render a dependency graph to SVG, DOT, PNG or PDF.

The native backend draws the computed coordinates directly: one box per
module, straight edges downwards and dashed curves for back edges. The
graphviz backend hands the layers to Graphviz as rank=same groups, which is
useful for comparing the two.

PNG and PDF are converted from SVG and require rsvg-convert on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := c.options(cmd)
			if err != nil {
				return err
			}
			if err := ro.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], ro.output, opts)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&ro.backend, "backend", "", "renderer: native (default), graphviz")
	cmd.Flags().Float64Var(&ro.fontSize, "font-size", 0, "label font size (default 14)")
	cmd.Flags().Float64Var(&ro.paddingX, "padding-x", 0, "horizontal label padding (default 12)")
	cmd.Flags().Float64Var(&ro.paddingY, "padding-y", 0, "vertical label padding (default 8)")
	cmd.Flags().Float64Var(&ro.scale, "scale", pipeline.DefaultPNGScale, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletions)
	_ = cmd.RegisterFlagCompletionFunc("backend", fixedCompletions(pipeline.ValidBackends))

	return cmd
}

// apply copies the render flags the user set onto opts and validates them.
func (ro renderOpts) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	opts.Formats = parseFormats(ro.formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		opts.Backend = ro.backend
	}
	if flags.Changed("font-size") {
		opts.FontSize = ro.fontSize
	}
	if flags.Changed("padding-x") {
		opts.PaddingX = ro.paddingX
	}
	if flags.Changed("padding-y") {
		opts.PaddingY = ro.paddingY
	}
	if ro.scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", ro.scale)
	}
	opts.Scale = ro.scale
	if opts.FontSize < 0 || opts.PaddingX < 0 || opts.PaddingY < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size and padding must not be negative")
	}
	return opts.ValidateForRender()
}

// parseFormats parses the --format flag into a slice of lowercase formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// runRender runs the full pipeline and writes one file per format.
func (c *CLI) runRender(cmd *cobra.Command, input, output string, opts pipeline.Options) error {
	ctx := cmd.Context()
	d, err := readDescriptor(cmd, input)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering with %s backend...", opts.Backend))
	spinner.Start()
	res, err := c.newRunner().Execute(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.Formats)))

	if output == stdio {
		if len(opts.Formats) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "writing to stdout needs exactly one format, got %d", len(opts.Formats))
		}
		_, err := cmd.OutOrStdout().Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	w := cmd.OutOrStdout()
	base := basePath(output, input, pipeline.ValidFormats)
	var paths []string
	for _, format := range opts.Formats {
		path := base + "." + format
		if len(opts.Formats) == 1 && output != "" {
			path = output
		}
		if err := writeFile(path, res.Artifacts[format]); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess(w, "Render complete")
	for _, p := range paths {
		printFile(w, p)
	}
	printStats(w, res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.LayerCount, res.Stats.CycleCount)
	if res.Organization.Stalled() {
		printWarning(w, "%d modules could not be placed", len(res.Organization.Unplaced))
	}
	return nil
}
