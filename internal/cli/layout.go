package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deplayer/pkg/graph"
	"github.com/matzehuels/deplayer/pkg/pipeline"
)

// layoutCommand creates the layout command for computing layer assignments
// and coordinates.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [descriptor.json]",
		Short: "Compute layers and coordinates for a dependency graph",
		Long: `Compute layers and coordinates for a dependency graph.

The layout command reads a dependency descriptor (use - for stdin), assigns
every module to a layer, threads cycles through, and writes a layout.json file
with box coordinates, layers, detected cycles and edges. Edges pointing to the
same or a higher layer are marked as back edges.

Modules the layer assigner cannot place are listed under "unplaced"; with
--strict the command fails instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := c.options(cmd)
			if err != nil {
				return err
			}
			return c.runLayout(cmd, args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")

	return cmd
}

// runLayout loads the descriptor, computes the layout, and writes output.
func (c *CLI) runLayout(cmd *cobra.Command, input, output string, opts pipeline.Options) error {
	ctx := cmd.Context()
	d, err := readDescriptor(cmd, input)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Computing layout...")
	spinner.Start()
	res, err := c.newRunner().Layout(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if output == stdio || (output == "" && input == stdio) {
		return graph.WriteLayout(res.Layout, cmd.OutOrStdout())
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input, nil) + ".layout.json"
	}
	var buf bytes.Buffer
	if err := graph.WriteLayout(res.Layout, &buf); err != nil {
		return err
	}
	if err := writeFile(outputPath, buf.Bytes()); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Layout complete")
	printFile(w, outputPath)
	printStats(w, res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.LayerCount, res.Stats.CycleCount)
	if res.Organization.Stalled() {
		printWarning(w, "%d modules could not be placed", len(res.Organization.Unplaced))
	}
	printNewline(w)
	printNextStep(w, "Render", appName+" render "+input)

	return nil
}
