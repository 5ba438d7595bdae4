package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deplayer/pkg/dag/transform"
)

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

// layersCommand creates the layers command, which prints the layer
// assignment and detected cycles as tables.
func (c *CLI) layersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layers [descriptor.json]",
		Short: "Print the layer assignment and detected cycles",
		Long: `Print the layer assignment and detected cycles.

Layer 0 holds the modules nothing depends on. Every other module sits one
layer below the lowest of its dependents, except inside cycles, where each
member waits only for its predecessor on the cycle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := c.options(cmd)
			if err != nil {
				return err
			}
			d, err := readDescriptor(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := c.newRunner().Layout(cmd.Context(), d, opts)
			if err != nil {
				return err
			}
			printOrganization(cmd.OutOrStdout(), res.Organization)
			return nil
		},
	}

	return cmd
}

// printOrganization writes the layers table, the cycles table and any
// unplaced modules.
func printOrganization(w io.Writer, org transform.Organization) {
	fmt.Fprintln(w, StyleTitle.Render("Layers"))
	fmt.Fprintln(w, layersTable(org).Render())

	if org.Cycles != nil && org.Cycles.Count() > 0 {
		printNewline(w)
		fmt.Fprintln(w, StyleTitle.Render("Cycles"))
		fmt.Fprintln(w, cyclesTable(org.Cycles.All()).Render())
	} else {
		printNewline(w)
		printInfo(w, "no dependency cycles")
	}

	if org.Stalled() {
		printNewline(w)
		printWarning(w, "%d of %d modules could not be placed", len(org.Unplaced), org.Placed()+len(org.Unplaced))
		printDetail(w, "%s", strings.Join(org.Unplaced, ", "))
	}
}

func layersTable(org transform.Organization) *table.Table {
	rows := make([][]string, len(org.Layers))
	for i, layer := range org.Layers {
		names := make([]string, len(layer))
		for j, id := range layer {
			names[j] = id
			if org.Cycles != nil && org.Cycles.InCycle(id) {
				names[j] = id + " " + iconCycle
			}
		}
		rows[i] = []string{strconv.Itoa(i), strconv.Itoa(len(layer)), strings.Join(names, ", ")}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layer", "Size", "Modules").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case col == 0:
				return StyleNumber
			case col == 1:
				return StyleDim
			default:
				return StyleValue
			}
		})
}

func cyclesTable(cycles []transform.Cycle) *table.Table {
	rows := make([][]string, len(cycles))
	for i, c := range cycles {
		rows[i] = []string{strconv.Itoa(i + 1), strconv.Itoa(len(c)), c.String()}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Length", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case col == 2:
				return styleCycle
			default:
				return StyleDim
			}
		})
}
