package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deplayer/pkg/dag/transform"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, an interactive layer browser.
func (c *CLI) browseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [descriptor.json]",
		Short: "Browse the layers of a dependency graph interactively",
		Args:  cobra.ExactArgs(1),
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

			p := tea.NewProgram(NewLayerBrowser(res.Organization),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}

	return cmd
}

// =============================================================================
// LayerBrowser - Interactive layer navigation
// =============================================================================

// LayerBrowser is the bubbletea model for stepping through layers and
// inspecting the modules in them.
type LayerBrowser struct {
	Org    transform.Organization
	Layer  int // selected layer
	Cursor int // selected module within the layer
	Height int // visible layer rows
	Offset int // first visible layer row
}

// NewLayerBrowser creates a browser positioned on the first module of layer 0.
func NewLayerBrowser(org transform.Organization) LayerBrowser {
	return LayerBrowser{Org: org, Height: 12}
}

func (m LayerBrowser) Init() tea.Cmd {
	return nil
}

func (m LayerBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Layer > 0 {
				m.Layer--
				m.Cursor = 0
				if m.Layer < m.Offset {
					m.Offset = m.Layer
				}
			}
		case "down", "j":
			if m.Layer < len(m.Org.Layers)-1 {
				m.Layer++
				m.Cursor = 0
				if m.Layer >= m.Offset+m.Height {
					m.Offset = m.Layer - m.Height + 1
				}
			}
		case "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l":
			if m.Cursor < len(m.currentLayer())-1 {
				m.Cursor++
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-16, 3)
	}
	return m, nil
}

func (m LayerBrowser) currentLayer() transform.Layer {
	if m.Layer < 0 || m.Layer >= len(m.Org.Layers) {
		return nil
	}
	return m.Org.Layers[m.Layer]
}

// Selected returns the id under the cursor, or "" when there are no layers.
func (m LayerBrowser) Selected() string {
	layer := m.currentLayer()
	if m.Cursor < 0 || m.Cursor >= len(layer) {
		return ""
	}
	return layer[m.Cursor]
}

func (m LayerBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layers"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ layer  ←/→ module  q quit"))
	b.WriteString("\n\n")

	if len(m.Org.Layers) == 0 {
		b.WriteString(listDimStyle.Render("  no layers"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Org.Layers))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.layerLine(i))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Layer+1, len(m.Org.Layers))))
	b.WriteString("\n\n")

	if id := m.Selected(); id != "" {
		b.WriteString(m.details(id))
	}
	if m.Org.Stalled() {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%s unplaced: %s", iconWarning, strings.Join(m.Org.Unplaced, ", "))))
		b.WriteString("\n")
	}

	return b.String()
}

// layerLine renders one layer row, highlighting the cursor on the selected layer.
func (m LayerBrowser) layerLine(i int) string {
	prefix := "  "
	if i == m.Layer {
		prefix = "▸ "
	}
	names := make([]string, len(m.Org.Layers[i]))
	for j, id := range m.Org.Layers[i] {
		switch {
		case i == m.Layer && j == m.Cursor:
			names[j] = listSelectedStyle.Render("[" + id + "]")
		case i == m.Layer:
			names[j] = listNormalStyle.Render(id)
		default:
			names[j] = listDimStyle.Render(id)
		}
	}
	return prefix + StyleNumber.Render(fmt.Sprintf("%2d", i)) + "  " + strings.Join(names, " ")
}

// details describes the selected module: what it depends on, what depends
// on it, and the cycles it lies on.
func (m LayerBrowser) details(id string) string {
	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(id))
	b.WriteString("\n")

	rel := m.Org.Relationships
	if rel != nil {
		b.WriteString(m.relatedLine("depends on", rel.Dependencies[id], true))
		b.WriteString(m.relatedLine("used by", rel.Parents[id], false))
	}
	if m.Org.Cycles != nil {
		for _, c := range m.Org.Cycles.Membership(id).Paths {
			b.WriteString("  " + styleCycle.Render(iconCycle+" "+c.String()) + "\n")
		}
	}
	return b.String()
}

// relatedLine lists ids with their layers. For dependencies, targets in the
// same or a higher layer are highlighted as back edges.
func (m LayerBrowser) relatedLine(label string, ids []string, deps bool) string {
	if len(ids) == 0 {
		return "  " + listDimStyle.Render(label+": none") + "\n"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		layer := m.Org.Layers.Index(id)
		text := fmt.Sprintf("%s (%d)", id, layer)
		if layer < 0 {
			text = id + " (unplaced)"
		}
		if deps && layer >= 0 && layer <= m.Layer {
			parts[i] = styleBack.Render(text)
			continue
		}
		parts[i] = listNormalStyle.Render(text)
	}
	return "  " + listDimStyle.Render(label+":") + " " + strings.Join(parts, ", ") + "\n"
}
