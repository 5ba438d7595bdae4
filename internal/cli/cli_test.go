package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/deplayer/pkg/errors"
	"github.com/matzehuels/deplayer/pkg/graph"
)

const sampleJSON = `{
  "nodes": ["app", "app.db", "app.models", "os"],
  "edges": {
    "app": ["app.db", "os"],
    "app.db": ["app.models", "os"],
    "app.models": ["app.db"]
  },
  "packages": {
    "app": {"type": "Local", "modules": ["app", "app.db", "app.models"]},
    "python": {"type": "StandardLib", "modules": ["os"]}
  }
}`

// writeSample writes the sample descriptor into a temp dir and returns its path.
func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with args and returns stdout.
// XDG_CONFIG_HOME points to an empty dir so no user config is picked up.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func joinLayers(layers [][]string) string {
	parts := make([]string, len(layers))
	for i, l := range layers {
		parts[i] = strings.Join(l, ",")
	}
	return strings.Join(parts, " | ")
}

func TestLayoutCommand(t *testing.T) {
	input := writeSample(t)
	out, err := runCLI(t, "layout", input)
	if err != nil {
		t.Fatalf("layout error = %v", err)
	}
	if !strings.Contains(out, "Layout complete") {
		t.Errorf("output missing success line:\n%s", out)
	}

	want := strings.TrimSuffix(input, ".json") + ".layout.json"
	l, err := graph.ReadLayoutFile(want)
	if err != nil {
		t.Fatalf("ReadLayoutFile(%s) error = %v", want, err)
	}
	if got := joinLayers(l.Layers); got != "app | app.db | app.models,os" {
		t.Errorf("layers = %s, want app | app.db | app.models,os", got)
	}
	if len(l.Cycles) != 1 {
		t.Errorf("cycles = %v, want 1 cycle", l.Cycles)
	}
}

func TestLayoutCommandOptions(t *testing.T) {
	input := writeSample(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := "[layout]\nx_margin = 5.0\nrule = \"lexicographic\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		args       []string
		wantX      float64
		wantY      float64
		wantRule   string
		wantLayers string
	}{
		{
			name:       "defaults",
			args:       nil,
			wantX:      20,
			wantY:      75,
			wantRule:   "discovery",
			wantLayers: "app | app.db | app.models,os",
		},
		{
			name:       "config file",
			args:       []string{"--config", cfgPath},
			wantX:      5,
			wantY:      75,
			wantRule:   "lexicographic",
			wantLayers: "app | app.db | app.models,os",
		},
		{
			name:       "flags override config",
			args:       []string{"--config", cfgPath, "--x-margin", "7", "--rule", "discovery", "--y-margin", "10"},
			wantX:      7,
			wantY:      10,
			wantRule:   "discovery",
			wantLayers: "app | app.db | app.models,os",
		},
		{
			name:       "hide stdlib",
			args:       []string{"--hide-stdlib"},
			wantX:      20,
			wantY:      75,
			wantRule:   "discovery",
			wantLayers: "app | app.db | app.models",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"layout", input, "-o", "-"}, tt.args...)
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("layout error = %v", err)
			}
			l, err := graph.UnmarshalLayout([]byte(out))
			if err != nil {
				t.Fatalf("UnmarshalLayout() error = %v\n%s", err, out)
			}
			if l.XMargin != tt.wantX || l.YMargin != tt.wantY {
				t.Errorf("margins = %v, %v, want %v, %v", l.XMargin, l.YMargin, tt.wantX, tt.wantY)
			}
			if l.Rule != tt.wantRule {
				t.Errorf("rule = %q, want %q", l.Rule, tt.wantRule)
			}
			if got := joinLayers(l.Layers); got != tt.wantLayers {
				t.Errorf("layers = %s, want %s", got, tt.wantLayers)
			}
		})
	}
}

func TestLayoutCommandStdin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(sampleJSON))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"layout", "-"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout error = %v", err)
	}
	l, err := graph.UnmarshalLayout(out.Bytes())
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if len(l.Nodes) != 4 {
		t.Errorf("len(Nodes) = %d, want 4", len(l.Nodes))
	}
}

func TestCommandErrors(t *testing.T) {
	input := writeSample(t)
	missingCfg := filepath.Join(t.TempDir(), "absent.toml")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"invalid rule", []string{"layout", input, "--rule", "nope"}, errors.ErrCodeInvalidRule},
		{"negative margin", []string{"layout", input, "--x-margin", "-1"}, errors.ErrCodeInvalidInput},
		{"missing descriptor", []string{"layout", filepath.Join(t.TempDir(), "none.json")}, errors.ErrCodeFileNotFound},
		{"missing config", []string{"layout", input, "--config", missingCfg}, errors.ErrCodeFileNotFound},
		{"invalid format", []string{"render", input, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"invalid backend", []string{"render", input, "--backend", "dagre"}, errors.ErrCodeInvalidInput},
		{"stdout needs one format", []string{"render", input, "-f", "svg,dot", "-o", "-"}, errors.ErrCodeInvalidInput},
		{"bad scale", []string{"render", input, "--scale", "0"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeSample(t)
	out, err := runCLI(t, "render", input, "-f", "svg,DOT")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}

	base := strings.TrimSuffix(input, ".json")
	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg output missing <svg element")
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !bytes.Contains(dot, []byte("rank=same")) {
		t.Error("dot output missing rank=same groups")
	}
	if !strings.Contains(out, base+".svg") || !strings.Contains(out, base+".dot") {
		t.Errorf("output does not list written files:\n%s", out)
	}
}

func TestRenderCommandOutputPath(t *testing.T) {
	input := writeSample(t)
	target := filepath.Join(t.TempDir(), "drawing.dot")
	if _, err := runCLI(t, "render", input, "-f", "dot", "-o", target); err != nil {
		t.Fatalf("render error = %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("expected %s: %v", target, err)
	}
}

func TestLayersCommand(t *testing.T) {
	input := writeSample(t)
	out, err := runCLI(t, "layers", input)
	if err != nil {
		t.Fatalf("layers error = %v", err)
	}
	for _, want := range []string{"Layers", "app.models", "Cycles", "app.db -> app.models -> app.db"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLayersCommandAcyclic(t *testing.T) {
	input := filepath.Join(t.TempDir(), "acyclic.json")
	acyclic := `{"nodes": ["app", "lib"], "edges": {"app": ["lib"]}}`
	if err := os.WriteFile(input, []byte(acyclic), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "layers", input)
	if err != nil {
		t.Fatalf("layers error = %v", err)
	}
	if !strings.Contains(out, "no dependency cycles") {
		t.Errorf("output missing cycle notice:\n%s", out)
	}
	if strings.Contains(out, "Cycles") {
		t.Errorf("output has a cycles table:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error = %v", shell, err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
}
