// Package cli implements the deplayer command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deplayer/pkg/buildinfo"
	"github.com/matzehuels/deplayer/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "deplayer"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	flags      layoutFlags
}

// layoutFlags are the persistent flags shared by every command that runs
// the layout engine. They override values from the config file.
type layoutFlags struct {
	xMargin    float64
	yMargin    float64
	rule       string
	hideStdlib bool
	strict     bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Deplayer arranges dependency graphs into layers",
		Long:         `Deplayer is a CLI tool that assigns the modules of a dependency graph to horizontal layers, threading cycles through in a fixed order, and computes box coordinates for drawing the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/deplayer/config.toml)")
	pf.Float64Var(&c.flags.xMargin, "x-margin", 0, "horizontal gap between boxes in a layer (default 20)")
	pf.Float64Var(&c.flags.yMargin, "y-margin", 0, "vertical gap between layers (default 75)")
	pf.StringVar(&c.flags.rule, "rule", "", "cycle threading rule: discovery (default), lexicographic")
	pf.BoolVar(&c.flags.hideStdlib, "hide-stdlib", false, "drop standard library modules")
	pf.BoolVar(&c.flags.strict, "strict", false, "fail when some modules cannot be placed")
	_ = root.RegisterFlagCompletionFunc("rule", fixedCompletions(pipeline.ValidRules))

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// options builds pipeline options from the config file, then applies every
// layout flag the user set explicitly.
func (c *CLI) options(cmd *cobra.Command) (pipeline.Options, Config, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return pipeline.Options{}, Config{}, err
	}
	opts := cfg.Options()

	flags := cmd.Flags()
	if flags.Changed("x-margin") {
		opts.XMargin = c.flags.xMargin
	}
	if flags.Changed("y-margin") {
		opts.YMargin = c.flags.yMargin
	}
	if flags.Changed("rule") {
		opts.Rule = c.flags.rule
	}
	if flags.Changed("hide-stdlib") {
		opts.HideStdlib = c.flags.hideStdlib
	}
	if flags.Changed("strict") {
		opts.Strict = c.flags.strict
	}
	opts.Logger = c.Logger

	if err := opts.ValidateForLayout(); err != nil {
		return pipeline.Options{}, Config{}, err
	}
	return opts, cfg, nil
}
