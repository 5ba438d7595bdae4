package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deplayer/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for deplayer.

To load completions:

Bash:
  $ source <(deplayer completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ deplayer completion bash > /etc/bash_completion.d/deplayer
  # macOS:
  $ deplayer completion bash > $(brew --prefix)/etc/bash_completion.d/deplayer

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ deplayer completion zsh > "${fpath[1]}/_deplayer"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ deplayer completion fish | source

  # To load completions for each session, execute once:
  $ deplayer completion fish > ~/.config/fish/completions/deplayer.fish

PowerShell:
  PS> deplayer completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> deplayer completion powershell > deplayer.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// fixedCompletions completes a flag from a fixed list of values.
func fixedCompletions(values []string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// formatCompletions completes comma-separated format lists.
func formatCompletions(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]cobra.Completion, len(pipeline.ValidFormats))
	for i, f := range pipeline.ValidFormats {
		out[i] = prefix + f
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
