// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCommand creates the `shutl completion` command.
func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for shutl.

Completions cover the generated script commands too: command names, flag
names (including the --no-* bool forms) and declared option sets.

To enable shell completions, run one of the following commands:

` + SubtitleStyle.Render("Bash:") + `
  # Add to ~/.bashrc:
  eval "$(shutl completion bash)"

  # Or install system-wide:
  shutl completion bash > /etc/bash_completion.d/shutl

` + SubtitleStyle.Render("Zsh:") + `
  # Add to ~/.zshrc:
  eval "$(shutl completion zsh)"

  # Or install to fpath:
  shutl completion zsh > "${fpath[1]}/_shutl"

` + SubtitleStyle.Render("Fish:") + `
  shutl completion fish > ~/.config/fish/completions/shutl.fish

` + SubtitleStyle.Render("PowerShell:") + `
  shutl completion powershell | Out-String | Invoke-Expression

  # Or add to $PROFILE:
  shutl completion powershell >> $PROFILE
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletionScript(cmd.Root(), args[0], os.Stdout)
		},
	}
}

// writeCompletionScript generates the completion script for one shell.
func writeCompletionScript(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletion(w)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return nil
}

// runCompletionTrigger implements the COMPLETE environment trigger: with
// COMPLETE=bash or COMPLETE=zsh the completion script is printed and the
// process is done. Any other value is ignored.
func runCompletionTrigger(shell string) bool {
	switch shell {
	case "bash", "zsh":
		if err := writeCompletionScript(rootCmd, shell, os.Stdout); err != nil {
			os.Exit(1)
		}
		return true
	default:
		return false
	}
}
