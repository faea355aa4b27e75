// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"shutl/internal/discovery"
	"shutl/internal/issue"

	"github.com/spf13/cobra"
)

// editCmd opens a discovered command's script in the user's editor.
var editCmd = &cobra.Command{
	Use:   "edit <command>...",
	Short: "Open a command's script in $EDITOR",
	Long: `Resolve a command by its (possibly namespaced) name and open the
backing script in $EDITOR (default: vim).

Example:
  shutl edit db migrate`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeScriptCommands,
	RunE:              runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	if scanSet == nil {
		return fmt.Errorf("scripts directory was not scanned")
	}

	info, err := scanSet.Resolve(args)
	if err != nil {
		if errors.Is(err, discovery.ErrNotFound) {
			renderIssue(issue.CommandNotFoundId)
		}
		return &ExitError{Code: 2, Err: err}
	}

	return openEditor(info.Path)
}

// openEditor runs $EDITOR (default: vim) on path with the terminal attached.
func openEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		return issue.Wrap(err, "open editor").
			WithResource(editor).
			WithHint("Set EDITOR to an installed editor")
	}
	return nil
}

// completeScriptCommands completes the next name segment of a discovered
// command, given the segments typed so far.
func completeScriptCommands(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if scanSet == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	seen := make(map[string]bool)
	var out []string
	for _, info := range scanSet.Commands {
		if len(info.Segments) <= len(args) || !segmentsHavePrefix(info.Segments, args) {
			continue
		}
		next := info.Segments[len(args)]
		if !seen[next] {
			seen[next] = true
			out = append(out, next)
		}
	}

	return out, cobra.ShellCompDirectiveNoFileComp
}
