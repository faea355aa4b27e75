// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"shutl/internal/discovery"

	"github.com/spf13/cobra"
)

// listCmd renders the discovered command tree. Running bare `shutl` does the
// same thing.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available commands",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	if scanSet == nil {
		return fmt.Errorf("scripts directory was not scanned")
	}
	renderCommandTree(os.Stdout, scanSet, scriptsDir)
	return nil
}

// renderCommandTree writes the command tree with descriptions, namespaces
// indented under their parents.
func renderCommandTree(w io.Writer, set *discovery.CommandSet, root string) {
	header := TitleStyle.Render("shutl") + SubtitleStyle.Render(" - available commands")
	if root != "" {
		header += SubtitleStyle.Render(" (" + root + ")")
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w)

	if len(set.Commands) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No commands yet."))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create your first script with "+CmdStyle.Render("shutl new <name>"))
		return
	}

	writeTreeLevel(w, set, nil, 1)
}

// writeTreeLevel writes the commands and namespaces directly under prefix.
func writeTreeLevel(w io.Writer, set *discovery.CommandSet, prefix []string, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, info := range set.Commands {
		if len(info.Segments) != len(prefix)+1 || !segmentsHavePrefix(info.Segments, prefix) {
			continue
		}
		desc := info.Description
		if info.Err != nil {
			desc = ErrorStyle.Render("(metadata error)")
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, CmdStyle.Render(padName(lastSegment(info.Segments))), desc)
	}

	for _, ns := range set.Namespaces {
		if len(ns.Segments) != len(prefix)+1 || !segmentsHavePrefix(ns.Segments, prefix) {
			continue
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, TitleStyle.Render(padName(lastSegment(ns.Segments))), SubtitleStyle.Render(ns.Description))
		writeTreeLevel(w, set, ns.Segments, depth+1)
	}
}

// segmentsHavePrefix reports whether segments starts with prefix.
func segmentsHavePrefix(segments, prefix []string) bool {
	if len(segments) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if segments[i] != p {
			return false
		}
	}
	return true
}

func lastSegment(segments []string) string {
	return segments[len(segments)-1]
}

func padName(name string) string {
	return fmt.Sprintf("%-20s", name)
}
