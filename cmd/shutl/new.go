// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shutl/internal/config"

	"github.com/spf13/cobra"
)

var (
	newType   string
	newNoEdit bool

	// newCmd scaffolds a new command script in the scripts directory.
	newCmd = &cobra.Command{
		Use:   "new <name>...",
		Short: "Create a new command script",
		Long: `Create a new command script in the scripts directory.

Multiple name segments create the script inside nested namespace
directories: 'shutl new db migrate' writes <scripts dir>/db/migrate.

The new script is made executable, pre-filled with a metadata template,
and opened in $EDITOR (default: vim) unless --no-edit is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runNew,
	}
)

// scriptTemplates maps --type values to shebang line and example body.
var scriptTemplates = map[string]struct {
	shebang string
	body    string
}{
	"bash":   {"#!/usr/bin/env bash", "echo \"hello ${%s_NAME}\"\n"},
	"zsh":    {"#!/usr/bin/env zsh", "echo \"hello ${%s_NAME}\"\n"},
	"python": {"#!/usr/bin/env python3", "import os\n\nprint(f\"hello {os.environ['%s_NAME']}\")\n"},
	"ruby":   {"#!/usr/bin/env ruby", "puts \"hello #{ENV['%s_NAME']}\"\n"},
	"node":   {"#!/usr/bin/env node", "console.log(`hello ${process.env.%s_NAME}`);\n"},
}

func init() {
	newCmd.Flags().StringVarP(&newType, "type", "t", "bash", "script type (bash, zsh, python, ruby, node)")
	newCmd.Flags().BoolVar(&newNoEdit, "no-edit", false, "do not open the new script in $EDITOR")

	_ = newCmd.RegisterFlagCompletionFunc("type",
		func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"bash", "zsh", "python", "ruby", "node"}, cobra.ShellCompDirectiveNoFileComp
		})
}

func runNew(cmd *cobra.Command, args []string) error {
	tmpl, ok := scriptTemplates[newType]
	if !ok {
		return fmt.Errorf("unknown script type %q (valid: bash, zsh, python, ruby, node)", newType)
	}

	cfg := rootCfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	dir, err := config.EnsureScriptsDir(cfg)
	if err != nil {
		return err
	}

	path := filepath.Join(append([]string{dir}, args...)...)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("script '%s' already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create namespace directory: %w", err)
	}

	name := args[len(args)-1]
	content := generateScript(tmpl.shebang, tmpl.body, name, cfg.EnvPrefix.String())
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}

	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), path)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Fill in the metadata block and the script body")
	fmt.Printf("  2. Run 'shutl %s' to execute it\n", strings.Join(args, " "))

	if newNoEdit {
		return nil
	}
	return openEditor(path)
}

// generateScript renders the scaffold: shebang, metadata block, example body.
func generateScript(shebang, body, name, envPrefix string) string {
	var b strings.Builder

	b.WriteString(shebang + "\n")
	fmt.Fprintf(&b, "#@description: The %s command\n", name)
	b.WriteString("#@arg:name - Who to greet [default:world]\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, body, envPrefix)

	return b.String()
}
