// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"shutl/internal/config"
	"shutl/internal/discovery"
	"shutl/internal/issue"
	"shutl/pkg/scriptfile"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// reservedNames are the built-in subcommands a script cannot shadow.
var reservedNames = map[string]bool{
	"list":       true,
	"new":        true,
	"edit":       true,
	"config":     true,
	"completion": true,
	"help":       true,
}

// registerScriptCommands materializes the discovered command tree as cobra
// commands under parent. Namespace directories become parent commands, scripts
// become leaves.
func registerScriptCommands(parent *cobra.Command, set *discovery.CommandSet, cfg *config.Config) {
	commandMap := make(map[string]*cobra.Command)

	for _, info := range set.Commands {
		if reservedNames[info.Segments[0]] {
			log.Warn("script shadows a built-in command, skipping", "command", info.Name, "path", info.Path)
			continue
		}

		node := parent
		prefix := ""

		for i, part := range info.Segments {
			if prefix != "" {
				prefix += " "
			}
			prefix += part

			if existing, ok := commandMap[prefix]; ok {
				node = existing
				continue
			}

			var newCmd *cobra.Command
			if i == len(info.Segments)-1 {
				newCmd = newScriptCommand(part, info, cfg)
			} else {
				newCmd = newNamespaceCommand(part, prefix, set)
			}

			node.AddCommand(newCmd)
			commandMap[prefix] = newCmd
			node = newCmd
		}
	}

	log.Debug("registered script commands",
		"commands", len(set.Commands), "namespaces", len(set.Namespaces))
}

// newNamespaceCommand creates the parent command for a scripts subdirectory.
// A .shutl file in the directory supplies the help text.
func newNamespaceCommand(part, prefix string, set *discovery.CommandSet) *cobra.Command {
	short := fmt.Sprintf("Commands under '%s'", prefix)
	if ns, ok := set.Namespace(strings.Fields(prefix)); ok && ns.Description != "" {
		short = ns.Description
	}

	return &cobra.Command{
		Use:   part,
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A token that matched no child is an unknown command, not a
			// request for the namespace help.
			if len(args) > 0 {
				renderIssue(issue.CommandNotFoundId)
				return &ExitError{Code: 2, Err: &discovery.NotFoundError{Name: prefix + " " + args[0]}}
			}
			return cmd.Help()
		},
	}
}

// newScriptCommand creates the leaf command for one discovered script.
func newScriptCommand(part string, info *discovery.CommandInfo, cfg *config.Config) *cobra.Command {
	if info.Err != nil {
		return newBrokenScriptCommand(part, info)
	}

	schema := info.Command

	c := &cobra.Command{
		Use:   buildUseString(part, schema),
		Short: info.Description,
		Long:  buildLongHelp(info, schema),
		// Positional validation happens in Resolve so that catch-all routing,
		// defaults and the exit-2 contract stay in one place.
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, info, cfg, args)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			// Past the declared positionals only a catch-all accepts more.
			if schema.CatchAll == nil && len(args) >= schema.MaxArgs() {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
	}

	registerSchemaFlags(c, schema)
	return c
}

// newBrokenScriptCommand keeps a script with a broken metadata block in the
// tree. Invoking it reports the parse error instead of "command not found".
func newBrokenScriptCommand(part string, info *discovery.CommandInfo) *cobra.Command {
	return &cobra.Command{
		Use:                part,
		Short:              "(metadata error)",
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderIssue(issue.MetadataParseErrorId)
			return &ExitError{Code: 2, Err: info.Err}
		},
	}
}

// registerSchemaFlags declares the script's flags on the cobra command.
// Bool flags get a visible `--no-<name>` counterpart; required checks are
// deferred to Resolve so that a missing flag exits 2 like every other
// validation failure.
func registerSchemaFlags(c *cobra.Command, schema *scriptfile.Command) {
	for i := range schema.Flags {
		f := &schema.Flags[i]

		if f.IsBool() {
			def := f.HasDefault && f.DefaultValue == "true"
			c.Flags().Bool(f.Name, def, f.Description)
			c.Flags().Bool(f.NegatedName(), false, "negate --"+f.Name)
			continue
		}

		c.Flags().String(f.Name, f.DefaultValue, f.Description)

		if len(f.Options) > 0 {
			name := f.Name
			_ = c.RegisterFlagCompletionFunc(name,
				func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
					if decl := schema.Flag(name); decl != nil {
						return decl.Options, cobra.ShellCompDirectiveNoFileComp
					}
					return nil, cobra.ShellCompDirectiveNoFileComp
				})
		}

		switch f.GetKind() {
		case scriptfile.KindFile:
			_ = c.MarkFlagFilename(f.Name)
		case scriptfile.KindDir:
			_ = c.MarkFlagDirname(f.Name)
		}
	}
}

// collectFlagInputs reads the parsed pflag state back into the neutral
// FlagInput form Resolve consumes.
func collectFlagInputs(c *cobra.Command, schema *scriptfile.Command) map[string]scriptfile.FlagInput {
	inputs := make(map[string]scriptfile.FlagInput, len(schema.Flags))
	fs := c.Flags()

	for i := range schema.Flags {
		f := &schema.Flags[i]
		var in scriptfile.FlagInput

		if f.IsBool() {
			if fs.Changed(f.Name) {
				// `--x=false` counts as the negated form.
				if v, _ := fs.GetBool(f.Name); v {
					in.Set = true
				} else {
					in.NegatedSet = true
				}
			}
			if fs.Changed(f.NegatedName()) {
				in.NegatedSet = true
			}
		} else {
			in.Value, _ = fs.GetString(f.Name)
			in.Set = fs.Changed(f.Name)
		}

		inputs[f.Name] = in
	}

	return inputs
}

// buildUseString builds the cobra Use string including argument placeholders.
func buildUseString(part string, schema *scriptfile.Command) string {
	parts := []string{part}

	for i := range schema.Args {
		arg := &schema.Args[i]
		if arg.Required() {
			parts = append(parts, "<"+arg.Name+">")
		} else {
			parts = append(parts, "["+arg.Name+"]")
		}
	}
	if schema.CatchAll != nil {
		parts = append(parts, "[args...]")
	}

	return strings.Join(parts, " ")
}

// buildLongHelp builds the long help text for a script command: where it
// lives, its arguments and the environment variables the script reads.
func buildLongHelp(info *discovery.CommandInfo, schema *scriptfile.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run the '%s' script from %s", info.Name, info.Path)

	if len(schema.Args) > 0 || schema.CatchAll != nil {
		b.WriteString("\n\nArguments")
		switch {
		case schema.CatchAll != nil:
			fmt.Fprintf(&b, " (at least %d)", schema.MinArgs())
		case schema.MinArgs() == schema.MaxArgs():
			fmt.Fprintf(&b, " (exactly %d)", schema.MinArgs())
		default:
			fmt.Fprintf(&b, " (%d to %d)", schema.MinArgs(), schema.MaxArgs())
		}
		b.WriteString(":\n")
		for i := range schema.Args {
			arg := &schema.Args[i]
			status := "(required)"
			if arg.HasDefault {
				status = fmt.Sprintf("(default: %q)", arg.DefaultValue)
			}
			fmt.Fprintf(&b, "  %-20s %s - %s\n", arg.Name, status, arg.Description)
		}
		if schema.CatchAll != nil {
			fmt.Fprintf(&b, "  %-20s %s - %s\n", "[extra args...]", "(optional)", schema.CatchAll.Description)
		}
	}

	return b.String()
}
