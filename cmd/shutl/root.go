// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"shutl/internal/config"
	"shutl/internal/discovery"
	"shutl/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// runtimeOverride forces the execution runtime for this invocation
	runtimeOverride string

	// rootCfg is the configuration loaded at startup, shared by subcommands.
	rootCfg *config.Config
	// scanSet is the command tree discovered at startup. Nil when the
	// scripts directory could not be scanned.
	scanSet *discovery.CommandSet
	// scriptsDir is the directory scanSet was built from.
	scriptsDir string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "shutl",
		Short: "Turn a directory of shell scripts into a CLI",
		Long: TitleStyle.Render("shutl") + SubtitleStyle.Render(" - Turn a directory of shell scripts into a CLI") + `

shutl scans a scripts directory and exposes every executable script as a
subcommand. Scripts declare their interface in a leading comment block:

  #!/bin/bash
  #@description: Deploys the application
  #@arg:environment - Target environment [default:staging]
  #@flag:dry-run - Print the plan without applying it [bool]

Resolved arguments and flags reach the script as environment variables
(CLI_ENVIRONMENT, CLI_DRY_RUN, ...). Subdirectories become nested
subcommands.

` + SubtitleStyle.Render("Scripts directory:") + `
  1. $SHUTL_DIR, if set
  2. scripts_dir from the config file
  3. ~/.shutl (created on first run)

` + SubtitleStyle.Render("Examples:") + `
  shutl                     List all available commands
  shutl deploy staging      Run the 'deploy' script
  shutl db migrate          Run nested db/migrate script
  shutl new hello           Scaffold a new script
  shutl config show         Show current configuration`,
		// Arguments that match no subcommand fall through to RunE so that an
		// unknown name exits 2 instead of cobra's generic failure.
		Args: cobra.ArbitraryArgs,
		RunE: runRoot,
	}
)

// runRoot handles a bare `shutl` (list the commands) and any top-level token
// cobra could not route to a command (exit 2).
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		renderIssue(issue.CommandNotFoundId)
		return &ExitError{Code: 2, Err: &discovery.NotFoundError{Name: args[0]}}
	}
	return runList(cmd, args)
}

// flagErrorToExitError maps flag parse errors onto the exit-2 contract shared
// by all pre-run failures. Installed on the root, inherited by every
// subcommand.
func flagErrorToExitError(c *cobra.Command, err error) error {
	return &ExitError{Code: 2, Err: err}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/shutl/config.toml)")
	rootCmd.PersistentFlags().StringVar(&runtimeOverride, "shutl-runtime", "", "override the execution runtime (native|virtual)")

	// Alias kept for scripts that pass flags through verbatim; hidden so it
	// doesn't clutter the help of every generated command.
	rootCmd.PersistentFlags().BoolVar(&verbose, "shutl-verbose", false, "enable verbose output")
	_ = rootCmd.PersistentFlags().MarkHidden("shutl-verbose")

	rootCmd.SetFlagErrorFunc(flagErrorToExitError)

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the dynamic command tree and runs the root command.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// The command tree is generated from the scripts directory before cobra
	// ever parses argv, so the flags that influence tree building have to be
	// read ahead of the regular parse.
	applyEarlyFlags(os.Args[1:])
	initLogging()

	rootCfg = loadRootConfig()

	if err := buildScriptCommands(rootCmd, rootCfg); err != nil {
		werr := issue.Wrap(err, "build the command tree")
		var collision *discovery.CommandCollisionError
		if errors.As(err, &collision) {
			renderIssue(issue.CommandCollisionId)
			werr = werr.WithHint("Rename one of the colliding scripts")
		} else {
			renderIssue(issue.ScriptsDirNotFoundId)
			werr = werr.WithHint("Set SHUTL_DIR to an existing directory or run 'shutl config init'")
		}
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(werr, verbose))
		os.Exit(2)
	}

	// COMPLETE=bash (or zsh) prints the completion script and exits, so a
	// shell rc file can do: eval "$(COMPLETE=bash shutl)".
	if handled := runCompletionTrigger(os.Getenv("COMPLETE")); handled {
		return
	}

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// applyEarlyFlags scans argv for the few flags that must be known before the
// command tree exists. Cobra parses the same flags again later; the values
// agree because both read the same tokens.
func applyEarlyFlags(args []string) {
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--verbose" || arg == "-v" || arg == "--shutl-verbose":
			verbose = true
		case arg == "--config" && i+1 < len(args):
			cfgFile = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			cfgFile = strings.TrimPrefix(arg, "--config=")
		case arg == "--":
			return
		}
	}
}

// initLogging configures the shared logger according to the verbose flag.
func initLogging() {
	log.SetReportTimestamp(false)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// loadRootConfig loads the configuration, falling back to defaults when the
// config file is broken. A broken config never prevents running scripts; the
// problem is surfaced as a warning instead.
func loadRootConfig() *config.Config {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		werr := issue.Wrap(err, "load configuration").
			WithHint("Run 'shutl config init' to write a fresh config file").
			WithHint("Pass --config to point at a different file")
		if cfgFile != "" {
			werr = werr.WithResource(cfgFile)
		}
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(werr, verbose))
		cfg = config.DefaultConfig()
	}

	// Apply verbose from config if not set via flag
	if cfg.UI.Verbose && !verbose {
		verbose = true
		initLogging()
	}

	return cfg
}

// buildScriptCommands scans the scripts directory and registers every
// discovered script as a cobra command under parent.
func buildScriptCommands(parent *cobra.Command, cfg *config.Config) error {
	dir, err := config.EnsureScriptsDir(cfg)
	if err != nil {
		return err
	}

	result, err := discovery.New(dir).Scan()
	if err != nil {
		return err
	}

	reportDiagnostics(result.Diagnostics)
	scanSet = result.Set
	scriptsDir = dir
	registerScriptCommands(parent, result.Set, cfg)
	return nil
}

// reportDiagnostics prints scan diagnostics. Errors are always shown;
// warnings only in verbose mode.
func reportDiagnostics(diags []discovery.Diagnostic) {
	for _, d := range diags {
		switch d.Severity {
		case discovery.SeverityError:
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+d.Message)
		default:
			if verbose {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+d.Message)
			}
		}
	}
}

// renderIssue writes the markdown help card for an issue to stderr.
func renderIssue(id issue.Id) {
	i := issue.Get(id)
	if i == nil {
		return
	}
	if rendered, err := i.Render("dark"); err == nil {
		fmt.Fprint(os.Stderr, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
