// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"shutl/internal/config"
	"shutl/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `shutl config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shutl configuration",
		Long: `Manage shutl configuration.

Configuration is stored in:
  - Linux: ~/.config/shutl/config.toml
  - macOS: ~/Library/Application Support/shutl/config.toml
  - Windows: %APPDATA%\shutl\config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
			if err != nil {
				return err
			}

			tomlContent, err := config.GenerateTOML(cfg)
			if err != nil {
				return err
			}
			fmt.Print(tomlContent)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if path, ok := configFilePath(); ok {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	resolvedDir, dirErr := config.ScriptsDir(cfg)
	if dirErr == nil {
		fmt.Printf("%s: %s\n", keyStyle.Render("Scripts dir"), resolvedDir)
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("scripts_dir"), valueStyle.Render(displayValue(cfg.ScriptsDir)))
	fmt.Printf("%s: %s\n", keyStyle.Render("env_prefix"), valueStyle.Render(cfg.EnvPrefix.String()))
	fmt.Printf("%s: %s\n", keyStyle.Render("default_runtime"), valueStyle.Render(cfg.DefaultRuntime.String()))
	fmt.Printf("%s: %s\n", keyStyle.Render("ui.verbose"), valueStyle.Render(fmt.Sprintf("%t", cfg.UI.Verbose)))

	return nil
}

func initConfigFile() error {
	path, err := config.CreateDefaultConfig()
	if err != nil {
		return err
	}

	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath() error {
	if path, ok := configFilePath(); ok {
		fmt.Println(path)
		return nil
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Println(filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
	fmt.Println(SubtitleStyle.Render("(file does not exist yet - run 'shutl config init')"))
	return nil
}

// configFilePath reports the config file in effect, if one exists on disk.
func configFilePath() (string, bool) {
	if cfgFile != "" {
		return cfgFile, true
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return "", false
	}

	path := filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// displayValue renders an optional config value for `config show`.
func displayValue(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
