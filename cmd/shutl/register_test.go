// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"shutl/internal/config"
	"shutl/internal/discovery"
	"shutl/pkg/scriptfile"

	"github.com/spf13/cobra"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("script execution tests are POSIX-only")
	}
}

// writeScript writes one script under dir, creating namespace subdirectories.
func writeScript(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// scanDir runs discovery over dir and fails the test on scan errors.
func scanDir(t *testing.T, dir string) *discovery.CommandSet {
	t.Helper()
	result, err := discovery.New(dir).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return result.Set
}

func TestRegisterScriptCommandsBuildsTree(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "deploy.sh", "#!/bin/sh\n#@description: Deploy the app\n", 0o755)
	writeScript(t, dir, "db/migrate.sh", "#!/bin/sh\n#@description: Run migrations\n", 0o755)
	writeScript(t, dir, "db/.shutl", "Database maintenance", 0o644)

	root := &cobra.Command{Use: "root"}
	registerScriptCommands(root, scanDir(t, dir), config.DefaultConfig())

	deploy, _, err := root.Find([]string{"deploy"})
	if err != nil || deploy.Name() != "deploy" {
		t.Fatalf("Find(deploy) = %v, %v", deploy, err)
	}
	if deploy.Short != "Deploy the app" {
		t.Errorf("deploy.Short = %q", deploy.Short)
	}

	migrate, _, err := root.Find([]string{"db", "migrate"})
	if err != nil || migrate.Name() != "migrate" {
		t.Fatalf("Find(db migrate) = %v, %v", migrate, err)
	}

	db, _, err := root.Find([]string{"db"})
	if err != nil {
		t.Fatalf("Find(db): %v", err)
	}
	if db.Short != "Database maintenance" {
		t.Errorf("db.Short = %q, want the .shutl description", db.Short)
	}
}

func TestRegisterScriptCommandsSkipsReservedNames(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "list.sh", "#!/bin/sh\n#@description: Impostor\n", 0o755)
	writeScript(t, dir, "ok.sh", "#!/bin/sh\n#@description: Fine\n", 0o755)

	root := &cobra.Command{Use: "root"}
	registerScriptCommands(root, scanDir(t, dir), config.DefaultConfig())

	for _, c := range root.Commands() {
		if c.Name() == "list" {
			t.Error("script shadowing the built-in 'list' command was registered")
		}
	}
	if _, _, err := root.Find([]string{"ok"}); err != nil {
		t.Errorf("Find(ok): %v", err)
	}
}

func TestCollectFlagInputs(t *testing.T) {
	schema := &scriptfile.Command{
		Name: "test",
		Flags: []scriptfile.Flag{
			{Name: "env", Description: "environment"},
			{Name: "dry-run", Kind: scriptfile.KindBool},
		},
	}

	tests := []struct {
		name string
		argv []string
		want map[string]scriptfile.FlagInput
	}{
		{
			name: "nothing set",
			argv: nil,
			want: map[string]scriptfile.FlagInput{
				"env":     {},
				"dry-run": {},
			},
		},
		{
			name: "string flag set",
			argv: []string{"--env", "prod"},
			want: map[string]scriptfile.FlagInput{
				"env":     {Value: "prod", Set: true},
				"dry-run": {},
			},
		},
		{
			name: "bool flag set",
			argv: []string{"--dry-run"},
			want: map[string]scriptfile.FlagInput{
				"env":     {},
				"dry-run": {Set: true},
			},
		},
		{
			name: "negated bool",
			argv: []string{"--no-dry-run"},
			want: map[string]scriptfile.FlagInput{
				"env":     {},
				"dry-run": {NegatedSet: true},
			},
		},
		{
			name: "explicit false counts as negated",
			argv: []string{"--dry-run=false"},
			want: map[string]scriptfile.FlagInput{
				"env":     {},
				"dry-run": {NegatedSet: true},
			},
		},
		{
			name: "both forms recorded for the conflict check",
			argv: []string{"--dry-run", "--no-dry-run"},
			want: map[string]scriptfile.FlagInput{
				"env":     {},
				"dry-run": {Set: true, NegatedSet: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cobra.Command{Use: "test"}
			registerSchemaFlags(c, schema)
			if err := c.ParseFlags(tt.argv); err != nil {
				t.Fatalf("ParseFlags(%v): %v", tt.argv, err)
			}

			got := collectFlagInputs(c, schema)
			for name, want := range tt.want {
				if got[name] != want {
					t.Errorf("input[%s] = %+v, want %+v", name, got[name], want)
				}
			}
		})
	}
}

func TestBuildUseString(t *testing.T) {
	tests := []struct {
		name   string
		schema *scriptfile.Command
		want   string
	}{
		{
			name:   "no args",
			schema: &scriptfile.Command{},
			want:   "deploy",
		},
		{
			name: "required and optional",
			schema: &scriptfile.Command{
				Args: []scriptfile.Argument{
					{Name: "env"},
					{Name: "region", HasDefault: true, DefaultValue: "eu"},
				},
			},
			want: "deploy <env> [region]",
		},
		{
			name: "catch-all",
			schema: &scriptfile.Command{
				Args:     []scriptfile.Argument{{Name: "env"}},
				CatchAll: &scriptfile.CatchAll{},
			},
			want: "deploy <env> [args...]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildUseString("deploy", tt.schema); got != tt.want {
				t.Errorf("buildUseString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunScriptEndToEnd(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeScript(t, dir, "greet.sh",
		"#!/bin/sh\n"+
			"#@description: Greet someone\n"+
			"#@arg:name - Who to greet [default:world]\n"+
			"#@flag:loud - Shout [bool]\n"+
			"echo \"$CLI_NAME $CLI_LOUD\" > \""+out+"\"\n",
		0o755)

	root := &cobra.Command{Use: "root"}
	registerScriptCommands(root, scanDir(t, dir), config.DefaultConfig())

	root.SetArgs([]string{"greet", "team", "--loud"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("script did not write its output: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "team true" {
		t.Errorf("script saw %q, want 'team true'", got)
	}
}

func TestRunScriptForwardsExitCode(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "fail.sh", "#!/bin/sh\n#@description: Always fails\nexit 3\n", 0o755)

	root := &cobra.Command{Use: "root", SilenceErrors: true}
	registerScriptCommands(root, scanDir(t, dir), config.DefaultConfig())

	root.SetArgs([]string{"fail"})
	err := root.Execute()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Execute returned %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3 forwarded verbatim", exitErr.Code)
	}
}

func TestRunScriptValidationFailureExitsTwo(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "deploy.sh",
		"#!/bin/sh\n#@description: Deploy\n#@flag:env - Target [required]\n", 0o755)

	root := &cobra.Command{Use: "root", SilenceErrors: true}
	registerScriptCommands(root, scanDir(t, dir), config.DefaultConfig())

	root.SetArgs([]string{"deploy"})
	err := root.Execute()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Execute returned %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2 for a validation failure", exitErr.Code)
	}
	if !errors.Is(err, scriptfile.ErrValidation) {
		t.Errorf("error chain %v should include ErrValidation", err)
	}
}

func TestUnknownFlagExitsTwo(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "deploy.sh", "#!/bin/sh\n#@description: Deploy\n", 0o755)

	root := &cobra.Command{Use: "root", SilenceErrors: true, SilenceUsage: true}
	root.SetFlagErrorFunc(flagErrorToExitError)
	registerScriptCommands(root, scanDir(t, dir), config.DefaultConfig())

	root.SetArgs([]string{"deploy", "--bogus"})
	err := root.Execute()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Execute returned %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2 for a flag parse error", exitErr.Code)
	}
}

func TestNamespaceUnknownChildExitsTwo(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "db/migrate.sh", "#!/bin/sh\n#@description: Run migrations\n", 0o755)

	root := &cobra.Command{Use: "root", SilenceErrors: true, SilenceUsage: true}
	registerScriptCommands(root, scanDir(t, dir), config.DefaultConfig())

	root.SetArgs([]string{"db", "bogus"})
	err := root.Execute()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Execute returned %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2 for an unknown subcommand", exitErr.Code)
	}
	if !errors.Is(err, discovery.ErrNotFound) {
		t.Errorf("error chain %v should include ErrNotFound", err)
	}
}

func TestBrokenScriptStaysInvocable(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeScript(t, dir, "broken.sh", "#!/bin/sh\n#@bogus: nope\n", 0o755)

	root := &cobra.Command{Use: "root", SilenceErrors: true}
	registerScriptCommands(root, scanDir(t, dir), config.DefaultConfig())

	root.SetArgs([]string{"broken"})
	err := root.Execute()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Execute returned %v, want *ExitError reporting the parse failure", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2", exitErr.Code)
	}
	if !errors.Is(err, scriptfile.ErrInvalidDirective) {
		t.Errorf("error chain %v should include ErrInvalidDirective", err)
	}
}
