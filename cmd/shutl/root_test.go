// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"shutl/internal/discovery"
	"shutl/internal/issue"
)

func TestApplyEarlyFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantVerbose bool
		wantCfgFile string
	}{
		{
			name: "nothing",
			args: []string{"deploy", "staging"},
		},
		{
			name:        "verbose long",
			args:        []string{"--verbose", "deploy"},
			wantVerbose: true,
		},
		{
			name:        "verbose short",
			args:        []string{"-v"},
			wantVerbose: true,
		},
		{
			name:        "hidden alias",
			args:        []string{"deploy", "--shutl-verbose"},
			wantVerbose: true,
		},
		{
			name:        "config with separate value",
			args:        []string{"--config", "/tmp/custom.toml", "deploy"},
			wantCfgFile: "/tmp/custom.toml",
		},
		{
			name:        "config with equals",
			args:        []string{"--config=/tmp/custom.toml"},
			wantCfgFile: "/tmp/custom.toml",
		},
		{
			name: "tokens after double dash are left alone",
			args: []string{"deploy", "--", "--verbose", "--config=/tmp/x.toml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVerbose, origCfgFile := verbose, cfgFile
			defer func() { verbose, cfgFile = origVerbose, origCfgFile }()
			verbose, cfgFile = false, ""

			applyEarlyFlags(tt.args)

			if verbose != tt.wantVerbose {
				t.Errorf("verbose = %t, want %t", verbose, tt.wantVerbose)
			}
			if cfgFile != tt.wantCfgFile {
				t.Errorf("cfgFile = %q, want %q", cfgFile, tt.wantCfgFile)
			}
		})
	}
}

func TestRunRootUnknownCommandExitsTwo(t *testing.T) {
	err := runRoot(rootCmd, []string{"bogus"})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("runRoot returned %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2 for an unknown command", exitErr.Code)
	}
	if !errors.Is(err, discovery.ErrNotFound) {
		t.Errorf("error chain %v should include ErrNotFound", err)
	}
}

func TestFlagErrorToExitError(t *testing.T) {
	err := flagErrorToExitError(rootCmd, errors.New("unknown flag: --bogus"))

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("flagErrorToExitError returned %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2", exitErr.Code)
	}
	if !strings.Contains(err.Error(), "unknown flag") {
		t.Errorf("error %q lost the flag parse message", err)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	if got := formatErrorForDisplay(errors.New("plain"), false); got != "plain" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}

	ae := issue.Wrap(errors.New("bad TOML"), "load configuration").
		WithHint("Check the TOML syntax")
	wrapped := fmt.Errorf("startup: %w", ae)
	got := formatErrorForDisplay(wrapped, false)
	if !strings.Contains(got, "failed to load configuration") || !strings.Contains(got, "Check the TOML syntax") {
		t.Errorf("formatErrorForDisplay() = %q, want the hinted form", got)
	}
}

func TestWriteCompletionScript(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeCompletionScript(rootCmd, shell, &buf); err != nil {
				t.Fatalf("writeCompletionScript(%s): %v", shell, err)
			}
			if !strings.Contains(buf.String(), "shutl") {
				t.Errorf("%s completion script does not mention shutl", shell)
			}
		})
	}
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	defer func() { Version, Commit, BuildDate = origVersion, origCommit, origDate }()

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version, Commit, BuildDate = "1.2.3", "abc123", "2026-01-01"
	got := getVersionString()
	for _, want := range []string{"1.2.3", "abc123", "2026-01-01"} {
		if !strings.Contains(got, want) {
			t.Errorf("getVersionString() = %q, missing %q", got, want)
		}
	}
}
