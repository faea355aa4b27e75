// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"os"
	"os/exec"
)

// NativeRuntime executes scripts as child processes on the host.
// Executable scripts run directly (the kernel honors their shebang);
// non-executable scripts run through the interpreter for their extension.
type NativeRuntime struct{}

// NewNativeRuntime creates a new native runtime
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Name returns the runtime name
func (r *NativeRuntime) Name() string {
	return "native"
}

// Available returns whether this runtime is available
func (r *NativeRuntime) Available() bool {
	// Spawning child processes always works; missing interpreters surface
	// per-script in Validate.
	return true
}

// Validate checks if a script can be executed
func (r *NativeRuntime) Validate(ctx *ExecutionContext) error {
	if _, err := os.Stat(ctx.ScriptPath); err != nil {
		return fmt.Errorf("script %s: %w", ctx.ScriptPath, err)
	}
	if !ctx.Executable {
		if ctx.Interpreter == "" {
			return fmt.Errorf("%w: %s has no executable bit and no recognized interpreter extension", ErrNotRunnable, ctx.ScriptPath)
		}
		if _, err := exec.LookPath(ctx.Interpreter); err != nil {
			return fmt.Errorf("%w: %q for %s: %v", ErrInterpreterNotFound, ctx.Interpreter, ctx.ScriptPath, err)
		}
	}
	return nil
}

// Execute runs the script and forwards its exit code. Values flow to the
// script exclusively through ExtraEnv; no positional argv is passed.
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	var cmd *exec.Cmd
	if ctx.Executable {
		cmd = exec.CommandContext(ctx.Context, ctx.ScriptPath)
	} else {
		cmd = exec.CommandContext(ctx.Context, ctx.Interpreter, ctx.ScriptPath)
	}

	if ctx.WorkDir != "" {
		cmd.Dir = ctx.WorkDir
	}

	cmd.Env = append(os.Environ(), EnvToSlice(ctx.ExtraEnv)...)

	cmd.Stdout = ctx.Stdout
	cmd.Stderr = ctx.Stderr
	cmd.Stdin = ctx.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &Result{ExitCode: exitErr.ExitCode(), Error: nil}
		}
		return &Result{ExitCode: 1, Error: &SpawnError{Path: ctx.ScriptPath, Err: err}}
	}

	return &Result{ExitCode: 0}
}
