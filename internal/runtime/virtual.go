// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime executes shell scripts in the embedded mvdan/sh interpreter
// instead of spawning a host shell. It only handles shell scripts; scripts
// bound to another interpreter (python3, ruby, node) stay on the native
// runtime.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name
func (r *VirtualRuntime) Name() string {
	return "virtual"
}

// Available returns whether this runtime is available
func (r *VirtualRuntime) Available() bool {
	// The interpreter is compiled in.
	return true
}

// Validate checks if a script can be executed
func (r *VirtualRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Interpreter != "" && ctx.Interpreter != "bash" {
		return fmt.Errorf("virtual runtime cannot run %s scripts (interpreter %q); use the native runtime", ctx.ScriptPath, ctx.Interpreter)
	}

	script, err := os.ReadFile(ctx.ScriptPath)
	if err != nil {
		return fmt.Errorf("script %s: %w", ctx.ScriptPath, err)
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(string(script)), ctx.ScriptPath); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}

	return nil
}

// Execute runs the script in the embedded interpreter with the same env
// contract as the native runtime.
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	script, err := os.ReadFile(ctx.ScriptPath)
	if err != nil {
		return &Result{ExitCode: 1, Error: &SpawnError{Path: ctx.ScriptPath, Err: err}}
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(string(script)), ctx.ScriptPath)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to parse script: %w", err)}
	}

	environ := append(os.Environ(), EnvToSlice(ctx.ExtraEnv)...)

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(environ...)),
		interp.StdIO(ctx.Stdin, ctx.Stdout, ctx.Stderr),
	}
	if ctx.WorkDir != "" {
		opts = append(opts, interp.Dir(ctx.WorkDir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	execCtx := ctx.Context
	if execCtx == nil {
		execCtx = context.Background()
	}

	if err := runner.Run(execCtx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &Result{ExitCode: int(exitStatus)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("script execution failed: %w", err)}
	}

	return &Result{ExitCode: 0}
}
