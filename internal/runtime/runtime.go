// SPDX-License-Identifier: MPL-2.0

// Package runtime provides the script execution runtime interface and implementations.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Runtime type constants for different execution environments.
const (
	RuntimeTypeNative  RuntimeType = "native"
	RuntimeTypeVirtual RuntimeType = "virtual"
)

var (
	// ErrSpawn is the sentinel wrapped by every SpawnError.
	ErrSpawn = errors.New("failed to start script")
	// ErrNotRunnable marks a script with no executable bit and no
	// recognized interpreter extension.
	ErrNotRunnable = errors.New("script is not runnable")
	// ErrInterpreterNotFound marks a non-executable script whose interpreter
	// is not installed on this system.
	ErrInterpreterNotFound = errors.New("interpreter not found")
)

type (
	// ExecutionContext contains all information needed to execute a script
	ExecutionContext struct {
		// Context is the Go context for cancellation
		Context context.Context
		// ScriptPath is the absolute path of the script file
		ScriptPath string
		// Executable reports whether the script carries an executable bit.
		// Non-executable scripts run through Interpreter.
		Executable bool
		// Interpreter is the interpreter program for the script's extension
		// ("" when the extension is not recognized)
		Interpreter string
		// WorkDir overrides the working directory ("" inherits the caller's)
		WorkDir string
		// ExtraEnv contains the per-invocation environment variables layered
		// over the inherited host environment
		ExtraEnv map[string]string
		// Stdout is where to write standard output
		Stdout io.Writer
		// Stderr is where to write standard error
		Stderr io.Writer
		// Stdin is where to read standard input
		Stdin io.Reader
	}

	// Result contains the result of a script execution
	Result struct {
		// ExitCode is the exit code of the script
		ExitCode int
		// Error contains any error that occurred
		Error error
	}

	// SpawnError reports a script that could not be started at all (missing
	// interpreter, permission denied, exec format error). It is distinct from
	// a script that ran and exited non-zero. Wraps ErrSpawn for errors.Is().
	SpawnError struct {
		Path string
		Err  error
	}

	// Runtime defines the interface for script execution
	Runtime interface {
		// Name returns the runtime name
		Name() string
		// Execute runs a script in this runtime
		Execute(ctx *ExecutionContext) *Result
		// Available returns whether this runtime is available on the current system
		Available() bool
		// Validate checks if a script can be executed with this runtime
		Validate(ctx *ExecutionContext) error
	}

	// RuntimeType identifies the type of runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// Registry holds all available runtimes
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// Error implements the error interface for SpawnError.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause, so callers can
// test errors.Is(err, ErrSpawn) as well as errors.Is(err, os.ErrPermission).
func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawn, e.Err}
}

// NewExecutionContext creates a new execution context with inherited stdio.
func NewExecutionContext(scriptPath string) *ExecutionContext {
	return &ExecutionContext{
		Context:    context.Background(),
		ScriptPath: scriptPath,
		ExtraEnv:   make(map[string]string),
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
	}
}

// Success returns true if the script executed successfully
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// NewRegistry creates a registry with the built-in runtimes registered.
func NewRegistry() *Registry {
	r := &Registry{runtimes: make(map[RuntimeType]Runtime)}
	r.Register(RuntimeTypeNative, NewNativeRuntime())
	r.Register(RuntimeTypeVirtual, NewVirtualRuntime())
	return r
}

// Register adds a runtime to the registry
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("runtime '%s' not registered", typ)
	}
	return rt, nil
}

// Execute runs a script using the requested runtime, falling through the
// availability and validation checks first.
func (r *Registry) Execute(typ RuntimeType, ctx *ExecutionContext) *Result {
	rt, err := r.Get(typ)
	if err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	if !rt.Available() {
		return &Result{
			ExitCode: 1,
			Error:    fmt.Errorf("runtime '%s' is not available on this system", rt.Name()),
		}
	}

	if err := rt.Validate(ctx); err != nil {
		return &Result{ExitCode: 1, Error: err}
	}

	return rt.Execute(ctx)
}

// EnvToSlice converts a map of environment variables to a slice
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}
