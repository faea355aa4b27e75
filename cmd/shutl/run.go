// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"

	"shutl/internal/config"
	"shutl/internal/discovery"
	"shutl/internal/issue"
	"shutl/internal/runtime"
	"shutl/pkg/scriptfile"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// runtimes holds the execution runtimes scripts can be dispatched to.
var runtimes = runtime.NewRegistry()

// runScript validates the invocation against the script's schema, builds the
// environment contract and hands the script to the selected runtime.
//
// Exit codes: the script's own code is forwarded verbatim; validation and
// resolution problems exit 2 before anything is spawned; spawn failures exit 1.
func runScript(cmd *cobra.Command, info *discovery.CommandInfo, cfg *config.Config, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	mode, err := effectiveRuntimeMode(cfg)
	if err != nil {
		renderIssue(issue.InvalidRuntimeModeId)
		return &ExitError{Code: 2, Err: err}
	}

	inv, err := info.Command.Resolve(args, cmd.Flags().ArgsLenAtDash(), collectFlagInputs(cmd, info.Command), workDir)
	if err != nil {
		if errors.Is(err, scriptfile.ErrValidation) && verbose {
			renderIssue(issue.ValidationFailedId)
		}
		return &ExitError{Code: 2, Err: err}
	}

	ectx := runtime.NewExecutionContext(info.Path)
	ectx.Context = cmd.Context()
	ectx.Executable = info.Executable
	ectx.Interpreter = info.Interpreter
	ectx.WorkDir = workDir
	ectx.ExtraEnv = runtime.BuildInvocationEnv(info.Command, inv, cfg.EnvPrefix.String())

	typ := selectRuntimeType(mode, info)
	log.Debug("executing script",
		"command", info.Name, "path", info.Path, "runtime", string(typ))

	result := runtimes.Execute(typ, ectx)
	if result.Error != nil {
		if id := issueForRunFailure(result.Error); id != 0 {
			renderIssue(id)
		}
		return &ExitError{Code: result.ExitCode, Err: result.Error}
	}
	if result.ExitCode != 0 {
		// Clean non-zero exit from the script itself: no error message, the
		// script already said what it had to say.
		return &ExitError{Code: result.ExitCode}
	}

	return nil
}

// issueForRunFailure maps an execution failure onto the help card explaining
// it. Returns 0 when no card applies.
func issueForRunFailure(err error) issue.Id {
	switch {
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, runtime.ErrNotRunnable):
		return issue.ScriptNotRunnableId
	case errors.Is(err, runtime.ErrInterpreterNotFound):
		return issue.InterpreterNotFoundId
	case errors.Is(err, runtime.ErrSpawn):
		return issue.ScriptExecutionFailedId
	}
	return 0
}

// effectiveRuntimeMode resolves the runtime mode from the --shutl-runtime
// override and the configured default.
func effectiveRuntimeMode(cfg *config.Config) (config.RuntimeMode, error) {
	mode := cfg.DefaultRuntime
	if runtimeOverride != "" {
		mode = config.RuntimeMode(runtimeOverride)
	}
	if ok, errs := mode.IsValid(); !ok {
		return "", errs[0]
	}
	return mode, nil
}

// selectRuntimeType maps the configured mode onto a concrete runtime for one
// script. The virtual runtime only understands shell, so scripts with any
// other interpreter stay native regardless of the mode.
func selectRuntimeType(mode config.RuntimeMode, info *discovery.CommandInfo) runtime.RuntimeType {
	if mode == config.RuntimeVirtual && info.Interpreter == "bash" {
		return runtime.RuntimeTypeVirtual
	}
	return runtime.RuntimeTypeNative
}
