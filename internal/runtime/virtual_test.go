// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"strings"
	"testing"
)

func TestVirtualExecuteShellScript(t *testing.T) {
	t.Parallel()

	path := writeTestScript(t, "greet.sh", "echo \"hi $CLI_NAME\"\n", 0o644)

	var stdout bytes.Buffer
	ctx := NewExecutionContext(path)
	ctx.Interpreter = "bash"
	ctx.ExtraEnv = map[string]string{"CLI_NAME": "virtual"}
	ctx.Stdout = &stdout
	ctx.Stdin = strings.NewReader("")

	result := NewVirtualRuntime().Execute(ctx)
	if !result.Success() {
		t.Fatalf("Execute() = %+v, want success", result)
	}
	if got := strings.TrimSpace(stdout.String()); got != "hi virtual" {
		t.Errorf("stdout = %q, want 'hi virtual'", got)
	}
}

func TestVirtualExecuteForwardsExitCode(t *testing.T) {
	t.Parallel()

	path := writeTestScript(t, "fail.sh", "exit 7\n", 0o644)

	ctx := NewExecutionContext(path)
	ctx.Stdout = &bytes.Buffer{}
	ctx.Stderr = &bytes.Buffer{}
	ctx.Stdin = strings.NewReader("")

	result := NewVirtualRuntime().Execute(ctx)
	if result.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", result.ExitCode)
	}
	if result.Error != nil {
		t.Errorf("Error = %v, want nil for a clean non-zero exit", result.Error)
	}
}

func TestVirtualValidateRejectsForeignInterpreters(t *testing.T) {
	t.Parallel()

	path := writeTestScript(t, "tool.py", "print('nope')\n", 0o644)

	ctx := NewExecutionContext(path)
	ctx.Interpreter = "python3"

	if err := NewVirtualRuntime().Validate(ctx); err == nil {
		t.Fatal("Validate() accepted a python script, want error")
	}
}

func TestVirtualValidateRejectsBadSyntax(t *testing.T) {
	t.Parallel()

	path := writeTestScript(t, "broken.sh", "if then fi do\n", 0o644)

	ctx := NewExecutionContext(path)
	if err := NewVirtualRuntime().Validate(ctx); err == nil {
		t.Fatal("Validate() accepted a syntactically broken script, want error")
	}
}

func TestVirtualExecuteRespectsWorkDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTestScript(t, "pwd.sh", "pwd\n", 0o644)

	var stdout bytes.Buffer
	ctx := NewExecutionContext(path)
	ctx.WorkDir = dir
	ctx.Stdout = &stdout
	ctx.Stdin = strings.NewReader("")

	result := NewVirtualRuntime().Execute(ctx)
	if !result.Success() {
		t.Fatalf("Execute() = %+v, want success", result)
	}
	if got := strings.TrimSpace(stdout.String()); got != dir {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}
