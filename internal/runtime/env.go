// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"strings"

	"shutl/pkg/scriptfile"
)

const (
	// additionalArgsSuffix names the variable carrying the catch-all tokens.
	additionalArgsSuffix = "ADDITIONAL_ARGS"
	// trailingArgsSuffix names the variable carrying the post-`--` tokens.
	trailingArgsSuffix = "TRAILING_ARGS"
)

// BuildInvocationEnv maps a resolved invocation onto the environment contract
// scripts read from.
//
// Every declared argument and flag becomes <PREFIX>_<UPPER_SNAKE(name)>
// (hyphens to underscores); bool flags hold the literals "true"/"false".
// When the command declares a catch-all, <PREFIX>_ADDITIONAL_ARGS holds the
// extra tokens space-joined (empty string when none were passed, so scripts
// can test for presence without tripping on unset variables). Trailing
// tokens after a literal `--` land in <PREFIX>_TRAILING_ARGS, space-joined,
// only when present.
//
// The space join is lossy for tokens containing spaces; that is the
// documented contract, matching what a shell consumer can split portably.
func BuildInvocationEnv(cmd *scriptfile.Command, inv *scriptfile.ResolvedInvocation, prefix string) map[string]string {
	env := make(map[string]string, len(inv.Positionals)+len(inv.Flags)+2)

	for name, value := range inv.Positionals {
		env[EnvVarName(prefix, name)] = value
	}
	for name, value := range inv.Flags {
		env[EnvVarName(prefix, name)] = value
	}

	if cmd.CatchAll != nil {
		env[prefix+"_"+additionalArgsSuffix] = strings.Join(inv.CatchAll, " ")
	}
	if len(inv.Trailing) > 0 {
		env[prefix+"_"+trailingArgsSuffix] = strings.Join(inv.Trailing, " ")
	}

	return env
}

// EnvVarName converts a declared argument or flag name to its environment
// variable form: "dry-run" with prefix "CLI" becomes "CLI_DRY_RUN".
func EnvVarName(prefix, name string) string {
	upper := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return prefix + "_" + upper
}
