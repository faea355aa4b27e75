// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel wrapped by every ValidationError.
var ErrValidation = errors.New("invalid invocation")

type (
	// ValidationError reports an invocation that does not satisfy the
	// command schema: a missing required flag or argument, a value outside
	// the declared option set, a filesystem kind mismatch, an unexpected
	// positional, or conflicting bool forms. It wraps ErrValidation for
	// errors.Is() compatibility. The script is never executed when one of
	// these is returned.
	ValidationError struct {
		// Command is the command name (set by Resolve).
		Command string
		// Field names the offending flag (`--x`) or argument.
		Field string
		// Reason describes what was wrong.
		Reason string
	}

	// FlagInput is the raw state of one flag after token scanning:
	// whether the base form or the negated form was supplied, and the
	// textual value for valued flags.
	FlagInput struct {
		// Value is the supplied value (valued flags only).
		Value string
		// Set reports whether `--<name>` appeared in the invocation.
		Set bool
		// NegatedSet reports whether `--no-<name>` appeared (bool flags only).
		NegatedSet bool
	}

	// ResolvedInvocation maps every declared argument and flag to its final
	// string value after defaults and validation. Bool flags hold the
	// literals "true"/"false".
	ResolvedInvocation struct {
		// Positionals maps argument names to their bound or defaulted values.
		Positionals map[string]string
		// Flags maps flag names to their resolved values.
		Flags map[string]string
		// CatchAll holds the extra positional tokens, in order.
		CatchAll []string
		// Trailing holds the tokens after a literal `--`, in order.
		Trailing []string
	}
)

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Command, e.Field, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Resolve validates an invocation against the command schema and produces
// the resolved value set.
//
// args are the positional tokens after flag scanning, including any tokens
// that followed a literal `--`; argsLenAtDash is the index of the first
// post-dash token within args, or -1 when no `--` was supplied (the pflag
// ArgsLenAtDash convention). flags carries the scanned flag state keyed by
// declared flag name. workDir anchors relative file/dir/path values.
func (c *Command) Resolve(args []string, argsLenAtDash int, flags map[string]FlagInput, workDir string) (*ResolvedInvocation, error) {
	inv := &ResolvedInvocation{
		Positionals: make(map[string]string, len(c.Args)),
		Flags:       make(map[string]string, len(c.Flags)),
	}

	// 1. Split off the trailing set: everything after `--` is excluded from
	// positional binding entirely.
	positional := args
	if argsLenAtDash >= 0 && argsLenAtDash <= len(args) {
		inv.Trailing = args[argsLenAtDash:]
		positional = args[:argsLenAtDash]
	}

	// 2. Bind positional tokens in declaration order; overflow goes to the
	// catch-all or is a hard error.
	if err := c.bindPositionals(inv, positional); err != nil {
		return nil, err
	}

	// 3-5. Resolve each flag: explicit value, default, required check, then
	// kind/constraint validation.
	for i := range c.Flags {
		if err := c.resolveFlag(inv, &c.Flags[i], flags[c.Flags[i].Name], workDir); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// bindPositionals assigns tokens to declared arguments left to right,
// applies argument defaults, and routes the overflow.
func (c *Command) bindPositionals(inv *ResolvedInvocation, tokens []string) error {
	for i := range c.Args {
		arg := &c.Args[i]
		switch {
		case i < len(tokens):
			inv.Positionals[arg.Name] = tokens[i]
		case arg.HasDefault:
			inv.Positionals[arg.Name] = arg.DefaultValue
		default:
			return c.invalid(arg.Name, "missing required argument")
		}
	}

	if len(tokens) > len(c.Args) {
		extra := tokens[len(c.Args):]
		if c.CatchAll == nil {
			return c.invalid(extra[0], "unexpected argument")
		}
		inv.CatchAll = extra
	}

	return nil
}

// resolveFlag computes the final value of one flag and validates it.
func (c *Command) resolveFlag(inv *ResolvedInvocation, flag *Flag, in FlagInput, workDir string) error {
	if flag.IsBool() {
		return c.resolveBoolFlag(inv, flag, in)
	}

	switch {
	case in.Set:
		inv.Flags[flag.Name] = in.Value
	case flag.HasDefault:
		inv.Flags[flag.Name] = flag.DefaultValue
	case flag.Required:
		return c.invalid("--"+flag.Name, "missing required flag")
	default:
		inv.Flags[flag.Name] = ""
		return nil
	}

	if err := flag.ValidateValue(inv.Flags[flag.Name], workDir); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Command = c.Name
		}
		return err
	}
	return nil
}

// resolveBoolFlag applies the negation rules: `--x` sets true, `--no-x`
// sets false, both together conflict, neither falls back to the declared
// default (or "false"). A required bool forces the user to pick a side.
func (c *Command) resolveBoolFlag(inv *ResolvedInvocation, flag *Flag, in FlagInput) error {
	switch {
	case in.Set && in.NegatedSet:
		return c.invalid("--"+flag.Name, fmt.Sprintf("cannot combine --%s with --%s", flag.Name, flag.NegatedName()))
	case in.NegatedSet:
		inv.Flags[flag.Name] = "false"
	case in.Set:
		inv.Flags[flag.Name] = "true"
	case flag.Required:
		return c.invalid("--"+flag.Name, fmt.Sprintf("missing required flag (pass --%s or --%s)", flag.Name, flag.NegatedName()))
	case flag.HasDefault:
		inv.Flags[flag.Name] = flag.DefaultValue
	default:
		inv.Flags[flag.Name] = "false"
	}
	return nil
}

// invalid builds a ValidationError for this command.
func (c *Command) invalid(field, reason string) error {
	return &ValidationError{Command: c.Name, Field: field, Reason: reason}
}
