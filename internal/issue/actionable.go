// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError carries what failed, where, and what the user can do about
// it. The default rendering is a single line; Format(true) appends the hints
// and the full cause chain.
type ActionableError struct {
	// Op is the operation that failed, as a verb phrase
	// ("load configuration", "open editor").
	Op string
	// Resource is the file or entity involved ("" when not applicable).
	Resource string
	// Hints are remediation steps shown under the message.
	Hints []string
	// Cause is the underlying error.
	Cause error
}

// Wrap attaches an operation to err. Returns nil when err is nil so callers
// can wrap unconditionally.
func Wrap(err error, op string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Op: op, Cause: err}
}

// WithResource records the file or entity involved and returns the error for
// chaining.
func (e *ActionableError) WithResource(res string) *ActionableError {
	e.Resource = res
	return e
}

// WithHint appends a remediation step and returns the error for chaining.
func (e *ActionableError) WithHint(hint string) *ActionableError {
	e.Hints = append(e.Hints, hint)
	return e
}

// Error returns the one-line form: "failed to <op>[ <resource>]: <cause>".
func (e *ActionableError) Error() string {
	var b strings.Builder
	b.WriteString("failed to ")
	b.WriteString(e.Op)
	if e.Resource != "" {
		b.WriteString(" ")
		b.WriteString(e.Resource)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the cause to errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// HasHints reports whether any remediation steps were recorded.
func (e *ActionableError) HasHints() bool {
	return len(e.Hints) > 0
}

// Format renders the error for display. Hints are always shown; verbose
// additionally lists the cause chain, outermost first.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	for _, hint := range e.Hints {
		b.WriteString("\n  • ")
		b.WriteString(hint)
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nCaused by:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&b, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return b.String()
}
