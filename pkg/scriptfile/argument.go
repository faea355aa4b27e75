// SPDX-License-Identifier: MPL-2.0

package scriptfile

type (
	// Argument represents a positional parameter declared by a `#@arg:` directive.
	// Declaration order is the binding order for supplied positional tokens.
	Argument struct {
		// Name is the argument name (charset: letters, digits, hyphen, underscore)
		Name string
		// Description provides help text for the argument
		Description string
		// DefaultValue is the declared default (meaningful when HasDefault is true).
		// An argument with a default is optional.
		DefaultValue string
		// HasDefault records whether a `default:` bracket option was declared
		HasDefault bool
	}

	// CatchAll is the designated sink for positional tokens beyond the
	// declared arguments, declared with the reserved name `#@arg:...`.
	// At most one may exist per command and it must be declared after all
	// named arguments.
	CatchAll struct {
		// Description provides help text for the extra arguments
		Description string
	}
)

// Required reports whether the argument must be supplied on invocation.
func (a *Argument) Required() bool {
	return !a.HasDefault
}
