// SPDX-License-Identifier: MPL-2.0

package scriptfile

type (
	// Command is the immutable, parsed schema of a single script: its
	// description, positional arguments, optional catch-all, and flags.
	// It is built once per registry scan and never mutated afterwards;
	// the validator and the completion generator both read from it.
	Command struct {
		// Name is the namespace-qualified command name, segments joined by
		// spaces (e.g. "db migrate" for <root>/db/migrate.sh).
		Name string
		// Path is the location of the executable script.
		Path string
		// Description is the free text from `#@description:`.
		Description string
		// Args are the declared positional arguments, in declaration order.
		Args []Argument
		// CatchAll is the optional sink for excess positional tokens.
		CatchAll *CatchAll
		// Flags are the declared flags, in declaration order.
		Flags []Flag
	}
)

// Flag returns the declared flag with the given name, or nil.
func (c *Command) Flag(name string) *Flag {
	for i := range c.Flags {
		if c.Flags[i].Name == name {
			return &c.Flags[i]
		}
	}
	return nil
}

// MinArgs returns the number of positional tokens that must be supplied.
// Binding is left to right, so every argument up to and including the last
// one without a default is mandatory.
func (c *Command) MinArgs() int {
	min := 0
	for i := range c.Args {
		if !c.Args[i].HasDefault {
			min = i + 1
		}
	}
	return min
}

// MaxArgs returns the maximum number of positional tokens accepted before
// the catch-all (or an "unexpected argument" error) takes over.
func (c *Command) MaxArgs() int {
	return len(c.Args)
}
