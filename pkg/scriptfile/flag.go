// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

const (
	// KindString is the default flag kind for free-form string values.
	KindString FlagKind = "string"
	// KindBool is for boolean flags; a `--no-<name>` negated form is generated.
	KindBool FlagKind = "bool"
	// KindFile requires the value to name an existing regular file.
	KindFile FlagKind = "file"
	// KindDir requires the value to name an existing directory.
	KindDir FlagKind = "dir"
	// KindPath requires the value to name an existing file or directory.
	KindPath FlagKind = "path"
)

// ErrInvalidFlagKind is returned when a FlagKind value is not one of the defined kinds.
var ErrInvalidFlagKind = errors.New("invalid flag kind")

type (
	// FlagKind represents the value kind of a flag.
	FlagKind string

	// InvalidFlagKindError is returned when a FlagKind value is not recognized.
	// It wraps ErrInvalidFlagKind for errors.Is() compatibility.
	InvalidFlagKindError struct {
		Value FlagKind
	}

	// Flag represents a named option declared by a `#@flag:` directive.
	Flag struct {
		// Name is the flag name (charset: letters, digits, hyphen, underscore)
		Name string
		// Description provides help text for the flag
		Description string
		// Kind specifies the value kind (optional, defaults to "string")
		Kind FlagKind
		// DefaultValue is the declared default (meaningful when HasDefault is true)
		DefaultValue string
		// HasDefault records whether a `default:` bracket option was declared
		HasDefault bool
		// Required indicates the flag must be provided on every invocation
		Required bool
		// Options restricts the value to a fixed set (non-bool kinds only)
		Options []string
	}
)

// Error implements the error interface for InvalidFlagKindError.
func (e *InvalidFlagKindError) Error() string {
	return fmt.Sprintf("invalid flag kind %q (valid: string, bool, file, dir, path)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidFlagKindError) Unwrap() error {
	return ErrInvalidFlagKind
}

// IsValid returns whether the FlagKind is one of the defined kinds.
// Note: the zero value ("") is valid — it is treated as "string" by GetKind().
func (fk FlagKind) IsValid() bool {
	switch fk {
	case KindString, KindBool, KindFile, KindDir, KindPath, "":
		return true
	default:
		return false
	}
}

// GetKind returns the effective kind of the flag (defaults to "string").
func (f *Flag) GetKind() FlagKind {
	if f.Kind == "" {
		return KindString
	}
	return f.Kind
}

// IsBool reports whether the flag is a boolean flag.
func (f *Flag) IsBool() bool {
	return f.GetKind() == KindBool
}

// NegatedName returns the name of the generated `--no-<name>` counterpart.
// Only meaningful for bool flags.
func (f *Flag) NegatedName() string {
	return "no-" + f.Name
}

// ValidateValue validates a resolved flag value against the option set and,
// for filesystem kinds, against the filesystem. Relative paths are interpreted
// against workDir. Bool values are not routed through here; the resolver
// serializes them directly.
func (f *Flag) ValidateValue(value, workDir string) error {
	if len(f.Options) > 0 && !slices.Contains(f.Options, value) {
		return &ValidationError{
			Field:  "--" + f.Name,
			Reason: fmt.Sprintf("value %q is not one of the allowed values (%s)", value, joinOptions(f.Options)),
		}
	}

	switch f.GetKind() {
	case KindString, KindBool:
		return nil
	case KindFile, KindDir, KindPath:
		return f.validateFilesystemValue(value, workDir)
	default:
		// Unreachable after registration-time validation; fail loudly anyway.
		return &InvalidFlagKindError{Value: f.Kind}
	}
}

// validateFilesystemValue checks existence and entity type for file/dir/path kinds.
func (f *Flag) validateFilesystemValue(value, workDir string) error {
	target := value
	if !filepath.IsAbs(target) {
		target = filepath.Join(workDir, target)
	}

	info, err := os.Stat(target)
	if err != nil {
		return &ValidationError{
			Field:  "--" + f.Name,
			Reason: fmt.Sprintf("%s %q does not exist", f.GetKind(), value),
		}
	}

	switch f.GetKind() {
	case KindFile:
		if info.IsDir() {
			return &ValidationError{
				Field:  "--" + f.Name,
				Reason: fmt.Sprintf("%q is a directory, expected a file", value),
			}
		}
	case KindDir:
		if !info.IsDir() {
			return &ValidationError{
				Field:  "--" + f.Name,
				Reason: fmt.Sprintf("%q is a file, expected a directory", value),
			}
		}
	case KindPath:
		// Either entity type is acceptable.
	}

	return nil
}

// joinOptions renders an option set for error messages.
func joinOptions(options []string) string {
	out := ""
	for i, o := range options {
		if i > 0 {
			out += ", "
		}
		out += o
	}
	return out
}
