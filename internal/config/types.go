// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// RuntimeNative runs scripts as child processes on the host.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs shell scripts in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"

	// DefaultEnvPrefix is the prefix for the environment variables handed to
	// scripts (CLI_INPUT, CLI_ADDITIONAL_ARGS, ...). Overridable via env_prefix.
	DefaultEnvPrefix = "CLI"
)

var (
	// ErrInvalidRuntimeMode is returned when a RuntimeMode value is not recognized.
	ErrInvalidRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidEnvPrefix is returned when an EnvPrefix value is not usable
	// as an environment variable name prefix.
	ErrInvalidEnvPrefix = errors.New("invalid env prefix")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

// envPrefixRegex restricts prefixes to names that are valid at the start of
// an environment variable on every platform shutl runs on.
var envPrefixRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

type (
	// RuntimeMode specifies the execution runtime for scripts.
	RuntimeMode string

	// InvalidRuntimeModeError is returned when a RuntimeMode value is not recognized.
	// It wraps ErrInvalidRuntimeMode for errors.Is() compatibility.
	InvalidRuntimeModeError struct {
		Value RuntimeMode
	}

	// EnvPrefix is the prefix prepended to the environment variables that
	// carry resolved flag and argument values into scripts.
	EnvPrefix string

	// InvalidEnvPrefixError is returned when an EnvPrefix value cannot start
	// an environment variable name. It wraps ErrInvalidEnvPrefix for errors.Is().
	InvalidEnvPrefixError struct {
		Value EnvPrefix
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// ScriptsDir overrides the root directory scanned for command scripts.
		// The zero value ("") means ~/.shutl; the SHUTL_DIR environment
		// variable takes precedence over both.
		ScriptsDir string `mapstructure:"scripts_dir" toml:"scripts_dir"`
		// EnvPrefix is the prefix for the per-invocation environment variables.
		EnvPrefix EnvPrefix `mapstructure:"env_prefix" toml:"env_prefix"`
		// DefaultRuntime sets the runtime mode for shell scripts
		DefaultRuntime RuntimeMode `mapstructure:"default_runtime" toml:"default_runtime"`
		// UI configures the user interface
		UI UIConfig `mapstructure:"ui" toml:"ui"`
	}
)

// Error implements the error interface for InvalidRuntimeModeError.
func (e *InvalidRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRuntimeModeError) Unwrap() error {
	return ErrInvalidRuntimeMode
}

// String returns the string representation of the RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// IsValid returns whether the RuntimeMode is one of the defined runtime modes,
// and a list of validation errors if it is not.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidRuntimeModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidEnvPrefixError.
func (e *InvalidEnvPrefixError) Error() string {
	return fmt.Sprintf("invalid env prefix %q: must start with an uppercase letter and contain only A-Z, 0-9 and '_'", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidEnvPrefixError) Unwrap() error {
	return ErrInvalidEnvPrefix
}

// String returns the string representation of the EnvPrefix.
func (p EnvPrefix) String() string { return string(p) }

// IsValid returns whether the EnvPrefix can start an environment variable
// name, and a list of validation errors if it cannot.
func (p EnvPrefix) IsValid() (bool, []error) {
	if !envPrefixRegex.MatchString(string(p)) {
		return false, []error{&InvalidEnvPrefixError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to DefaultRuntime.IsValid() and EnvPrefix.IsValid();
// ScriptsDir and the UI bools need no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.DefaultRuntime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.EnvPrefix.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ScriptsDir:     "", // Will use ~/.shutl if empty
		EnvPrefix:      DefaultEnvPrefix,
		DefaultRuntime: RuntimeNative,
		UI: UIConfig{
			Verbose: false,
		},
	}
}
