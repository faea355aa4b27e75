// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestRuntimeMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode    RuntimeMode
		want    bool
		wantErr bool
	}{
		{RuntimeNative, true, false},
		{RuntimeVirtual, true, false},
		{"", false, true},
		{"invalid", false, true},
		{"NATIVE", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.mode.IsValid()
			if isValid != tt.want {
				t.Errorf("RuntimeMode(%q).IsValid() = %v, want %v", tt.mode, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("RuntimeMode(%q).IsValid() returned no errors, want error", tt.mode)
				}
				if !errors.Is(errs[0], ErrInvalidRuntimeMode) {
					t.Errorf("error should wrap ErrInvalidRuntimeMode, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("RuntimeMode(%q).IsValid() returned unexpected errors: %v", tt.mode, errs)
			}
		})
	}
}

func TestEnvPrefix_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix  EnvPrefix
		want    bool
		wantErr bool
	}{
		{"CLI", true, false},
		{"SHUTL", true, false},
		{"MY_TOOL2", true, false},
		{"", false, true},
		{"cli", false, true},
		{"2CLI", false, true},
		{"CLI-X", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.prefix), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.prefix.IsValid()
			if isValid != tt.want {
				t.Errorf("EnvPrefix(%q).IsValid() = %v, want %v", tt.prefix, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("EnvPrefix(%q).IsValid() returned no errors, want error", tt.prefix)
				}
				if !errors.Is(errs[0], ErrInvalidEnvPrefix) {
					t.Errorf("error should wrap ErrInvalidEnvPrefix, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("EnvPrefix(%q).IsValid() returned unexpected errors: %v", tt.prefix, errs)
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Errorf("DefaultConfig().IsValid() = false, errs = %v", errs)
	}

	bad := Config{EnvPrefix: "lower", DefaultRuntime: "warp"}
	valid, errs := bad.IsValid()
	if valid {
		t.Fatal("expected invalid config")
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", errs[0])
	}

	var cerr *InvalidConfigError
	if !errors.As(errs[0], &cerr) {
		t.Fatalf("expected InvalidConfigError, got %T", errs[0])
	}
	if len(cerr.FieldErrors) != 2 {
		t.Errorf("FieldErrors = %d, want 2 (runtime + prefix)", len(cerr.FieldErrors))
	}
}
