// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestActionableErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "op only",
			err:  &ActionableError{Op: "load configuration"},
			want: "failed to load configuration",
		},
		{
			name: "op and resource",
			err:  &ActionableError{Op: "open editor", Resource: "vim"},
			want: "failed to open editor vim",
		},
		{
			name: "op and cause",
			err:  &ActionableError{Op: "load configuration", Cause: errors.New("bad TOML")},
			want: "failed to load configuration: bad TOML",
		},
		{
			name: "everything",
			err: &ActionableError{
				Op:       "load configuration",
				Resource: "/tmp/config.toml",
				Cause:    errors.New("bad TOML"),
			},
			want: "failed to load configuration /tmp/config.toml: bad TOML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("stat config: %w", os.ErrNotExist)
	err := Wrap(cause, "load configuration").
		WithResource("/tmp/config.toml").
		WithHint("Run 'shutl config init' to write a fresh file")

	if err.Op != "load configuration" || err.Resource != "/tmp/config.toml" {
		t.Errorf("Wrap() = %+v", err)
	}
	if !err.HasHints() {
		t.Error("HasHints() = false after WithHint")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("wrapped sentinel not reachable through errors.Is")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want the original cause", errors.Unwrap(err))
	}
}

func TestWrapNil(t *testing.T) {
	t.Parallel()

	if err := Wrap(nil, "anything"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	err := Wrap(fmt.Errorf("decode: %w", errors.New("line 3: bare key")), "load configuration").
		WithResource("config.toml").
		WithHint("Check the TOML syntax").
		WithHint("Pass --config to point at a different file")

	plain := err.Format(false)
	if !strings.Contains(plain, "failed to load configuration config.toml") {
		t.Errorf("Format(false) missing the message: %q", plain)
	}
	if strings.Count(plain, "•") != 2 {
		t.Errorf("Format(false) should bullet both hints: %q", plain)
	}
	if strings.Contains(plain, "Caused by:") {
		t.Errorf("Format(false) must not include the cause chain: %q", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Caused by:") {
		t.Errorf("Format(true) missing the cause chain: %q", verbose)
	}
	if !strings.Contains(verbose, "1. decode: line 3: bare key") ||
		!strings.Contains(verbose, "2. line 3: bare key") {
		t.Errorf("Format(true) chain not numbered outermost first: %q", verbose)
	}
}

func TestActionableErrorFormatWithoutHints(t *testing.T) {
	t.Parallel()

	err := Wrap(errors.New("boom"), "scan scripts")
	if got, want := err.Format(false), err.Error(); got != want {
		t.Errorf("Format(false) = %q, want bare Error() %q", got, want)
	}
}
