// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load configuration"},
			expected: "failed to load configuration",
		},
		{
			name:     "with resource",
			err:      &ActionableError{Operation: "load configuration", Resource: "metacheck.cue"},
			expected: "failed to load configuration: metacheck.cue",
		},
		{
			name: "with cause",
			err: &ActionableError{
				Operation: "read metadata document",
				Resource:  "tokens/a.json",
				Cause:     fs.ErrNotExist,
			},
			expected: "failed to read metadata document: tokens/a.json: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", WrapWithContext(fs.ErrNotExist, "read metadata document", "x.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Resource != "x.json" {
		t.Errorf("errors.As should find the ActionableError, got %v", ae)
	}

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := &ActionableError{
		Operation:   "resolve base ref",
		Resource:    "origin/main",
		Suggestions: []string{"Fetch the base ref", "Set git.base_ref"},
		Cause:       fmt.Errorf("lookup: %w", errors.New("reference not found")),
	}

	plain := err.Format(false)
	for _, want := range []string{"failed to resolve base ref: origin/main", "• Fetch the base ref", "• Set git.base_ref"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Errorf("Format(false) should not include the error chain:\n%s", plain)
	}

	verbose := err.Format(true)
	for _, want := range []string{"Error chain:", "1. lookup: reference not found", "2. reference not found"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithSuggestion("Run 'metacheck config init'").
		WithIssue(ConfigLoadFailedId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "load configuration" || ae.Resource != "config.cue" || ae.Issue != ConfigLoadFailedId {
		t.Errorf("Build() = %+v", ae)
	}
	if len(ae.Suggestions) != 1 || !errors.Is(ae, cause) {
		t.Errorf("Build() suggestions/cause = %v / %v", ae.Suggestions, ae.Cause)
	}

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}
