// SPDX-License-Identifier: MPL-2.0

package rules

import (
	"fmt"
	"strings"

	"github.com/tokenregistry/metacheck/pkg/metadata"
)

// Pass returns a successful result.
func Pass() ValidationResult {
	return ValidationResult{Success: true}
}

// Fail returns a failed result carrying a single document-level error.
func Fail(message string) ValidationResult {
	return ValidationResult{Errors: []ValidationError{{Message: message}}}
}

// AssertEqual succeeds when a and b are equal.
func AssertEqual[T comparable](a, b T) ValidationResult {
	if a == b {
		return Pass()
	}
	return Fail(fmt.Sprintf("Expected '%v' to be equal to '%v'.", a, b))
}

// AssertEndsWith succeeds when haystack ends with suffix.
func AssertEndsWith(haystack, suffix string) ValidationResult {
	if strings.HasSuffix(haystack, suffix) {
		return Pass()
	}
	return Fail(fmt.Sprintf("Expected '%s' to end with '%s'.", haystack, suffix))
}

// AssertSchema checks entry against schema and maps every issue to a
// ValidationError.
func AssertSchema(entry any, schema metadata.Schema) ValidationResult {
	issues := metadata.Check(schema, entry)
	if len(issues) == 0 {
		return Pass()
	}

	errs := make([]ValidationError, len(issues))
	for i, is := range issues {
		errs[i] = ValidationError{Message: is.Message, Path: is.PathString()}
	}
	return ValidationResult{Errors: errs}
}

// AssertAll succeeds when every result succeeded. The errors of all results
// are concatenated in argument order.
func AssertAll(results ...ValidationResult) ValidationResult {
	out := ValidationResult{Success: true}
	for _, r := range results {
		if !r.Success {
			out.Success = false
		}
		out.Errors = append(out.Errors, r.Errors...)
	}
	if out.Success {
		out.Errors = nil
	}
	return out
}
