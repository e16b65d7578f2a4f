// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeIgnoreFileUnreadable reports an ignore file that exists but could not be read.
	CodeIgnoreFileUnreadable = "ignore_file_unreadable"
	// CodeChangedFileSkipped reports a changed file outside tokens/ and contracts/.
	CodeChangedFileSkipped = "changed_file_skipped"
	// CodeWorktreeStatusFailed reports that uncommitted changes could not be listed.
	CodeWorktreeStatusFailed = "worktree_status_failed"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal discovery problem returned to the caller,
	// which decides how to render it.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g., "ignore_file_unreadable").
		Code    string
		Message string
		Path    string
		Cause   error
	}
)
