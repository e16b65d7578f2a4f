// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The issue catalog holds Markdown guidance for well-known
// operator problems (missing metadata files, unsupported formats, broken
// configuration) and renders it with glamour.
package issue
