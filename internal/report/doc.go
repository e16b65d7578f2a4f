// SPDX-License-Identifier: MPL-2.0

// Package report renders checker results for operators: a styled text log
// mirroring the registry's console format, a JSON document for CI tooling,
// and a glamour-rendered markdown summary.
package report
