// SPDX-License-Identifier: MPL-2.0

// Package discovery builds the worklist of registry metadata files to check.
//
// A registry root holds token documents under tokens/ and contract documents
// under contracts/; the directory a file lives in decides its document type.
// Three worklist modes are supported:
//   - explicit paths given on the command line (Resolve)
//   - every document under the root (All)
//   - documents changed relative to a git ref (Changed)
//
// All modes skip generated *.schema.* files, configured ignore globs, and
// paths excluded by .gitignore or .metacheckignore at the registry root.
package discovery
