// SPDX-License-Identifier: MPL-2.0

// Package checker runs rule sets over a worklist of metadata files using a
// bounded worker pool. Results are returned in worklist order regardless of
// completion order, and a file that cannot be loaded yields a failed
// "Document parsing" result instead of aborting the run.
package checker
