// SPDX-License-Identifier: MPL-2.0

// Package metadatatest builds registry metadata documents for tests.
//
// Documents are returned in the decoded shape the validators consume
// (map[string]any with float64 numbers, as produced by encoding/json), and
// are valid by default so that each test states only the deviation it cares
// about:
//
//	doc := metadatatest.NewTokenMetadata(
//	    metadatatest.Without("name"),
//	    metadatatest.With("foo", "bar"),
//	)
package metadatatest
