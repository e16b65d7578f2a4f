// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Two flows are supported:
//
//  1. Schema-bound decoding (ParseAndDecode): compile an embedded schema,
//     unify user data with one of its definitions, validate, and decode into
//     a Go value. The configuration loader uses this with WithConcrete(false)
//     so that unset fields keep their defaults.
//  2. Schema-less evaluation (Evaluate): compile a CUE document on its own and
//     decode it into plain Go values (map[string]any, []any, numbers, strings),
//     the same shape encoding/json produces. Metadata documents written in CUE
//     go through this path and are then checked by the metadata schemas.
//
// Errors carry the file name and a JSON-path style locator of the offending
// value (for example "config.cue: ui.format: ...").
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[map[string]any](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
