// SPDX-License-Identifier: MPL-2.0

// Package metadata describes the shape of registry metadata documents and
// validates decoded documents against it.
//
// A metadata document is the untyped value produced by decoding a registry
// file (JSON, YAML, TOML or CUE). Documents are never bound to Go structs
// before validation: the structural schemas in this package walk the decoded
// value directly so that every violation, including unknown keys and values
// of the wrong type, is reported with the dotted path of the offending field.
//
// # Building blocks
//
//   - Primitive recognizers: IsHexString, IsIntegerString, Is256BitHash, IsPNG.
//   - Content refinements: ValidateLogo (data-URL prefix, base64, PNG sniffing)
//     and ScanSVG (single-pass streaming scan rejecting <script> elements).
//   - Schema nodes: String, Number, Object, Record and Array, composed with
//     Required/Optional fields and Refinements.
//   - Concrete schemas: TokenMetadataSchema, ContractMetadataSchema and
//     TokenSignatureSchema.
//
// # Usage
//
//	issues := metadata.Check(metadata.TokenMetadataSchema, doc)
//	for _, is := range issues {
//	    fmt.Println(is.PathString(), is.Message)
//	}
//
// Schemas can also be exported for editor tooling with MarshalJSONSchema and
// GenerateCUE. The exports are one-way and are not consulted at validation time.
package metadata
