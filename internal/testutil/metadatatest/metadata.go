// SPDX-License-Identifier: MPL-2.0

package metadatatest

import (
	"encoding/base64"
	"maps"
	"strings"
)

// TokenID is the identifier used by NewTokenMetadata.
const TokenID = "03faf2cb329f2e90d6d23b58d91bbb6c046aa143261cc21f52fbe2824bfcbf04"

// pngPixel is a complete 1x1 transparent PNG image.
const pngPixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type (
	// Option customizes a test document.
	Option func(map[string]any)
)

// NewTokenMetadata returns a token metadata document satisfying every
// token rule when stored as "<TokenID>.json". By default it has:
//   - name, description, ticker and url within bounds
//   - decimals 2
//   - no logo (add one with WithLogo)
func NewTokenMetadata(opts ...Option) map[string]any {
	doc := map[string]any{
		"$schema":     "./token-metadata.schema.json",
		"name":        "SigmaUSD",
		"description": "SigmaUSD stable coin",
		"url":         "https://sigmausd.io",
		"tokenId":     TokenID,
		"decimals":    float64(2),
		"ticker":      "SigUSD",
	}
	return apply(doc, opts)
}

// NewContractMetadata returns a contract metadata document exercising every
// optional section of the contract shape.
func NewContractMetadata(opts ...Option) map[string]any {
	doc := map[string]any{
		"$schema":     "./contract-metadata.schema.json",
		"name":        "Pay to public key",
		"description": "Spendable by the holder of a single key",
		"template":    "d801d601e4c6a70407ea02d1ed93c27201",
		"source": map[string]any{
			"script": "{ proveDlog(PK) }",
			"buildParams": map[string]any{
				"map": map[string]any{"PK": "0e21"},
			},
		},
		"variables": map[string]any{"0": "Public key"},
		"registers": map[string]any{"R4": "Owner"},
	}
	return apply(doc, opts)
}

// NewBox returns an on-chain box description accepted by the token signature shape.
func NewBox(opts ...Option) map[string]any {
	doc := map[string]any{
		"boxId":          strings.Repeat("ab", 32),
		"transactionId":  strings.Repeat("cd", 32),
		"index":          float64(0),
		"ergoTree":       "0008cd03",
		"creationHeight": float64(1_000_000),
		"value":          "1000000",
		"assets": []any{
			map[string]any{"tokenId": TokenID, "amount": "100"},
		},
		"additionalRegisters": map[string]any{"R4": "0e0853696d6120555344"},
	}
	return apply(doc, opts)
}

// NewTokenSignature returns a token signature document built from two boxes.
func NewTokenSignature(opts ...Option) map[string]any {
	doc := map[string]any{
		"mintingBox":  NewBox(),
		"metadataBox": NewBox(),
		"signature":   "3045022100",
	}
	return apply(doc, opts)
}

// With sets key to value.
func With(key string, value any) Option {
	return func(doc map[string]any) {
		doc[key] = value
	}
}

// Without removes key.
func Without(key string) Option {
	return func(doc map[string]any) {
		delete(doc, key)
	}
}

// WithLogo sets the logo property.
func WithLogo(logo string) Option {
	return With("logo", logo)
}

// PNGBytes returns the raw bytes of a valid PNG image.
func PNGBytes() []byte {
	b, err := base64.StdEncoding.DecodeString(pngPixel)
	if err != nil {
		panic(err)
	}
	return b
}

// PNGLogo returns a data-URL encoded PNG logo.
func PNGLogo() string {
	return "data:image/png;base64," + pngPixel
}

// SVGLogo returns svg as a data-URL encoded SVG logo.
func SVGLogo(svg string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

// Clone returns a deep copy of doc, so tests can mutate shared fixtures.
func Clone(doc map[string]any) map[string]any {
	out := maps.Clone(doc)
	for k, v := range out {
		switch c := v.(type) {
		case map[string]any:
			out[k] = Clone(c)
		case []any:
			arr := make([]any, len(c))
			for i, e := range c {
				if m, ok := e.(map[string]any); ok {
					arr[i] = Clone(m)
				} else {
					arr[i] = e
				}
			}
			out[k] = arr
		}
	}
	return out
}

func apply(doc map[string]any, opts []Option) map[string]any {
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}
