// SPDX-License-Identifier: MPL-2.0

package rules

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tokenregistry/metacheck/pkg/metadata"
)

const (
	// WellFormedness is the name of the rule sets checking document shape and file naming.
	WellFormedness = "well-formedness"
	// Signature is the name of the rule set checking token minting proofs.
	Signature = "signature"

	// DefaultExtension is the file extension of registry documents.
	DefaultExtension = ".json"
)

// ErrNoRuleSet is returned by Lookup when no rule set matches.
var ErrNoRuleSet = errors.New("no rule set")

type (
	// NoRuleSetError is returned when no built-in rule set exists for a type and name.
	// It wraps ErrNoRuleSet for errors.Is() compatibility.
	NoRuleSetError struct {
		Type RuleSetType
		Name string
	}

	ruleSetKey struct {
		typ  RuleSetType
		name string
	}
)

// builtin maps a type and name to a rule set constructor taking the
// document file extension.
var builtin = map[ruleSetKey]func(ext string) ValidationRuleSet{
	{TypeToken, WellFormedness}:    TokenWellFormedness,
	{TypeToken, Signature}:         func(string) ValidationRuleSet { return TokenSignature() },
	{TypeContract, WellFormedness}: ContractWellFormedness,
}

// Error implements the error interface for NoRuleSetError.
func (e *NoRuleSetError) Error() string {
	return fmt.Sprintf("no %q rule set for %s metadata (available: %s)", e.Name, e.Type, strings.Join(Names(e.Type), ", "))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *NoRuleSetError) Unwrap() error {
	return ErrNoRuleSet
}

// Lookup returns the built-in rule set of the given type and name, with
// filename rules expecting ext.
func Lookup(typ RuleSetType, name, ext string) (ValidationRuleSet, error) {
	if ok, errs := typ.IsValid(); !ok {
		return ValidationRuleSet{}, errs[0]
	}
	build, ok := builtin[ruleSetKey{typ, name}]
	if !ok {
		return ValidationRuleSet{}, &NoRuleSetError{Type: typ, Name: name}
	}
	return build(ext), nil
}

// Names lists the built-in rule set names available for typ, sorted.
func Names(typ RuleSetType) []string {
	var names []string
	for k := range builtin {
		if k.typ == typ {
			names = append(names, k.name)
		}
	}
	slices.Sort(names)
	return names
}

// TokenWellFormedness checks a token document against TokenMetadataSchema and
// requires its file name, without directories, to be the token id plus ext.
func TokenWellFormedness(ext string) ValidationRuleSet {
	return ValidationRuleSet{
		Type: TypeToken,
		Name: WellFormedness,
		Rules: []ValidationRule{
			{
				Name: "Schema validation",
				Test: func(ctx ValidationContext) ValidationResult {
					return AssertSchema(ctx.Entry, metadata.TokenMetadataSchema)
				},
			},
			{
				Name: "Filename matching",
				Test: func(ctx ValidationContext) ValidationResult {
					tokenID, ok := metadata.LookupString(ctx.Entry, "tokenId")
					if !ok {
						return Fail("Expected 'tokenId' to be a string to match the filename against.")
					}
					return AssertEqual(filepath.Base(ctx.Filename), tokenID+ext)
				},
			},
		},
	}
}

// ContractWellFormedness checks a contract document against ContractMetadataSchema
// and requires the registry file extension.
func ContractWellFormedness(ext string) ValidationRuleSet {
	return ValidationRuleSet{
		Type: TypeContract,
		Name: WellFormedness,
		Rules: []ValidationRule{
			{
				Name: "Schema validation",
				Test: func(ctx ValidationContext) ValidationResult {
					return AssertSchema(ctx.Entry, metadata.ContractMetadataSchema)
				},
			},
			{
				Name: "File extension",
				Test: func(ctx ValidationContext) ValidationResult {
					return AssertEndsWith(ctx.Filename, ext)
				},
			},
		},
	}
}

// TokenSignature checks a token minting proof against TokenSignatureSchema.
func TokenSignature() ValidationRuleSet {
	return ValidationRuleSet{
		Type: TypeToken,
		Name: Signature,
		Rules: []ValidationRule{
			{
				Name: "Schema validation",
				Test: func(ctx ValidationContext) ValidationResult {
					return AssertSchema(ctx.Entry, metadata.TokenSignatureSchema)
				},
			},
		},
	}
}
