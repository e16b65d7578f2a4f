// SPDX-License-Identifier: MPL-2.0

package rules

import (
	"errors"
	"fmt"
)

const (
	// TypeToken identifies fungible token metadata.
	TypeToken RuleSetType = "token"
	// TypeDapp identifies decentralized application metadata.
	TypeDapp RuleSetType = "dapp"
	// TypeContract identifies smart contract template metadata.
	TypeContract RuleSetType = "contract"
)

// ErrInvalidRuleSetType is returned when a RuleSetType is not one of the defined types.
var ErrInvalidRuleSetType = errors.New("invalid rule set type")

type (
	// RuleSetType is the kind of metadata document a rule set applies to.
	RuleSetType string

	// InvalidRuleSetTypeError is returned when a RuleSetType value is not recognized.
	// It wraps ErrInvalidRuleSetType for errors.Is() compatibility.
	InvalidRuleSetTypeError struct {
		Value RuleSetType
	}

	// ValidationContext is the input of a validation run: the decoded document
	// and the name of the file it was read from. Rules must not mutate it.
	ValidationContext struct {
		Entry    any
		Filename string
	}

	// ValidationError is a single failure reported by a rule.
	ValidationError struct {
		Message string `json:"message"`
		// Path is the dotted locator of the offending field; empty for
		// document-level failures.
		Path string `json:"path,omitempty"`
	}

	// ValidationResult is the outcome of one rule. Errors is non-empty only
	// when Success is false.
	ValidationResult struct {
		Success bool              `json:"success"`
		Name    string            `json:"name,omitempty"`
		Errors  []ValidationError `json:"errors,omitempty"`
	}

	// TestFunc checks a context and reports the outcome.
	TestFunc func(ctx ValidationContext) ValidationResult

	// ValidationRule is a named check.
	ValidationRule struct {
		Name string
		Test TestFunc
	}

	// ValidationRuleSet is an ordered list of rules for one document type.
	ValidationRuleSet struct {
		Type  RuleSetType      `json:"type"`
		Name  string           `json:"name"`
		Rules []ValidationRule `json:"-"`
	}

	// RuleSetValidationResult holds one result per rule of RuleSet, in rule order.
	RuleSetValidationResult struct {
		RuleSet ValidationRuleSet  `json:"ruleSet"`
		Results []ValidationResult `json:"results"`
	}
)

// Error implements the error interface for InvalidRuleSetTypeError.
func (e *InvalidRuleSetTypeError) Error() string {
	return fmt.Sprintf("invalid rule set type %q (valid: token, dapp, contract)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRuleSetTypeError) Unwrap() error {
	return ErrInvalidRuleSetType
}

// String returns the string representation of the RuleSetType.
func (t RuleSetType) String() string { return string(t) }

// IsValid returns whether the RuleSetType is one of the defined types,
// and a list of validation errors if it is not.
func (t RuleSetType) IsValid() (bool, []error) {
	switch t {
	case TypeToken, TypeDapp, TypeContract:
		return true, nil
	default:
		return false, []error{&InvalidRuleSetTypeError{Value: t}}
	}
}

// Success reports whether every rule succeeded.
func (r RuleSetValidationResult) Success() bool {
	for _, res := range r.Results {
		if !res.Success {
			return false
		}
	}
	return true
}

// Failed returns the results of the rules that failed, in rule order.
func (r RuleSetValidationResult) Failed() []ValidationResult {
	var out []ValidationResult
	for _, res := range r.Results {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}
