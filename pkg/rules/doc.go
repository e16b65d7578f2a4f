// SPDX-License-Identifier: MPL-2.0

// Package rules runs named checks against a metadata document and collects
// one result per check.
//
// A ValidationRuleSet is an ordered, immutable list of ValidationRules for one
// document type. Validate executes every rule of a set against a
// ValidationContext, in declaration order and without short-circuiting, and
// returns a RuleSetValidationResult whose results line up one-to-one with the
// rules. Violations are always returned as data: a rule that panics yields a
// failed result instead of unwinding through the caller.
package rules
