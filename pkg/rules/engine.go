// SPDX-License-Identifier: MPL-2.0

package rules

import "fmt"

// Validate runs every rule of ruleSet against ctx in declaration order.
// A failing rule never prevents later rules from running.
func Validate(ruleSet ValidationRuleSet, ctx ValidationContext) RuleSetValidationResult {
	results := make([]ValidationResult, len(ruleSet.Rules))
	for i, rule := range ruleSet.Rules {
		results[i] = execute(rule, ctx)
	}
	return RuleSetValidationResult{RuleSet: ruleSet, Results: results}
}

// execute runs a single rule and stamps the rule's name on the result,
// overriding any name set by the test itself.
func execute(rule ValidationRule, ctx ValidationContext) (result ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = Fail(fmt.Sprintf("Rule panicked: %v", r))
		}
		result.Name = rule.Name
		if result.Success {
			result.Errors = nil
		}
	}()

	if rule.Test == nil {
		return Fail("Rule has no test function.")
	}
	return rule.Test(ctx)
}
