package services

import "expenseflow/internal/models"

// Match returns the rules that apply to expense, in the order given.
//
// A rule applies when its category is All or equals the expense category and
// the amount lies within the rule's bounds; unset bounds are open and set
// bounds are inclusive. Several rules may match and none is preferred over
// another. PercentageThreshold takes no part in matching.
func Match(expense *models.Expense, rules []models.ApprovalRule) []models.ApprovalRule {
	matched := make([]models.ApprovalRule, 0, len(rules))
	for _, rule := range rules {
		if ruleApplies(&rule, expense) {
			matched = append(matched, rule)
		}
	}
	return matched
}

func ruleApplies(rule *models.ApprovalRule, expense *models.Expense) bool {
	if !rule.Category.Covers(expense.Category) {
		return false
	}
	if rule.MinAmount != nil && expense.TotalAmount.LessThan(*rule.MinAmount) {
		return false
	}
	if rule.MaxAmount != nil && expense.TotalAmount.GreaterThan(*rule.MaxAmount) {
		return false
	}
	return true
}
