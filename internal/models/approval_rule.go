package models

import "github.com/shopspring/decimal"

// RuleCategory is the category filter of an approval rule. It extends the
// expense categories with All.
type RuleCategory string

// RuleCategoryAll matches every expense category.
const RuleCategoryAll RuleCategory = "All"

// Valid reports whether c is All or a known expense category.
func (c RuleCategory) Valid() bool {
	return c == RuleCategoryAll || ExpenseCategory(c).Valid()
}

// Covers reports whether the filter admits the given expense category.
func (c RuleCategory) Covers(category ExpenseCategory) bool {
	return c == RuleCategoryAll || ExpenseCategory(c) == category
}

// ApprovalRule suggests which manager should review an expense. Rules carry
// no priority; several may match the same expense.
type ApprovalRule struct {
	Base
	CompanyID     string           `gorm:"type:uuid;not null;index" json:"company_id"`
	Name          string           `gorm:"not null" json:"name"`
	ManagerUserID string           `gorm:"type:uuid;not null" json:"manager_user_id"`
	MinAmount     *decimal.Decimal `gorm:"type:numeric(14,2)" json:"min_amount,omitempty"`
	MaxAmount     *decimal.Decimal `gorm:"type:numeric(14,2)" json:"max_amount,omitempty"`
	// PercentageThreshold is stored and validated (0-100) but not evaluated.
	PercentageThreshold *float64     `json:"percentage_threshold,omitempty"`
	Category            RuleCategory `gorm:"type:varchar(16);not null;default:All" json:"category"`
}
