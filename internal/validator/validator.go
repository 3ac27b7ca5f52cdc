// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"expenseflow/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("expense_category", validateExpenseCategory)
	_ = v.RegisterValidation("rule_category", validateRuleCategory)
	_ = v.RegisterValidation("payer", validatePayer)
	_ = v.RegisterValidation("expense_currency", validateCurrency)
	_ = v.RegisterValidation("user_role", validateRole)
	_ = v.RegisterValidation("expense_status", validateStatus)
	_ = v.RegisterValidation("calendar_date", validateCalendarDate)
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.ExpenseCategory(fl.Field().String()).Valid()
}

func validateRuleCategory(fl validator.FieldLevel) bool {
	return models.RuleCategory(fl.Field().String()).Valid()
}

func validatePayer(fl validator.FieldLevel) bool {
	return models.Payer(fl.Field().String()).Valid()
}

func validateCurrency(fl validator.FieldLevel) bool {
	return models.Currency(fl.Field().String()).Valid()
}

func validateRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func validateStatus(fl validator.FieldLevel) bool {
	return models.ExpenseStatus(fl.Field().String()).Valid()
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}
