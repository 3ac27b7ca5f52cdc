package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/models"
)

const (
	minNameLength = 2
	amountPlaces  = 2
)

var validate = validator.New()

func invalid(format string, args ...any) error {
	return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// normalizeExpense validates in and returns it trimmed, with blank optional
// fields cleared. Amounts finer than a cent are rejected, not rounded.
func normalizeExpense(in ExpenseInput) (ExpenseInput, error) {
	in.Description = strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(in.Description) < minNameLength {
		return in, invalid("description must be at least %d characters", minNameLength)
	}
	if in.ExpenseDate.IsZero() {
		return in, invalid("expense date is required")
	}
	if !in.Category.Valid() {
		return in, invalid("unknown category %q", in.Category)
	}
	if !in.PaidBy.Valid() {
		return in, invalid("unknown payer %q", in.PaidBy)
	}
	if !in.Currency.Valid() {
		return in, invalid("unsupported currency %q", in.Currency)
	}
	if !in.TotalAmount.IsPositive() {
		return in, invalid("amount must be greater than zero")
	}
	if !wholeCents(in.TotalAmount) {
		return in, invalid("amount must have at most %d decimal places", amountPlaces)
	}
	in.TotalAmount = in.TotalAmount.Round(amountPlaces)
	in.Notes = optional(in.Notes)
	in.ReceiptURL = optional(in.ReceiptURL)
	return in, nil
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeRule validates the standalone fields of a rule. The manager
// reference is checked by the caller against the store.
func normalizeRule(in RuleInput) (RuleInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(in.Name) < minNameLength {
		return in, invalid("rule name must be at least %d characters", minNameLength)
	}
	if in.ManagerUserID == "" {
		return in, invalid("manager is required")
	}
	if in.Category == "" {
		in.Category = models.RuleCategoryAll
	}
	if !in.Category.Valid() {
		return in, invalid("unknown rule category %q", in.Category)
	}
	if in.MinAmount != nil {
		if in.MinAmount.IsNegative() {
			return in, invalid("minimum amount must not be negative")
		}
		if !wholeCents(*in.MinAmount) {
			return in, invalid("minimum amount must have at most %d decimal places", amountPlaces)
		}
		v := in.MinAmount.Round(amountPlaces)
		in.MinAmount = &v
	}
	if in.MaxAmount != nil {
		if in.MaxAmount.IsNegative() {
			return in, invalid("maximum amount must not be negative")
		}
		if !wholeCents(*in.MaxAmount) {
			return in, invalid("maximum amount must have at most %d decimal places", amountPlaces)
		}
		v := in.MaxAmount.Round(amountPlaces)
		in.MaxAmount = &v
	}
	if in.MinAmount != nil && in.MaxAmount != nil && in.MinAmount.GreaterThan(*in.MaxAmount) {
		return in, invalid("minimum amount must not exceed maximum amount")
	}
	if p := in.PercentageThreshold; p != nil && (*p < 0 || *p > 100) {
		return in, invalid("percentage threshold must be between 0 and 100")
	}
	return in, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", invalid("invalid email address")
	}
	return email, nil
}

func normalizePersonName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minNameLength {
		return "", invalid("name must be at least %d characters", minNameLength)
	}
	return name, nil
}

func wholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(amountPlaces))
}

func amountOrNil(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(2)
}
