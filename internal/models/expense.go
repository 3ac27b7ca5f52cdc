package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is a state of the expense lifecycle.
type ExpenseStatus string

const (
	ExpenseStatusDraft     ExpenseStatus = "DRAFT"
	ExpenseStatusSubmitted ExpenseStatus = "SUBMITTED"
	ExpenseStatusApproved  ExpenseStatus = "APPROVED"
	ExpenseStatusRejected  ExpenseStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpenseStatusDraft, ExpenseStatusSubmitted, ExpenseStatusApproved, ExpenseStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s ExpenseStatus) Terminal() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected
}

// ExpenseCategory classifies what an expense was spent on.
type ExpenseCategory string

const (
	CategoryFood   ExpenseCategory = "Food"
	CategoryTravel ExpenseCategory = "Travel"
	CategoryOffice ExpenseCategory = "Office"
	CategoryMisc   ExpenseCategory = "Misc"
)

// ExpenseCategories lists the categories in display order.
var ExpenseCategories = []ExpenseCategory{CategoryFood, CategoryTravel, CategoryOffice, CategoryMisc}

// Valid reports whether c is a known category.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryOffice, CategoryMisc:
		return true
	}
	return false
}

// Payer records who paid for an expense up front.
type Payer string

const (
	PaidByCompany  Payer = "Company"
	PaidByEmployee Payer = "Employee"
)

// Valid reports whether p is a known payer.
func (p Payer) Valid() bool {
	return p == PaidByCompany || p == PaidByEmployee
}

// Currency is an ISO 4217 code from the supported set.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyINR Currency = "INR"
	CurrencyGBP Currency = "GBP"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyINR, CurrencyGBP:
		return true
	}
	return false
}

// Expense is a single reimbursement or spend record.
//
// ApprovedBy and ApprovedAt are set if and only if Status is APPROVED;
// RejectedReason is set only when Status is REJECTED.
type Expense struct {
	Base
	CompanyID      string          `gorm:"type:uuid;not null;index" json:"company_id"`
	OwnerID        string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	Description    string          `gorm:"not null" json:"description"`
	ExpenseDate    Date            `gorm:"type:date;not null" json:"expense_date"`
	Category       ExpenseCategory `gorm:"type:varchar(16);not null" json:"category"`
	PaidBy         Payer           `gorm:"type:varchar(16);not null" json:"paid_by"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	Currency       Currency        `gorm:"type:varchar(3);not null" json:"currency"`
	Notes          *string         `json:"notes,omitempty"`
	ReceiptURL     *string         `json:"receipt_url,omitempty"`
	Status         ExpenseStatus   `gorm:"type:varchar(16);not null;index" json:"status"`
	ApprovedBy     *string         `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	RejectedReason *string         `json:"rejected_reason,omitempty"`
}

// FormattedAmount renders the total with exactly two decimal places.
func (e *Expense) FormattedAmount() string {
	return e.TotalAmount.StringFixed(2)
}
