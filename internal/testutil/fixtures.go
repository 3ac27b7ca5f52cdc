package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"expenseflow/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCompany creates a company.
func CreateTestCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()

	company := &models.Company{
		Name:     fmt.Sprintf("Test Company %d", nextID()),
		Country:  "US",
		Currency: "USD",
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create test company: %v", err)
	}
	return company
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB, companyID string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		CompanyID: companyID,
		Name:      fmt.Sprintf("Test User %d", n),
		Email:     fmt.Sprintf("user%d@test.com", n),
		Password:  string(hash),
		Role:      role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestExpense creates an expense for owner in the given status.
// Approved and rejected fixtures carry the matching approver/reason fields.
func CreateTestExpense(t *testing.T, db *gorm.DB, owner *models.User, status models.ExpenseStatus, amount string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		CompanyID:   owner.CompanyID,
		OwnerID:     owner.ID,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		ExpenseDate: models.NewDate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
		Category:    models.CategoryFood,
		PaidBy:      models.PaidByEmployee,
		TotalAmount: decimal.RequireFromString(amount),
		Currency:    models.CurrencyUSD,
		Status:      status,
	}
	switch status {
	case models.ExpenseStatusApproved:
		now := time.Now().UTC()
		approver := owner.ID
		expense.ApprovedBy = &approver
		expense.ApprovedAt = &now
	case models.ExpenseStatusRejected:
		reason := "Missing receipt"
		expense.RejectedReason = &reason
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestRule creates an approval rule for manager with optional bounds.
func CreateTestRule(t *testing.T, db *gorm.DB, manager *models.User, category models.RuleCategory, minAmount, maxAmount string) *models.ApprovalRule {
	t.Helper()

	rule := &models.ApprovalRule{
		CompanyID:     manager.CompanyID,
		Name:          fmt.Sprintf("Test Rule %d", nextID()),
		ManagerUserID: manager.ID,
		Category:      category,
	}
	if minAmount != "" {
		v := decimal.RequireFromString(minAmount)
		rule.MinAmount = &v
	}
	if maxAmount != "" {
		v := decimal.RequireFromString(maxAmount)
		rule.MaxAmount = &v
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}
	return rule
}
