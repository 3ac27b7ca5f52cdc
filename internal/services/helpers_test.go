package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"expenseflow/internal/models"
	"expenseflow/internal/repository"
	"expenseflow/internal/repository/gormstore"
	"expenseflow/internal/repository/memstore"
	"expenseflow/internal/testutil"
)

var seq atomic.Int64

// backends runs fn once per repository implementation.
func backends(t *testing.T, fn func(t *testing.T, repos repository.Store)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fn(t, gormstore.New(db))
	})

	t.Run("memory", func(t *testing.T) {
		store, err := memstore.New()
		if err != nil {
			t.Fatalf("failed to create memory store: %v", err)
		}
		fn(t, store.Repositories())
	})
}

// tenant is a company with one user per role.
type tenant struct {
	company  *models.Company
	admin    *models.User
	manager  *models.User
	employee *models.User
}

func seedTenant(t *testing.T, repos repository.Store) *tenant {
	t.Helper()

	company := &models.Company{Name: fmt.Sprintf("Company %d", seq.Add(1)), Country: "US", Currency: "USD"}
	if err := repos.Companies.Create(context.Background(), company); err != nil {
		t.Fatalf("failed to create company: %v", err)
	}
	return &tenant{
		company:  company,
		admin:    seedUser(t, repos, company.ID, models.RoleAdmin),
		manager:  seedUser(t, repos, company.ID, models.RoleManager),
		employee: seedUser(t, repos, company.ID, models.RoleEmployee),
	}
}

func seedUser(t *testing.T, repos repository.Store, companyID string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testutil.TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	n := seq.Add(1)
	user := &models.User{
		CompanyID: companyID,
		Name:      fmt.Sprintf("User %d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Password:  string(hash),
		Role:      role,
	}
	if err := repos.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func seedRule(t *testing.T, repos repository.Store, manager *models.User, name string, category models.RuleCategory, minAmount, maxAmount string) *models.ApprovalRule {
	t.Helper()

	rule := &models.ApprovalRule{
		CompanyID:     manager.CompanyID,
		Name:          name,
		ManagerUserID: manager.ID,
		Category:      category,
		MinAmount:     amountPtr(minAmount),
		MaxAmount:     amountPtr(maxAmount),
	}
	if err := repos.Rules.Create(context.Background(), rule); err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}
	return rule
}

func amountPtr(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d := decimal.RequireFromString(s)
	return &d
}

func dinnerInput() ExpenseInput {
	return ExpenseInput{
		Description: "Client dinner",
		ExpenseDate: models.NewDate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
		Category:    models.CategoryFood,
		PaidBy:      models.PaidByEmployee,
		TotalAmount: decimal.RequireFromString("125.50"),
		Currency:    models.CurrencyUSD,
	}
}

func newExpenseService(repos repository.Store) *expenseService {
	svc := NewExpenseService(repos, NewAuditService(repos.Audit), "").(*expenseService)
	svc.now = func() time.Time { return time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC) }
	return svc
}

func mustCreate(t *testing.T, svc ExpenseServicer, ownerID string, in ExpenseInput) *models.Expense {
	t.Helper()
	e, err := svc.Create(context.Background(), ownerID, in)
	testutil.AssertNoError(t, err)
	return e
}

func mustSubmit(t *testing.T, svc ExpenseServicer, e *models.Expense) *models.Expense {
	t.Helper()
	res, err := svc.Submit(context.Background(), e.ID, e.OwnerID)
	testutil.AssertNoError(t, err)
	return res.Expense
}

// assertApprovalInvariant checks approver fields are set iff APPROVED and a
// rejection reason only on REJECTED.
func assertApprovalInvariant(t *testing.T, e *models.Expense) {
	t.Helper()
	approved := e.Status == models.ExpenseStatusApproved
	if (e.ApprovedBy != nil) != approved || (e.ApprovedAt != nil) != approved {
		t.Errorf("approver fields inconsistent with status %s", e.Status)
	}
	if e.RejectedReason != nil && e.Status != models.ExpenseStatusRejected {
		t.Errorf("rejected reason set on status %s", e.Status)
	}
}
