// Package seed loads a small demo company so a fresh deployment has
// something to click through.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"expenseflow/internal/logger"
	"expenseflow/internal/models"
	"expenseflow/internal/repository"
)

// DemoPassword is the login password of every demo user.
const DemoPassword = "demo-password"

// AdminEmail identifies the demo data set; seeding is skipped when it exists.
const AdminEmail = "admin@company.com"

// Result reports what Apply created.
type Result struct {
	Company  *models.Company
	Admin    *models.User
	Manager  *models.User
	Employee *models.User
	Expenses []models.Expense
	Rules    []models.ApprovalRule
}

// Apply writes the demo company. It returns (nil, nil) when the demo admin
// already exists.
func Apply(ctx context.Context, repos repository.Store) (*Result, error) {
	_, err := repos.Users.GetByEmail(ctx, AdminEmail)
	switch {
	case err == nil:
		logger.Named("seed").Infow("demo data already present, skipping", "email", AdminEmail)
		return nil, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check demo admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	res := &Result{Company: &models.Company{Name: "Demo Company", Country: "United States", Currency: string(models.CurrencyUSD)}}
	if err := repos.Companies.Create(ctx, res.Company); err != nil {
		return nil, fmt.Errorf("create demo company: %w", err)
	}

	now := time.Now().UTC()
	newUser := func(name, email string, role models.Role) (*models.User, error) {
		u := &models.User{
			CompanyID:   res.Company.ID,
			Name:        name,
			Email:       email,
			Password:    string(hashed),
			Role:        role,
			LastLoginAt: &now,
		}
		if err := repos.Users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create demo user %s: %w", email, err)
		}
		return u, nil
	}
	if res.Admin, err = newUser("Admin User", AdminEmail, models.RoleAdmin); err != nil {
		return nil, err
	}
	if res.Manager, err = newUser("John Manager", "john@company.com", models.RoleManager); err != nil {
		return nil, err
	}
	if res.Employee, err = newUser("Jane Employee", "jane@company.com", models.RoleEmployee); err != nil {
		return nil, err
	}

	for _, e := range demoExpenses(res) {
		if err := repos.Expenses.Create(ctx, &e); err != nil {
			return nil, fmt.Errorf("create demo expense %q: %w", e.Description, err)
		}
		res.Expenses = append(res.Expenses, e)
	}

	for _, r := range demoRules(res) {
		if err := repos.Rules.Create(ctx, &r); err != nil {
			return nil, fmt.Errorf("create demo rule %q: %w", r.Name, err)
		}
		res.Rules = append(res.Rules, r)
	}

	logger.Named("seed").Infow("demo data created",
		"company_id", res.Company.ID,
		"users", 3,
		"expenses", len(res.Expenses),
		"rules", len(res.Rules),
	)
	return res, nil
}

func demoExpenses(res *Result) []models.Expense {
	date := func(s string) models.Date {
		d, _ := models.ParseDate(s)
		return d
	}
	stamp := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	notes := "Meeting with potential client"
	approvedAt := stamp("2025-01-11T10:00:00Z")
	approver := res.Manager.ID

	base := func(created string) models.Base {
		return models.Base{CreatedAt: stamp(created)}
	}

	return []models.Expense{
		{
			Base:        base("2025-01-15T18:30:00Z"),
			CompanyID:   res.Company.ID,
			OwnerID:     res.Employee.ID,
			Description: "Client dinner at Sushi Palace",
			ExpenseDate: date("2025-01-15"),
			Category:    models.CategoryFood,
			PaidBy:      models.PaidByEmployee,
			TotalAmount: decimal.RequireFromString("125.50"),
			Currency:    models.CurrencyUSD,
			Notes:       &notes,
			Status:      models.ExpenseStatusSubmitted,
		},
		{
			Base:        base("2025-01-10T14:20:00Z"),
			CompanyID:   res.Company.ID,
			OwnerID:     res.Employee.ID,
			Description: "Flight to NYC for conference",
			ExpenseDate: date("2025-01-10"),
			Category:    models.CategoryTravel,
			PaidBy:      models.PaidByCompany,
			TotalAmount: decimal.RequireFromString("450.00"),
			Currency:    models.CurrencyUSD,
			Status:      models.ExpenseStatusApproved,
			ApprovedBy:  &approver,
			ApprovedAt:  &approvedAt,
		},
		{
			Base:        base("2025-01-08T09:15:00Z"),
			CompanyID:   res.Company.ID,
			OwnerID:     res.Employee.ID,
			Description: "New wireless keyboard",
			ExpenseDate: date("2025-01-08"),
			Category:    models.CategoryOffice,
			PaidBy:      models.PaidByEmployee,
			TotalAmount: decimal.RequireFromString("89.99"),
			Currency:    models.CurrencyUSD,
			Status:      models.ExpenseStatusDraft,
		},
	}
}

func demoRules(res *Result) []models.ApprovalRule {
	travelFloor := decimal.NewFromInt(500)
	return []models.ApprovalRule{
		{
			CompanyID:     res.Company.ID,
			Name:          "Travel Expenses > $500",
			ManagerUserID: res.Manager.ID,
			MinAmount:     &travelFloor,
			Category:      models.RuleCategory(models.CategoryTravel),
		},
		{
			CompanyID:     res.Company.ID,
			Name:          "All Office Supplies",
			ManagerUserID: res.Manager.ID,
			Category:      models.RuleCategory(models.CategoryOffice),
		},
	}
}
