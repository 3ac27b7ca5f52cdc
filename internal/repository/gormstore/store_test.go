package gormstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
	"expenseflow/internal/repository"
	"expenseflow/internal/testutil"
)

func TestExpenseRepositoryConditionalUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repos := New(db)
	ctx := context.Background()

	company := testutil.CreateTestCompany(t, db)
	owner := testutil.CreateTestUser(t, db, company.ID, models.RoleEmployee)
	expense := testutil.CreateTestExpense(t, db, owner, models.ExpenseStatusDraft, "125.50")

	t.Run("applies when status matches", func(t *testing.T) {
		next := *expense
		next.Status = models.ExpenseStatusSubmitted
		testutil.AssertNoError(t, repos.Expenses.Update(ctx, &next, models.ExpenseStatusDraft))

		got, err := repos.Expenses.GetByID(ctx, expense.ID)
		testutil.AssertNoError(t, err)
		if got.Status != models.ExpenseStatusSubmitted {
			t.Errorf("expected SUBMITTED, got %s", got.Status)
		}
	})

	t.Run("rejects stale status", func(t *testing.T) {
		stale := *expense
		stale.Description = "stale"
		err := repos.Expenses.Update(ctx, &stale, models.ExpenseStatusDraft)
		if !errors.Is(err, repository.ErrStatusMismatch) {
			t.Fatalf("expected ErrStatusMismatch, got %v", err)
		}

		got, _ := repos.Expenses.GetByID(ctx, expense.ID)
		if got.Description == "stale" {
			t.Error("stale write must not be applied")
		}
	})

	t.Run("missing row", func(t *testing.T) {
		ghost := *expense
		ghost.ID = "0192f0c4-7b1a-7c3d-9e4f-0123456789ab"
		err := repos.Expenses.Update(ctx, &ghost, models.ExpenseStatusDraft)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("clears optional fields", func(t *testing.T) {
		approved := testutil.CreateTestExpense(t, db, owner, models.ExpenseStatusApproved, "10")
		next := *approved
		next.ApprovedBy = nil
		next.ApprovedAt = nil
		testutil.AssertNoError(t, repos.Expenses.Update(ctx, &next, models.ExpenseStatusApproved))

		got, _ := repos.Expenses.GetByID(ctx, approved.ID)
		if got.ApprovedBy != nil || got.ApprovedAt != nil {
			t.Error("expected nil pointers to be written as NULL")
		}
	})
}

func TestExpenseRepositoryDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repos := New(db)
	ctx := context.Background()

	company := testutil.CreateTestCompany(t, db)
	owner := testutil.CreateTestUser(t, db, company.ID, models.RoleEmployee)
	draft := testutil.CreateTestExpense(t, db, owner, models.ExpenseStatusDraft, "10")
	approved := testutil.CreateTestExpense(t, db, owner, models.ExpenseStatusApproved, "10")

	if err := repos.Expenses.Delete(ctx, approved.ID, models.ExpenseStatusDraft); !errors.Is(err, repository.ErrStatusMismatch) {
		t.Errorf("expected ErrStatusMismatch, got %v", err)
	}
	testutil.AssertNoError(t, repos.Expenses.Delete(ctx, draft.ID, models.ExpenseStatusDraft))
	if _, err := repos.Expenses.GetByID(ctx, draft.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected deleted draft to be gone, got %v", err)
	}
}

func TestExpenseRepositoryList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repos := New(db)
	ctx := context.Background()

	company := testutil.CreateTestCompany(t, db)
	owner := testutil.CreateTestUser(t, db, company.ID, models.RoleEmployee)
	other := testutil.CreateTestUser(t, db, company.ID, models.RoleEmployee)

	for i := 0; i < 3; i++ {
		testutil.CreateTestExpense(t, db, owner, models.ExpenseStatusDraft, "10")
	}
	submitted := testutil.CreateTestExpense(t, db, owner, models.ExpenseStatusSubmitted, "20")
	testutil.CreateTestExpense(t, db, other, models.ExpenseStatusSubmitted, "30")

	t.Run("owner with pagination", func(t *testing.T) {
		items, total, err := repos.Expenses.List(ctx, repository.ExpenseFilter{OwnerID: owner.ID}, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		if total != 4 || len(items) != 2 {
			t.Errorf("expected 4 total / 2 on page, got %d / %d", total, len(items))
		}
	})

	t.Run("company pending queue", func(t *testing.T) {
		_, total, err := repos.Expenses.List(ctx, repository.ExpenseFilter{CompanyID: company.ID, Status: models.ExpenseStatusSubmitted}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if total != 2 {
			t.Errorf("expected 2 submitted, got %d", total)
		}
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		items, total, err := repos.Expenses.List(ctx, repository.ExpenseFilter{OwnerID: owner.ID, Search: strings.ToUpper(submitted.Description)}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if total != 1 || items[0].ID != submitted.ID {
			t.Errorf("expected case-insensitive description match, got %d", total)
		}
	})
}

func TestUserRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repos := New(db)
	ctx := context.Background()

	company := testutil.CreateTestCompany(t, db)
	admin := testutil.CreateTestUser(t, db, company.ID, models.RoleAdmin)
	testutil.CreateTestUser(t, db, company.ID, models.RoleManager)
	testutil.CreateTestUser(t, db, company.ID, models.RoleEmployee)

	t.Run("duplicate email", func(t *testing.T) {
		dup := &models.User{CompanyID: company.ID, Name: "Dup", Email: admin.Email, Password: "x", Role: models.RoleEmployee}
		if err := repos.Users.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("lookup by email is case insensitive", func(t *testing.T) {
		got, err := repos.Users.GetByEmail(ctx, strings.ToUpper(admin.Email))
		testutil.AssertNoError(t, err)
		if got.ID != admin.ID {
			t.Errorf("expected %s, got %s", admin.ID, got.ID)
		}
	})

	t.Run("list reviewers", func(t *testing.T) {
		users, total, err := repos.Users.List(ctx, company.ID, []models.Role{models.RoleAdmin, models.RoleManager}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if total != 2 || len(users) != 2 {
			t.Errorf("expected 2 reviewers, got %d", total)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		admin.Role = models.RoleManager
		testutil.AssertNoError(t, repos.Users.Update(ctx, admin))
		got, _ := repos.Users.GetByID(ctx, admin.ID)
		if got.Role != models.RoleManager {
			t.Errorf("expected MANAGER, got %s", got.Role)
		}

		testutil.AssertNoError(t, repos.Users.Delete(ctx, admin.ID))
		if err := repos.Users.Delete(ctx, admin.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestRuleRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repos := New(db)
	ctx := context.Background()

	company := testutil.CreateTestCompany(t, db)
	manager := testutil.CreateTestUser(t, db, company.ID, models.RoleManager)
	first := testutil.CreateTestRule(t, db, manager, "Travel", "500", "")
	testutil.CreateTestRule(t, db, manager, models.RuleCategoryAll, "", "")

	rules, err := repos.Rules.ListByCompany(ctx, company.ID)
	testutil.AssertNoError(t, err)
	if len(rules) != 2 || rules[0].ID != first.ID {
		t.Fatalf("expected rules in creation order, got %d", len(rules))
	}

	replaced := *first
	replaced.MinAmount = nil
	replaced.Category = models.RuleCategoryAll
	testutil.AssertNoError(t, repos.Rules.Replace(ctx, &replaced))

	got, _ := repos.Rules.GetByID(ctx, first.ID)
	if got.MinAmount != nil || got.Category != models.RuleCategoryAll {
		t.Errorf("replace must overwrite every field, got %+v", got)
	}

	testutil.AssertNoError(t, repos.Rules.Delete(ctx, first.ID))
	if _, err := repos.Rules.GetByID(ctx, first.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
