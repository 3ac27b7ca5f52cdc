package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"expenseflow/internal/models"
	"expenseflow/internal/repository"
	"expenseflow/internal/testutil"
)

func ruleInput(managerID string) RuleInput {
	return RuleInput{
		Name:          "Travel Expenses > $500",
		ManagerUserID: managerID,
		MinAmount:     amountPtr("500"),
		Category:      models.RuleCategory(models.CategoryTravel),
	}
}

func TestCreateRule(t *testing.T) {
	backends(t, func(t *testing.T, repos repository.Store) {
		ctx := context.Background()
		svc := NewApprovalRuleService(repos, NewAuditService(repos.Audit))
		tn := seedTenant(t, repos)

		t.Run("valid", func(t *testing.T) {
			pct := 50.0
			in := ruleInput(tn.manager.ID)
			in.PercentageThreshold = &pct

			rule, err := svc.CreateRule(ctx, tn.admin.ID, in)
			testutil.AssertNoError(t, err)
			if rule.ID == "" || rule.CompanyID != tn.company.ID {
				t.Error("expected id and company to be set")
			}
			if rule.MinAmount == nil || !rule.MinAmount.Equal(decimal.NewFromInt(500)) {
				t.Errorf("expected min amount 500, got %v", rule.MinAmount)
			}
		})

		t.Run("category defaults to All", func(t *testing.T) {
			in := ruleInput(tn.admin.ID)
			in.Category = ""
			rule, err := svc.CreateRule(ctx, tn.admin.ID, in)
			testutil.AssertNoError(t, err)
			if rule.Category != models.RuleCategoryAll {
				t.Errorf("expected All, got %s", rule.Category)
			}
		})

		invalidCases := []struct {
			name   string
			mutate func(in *RuleInput)
		}{
			{"short name", func(in *RuleInput) { in.Name = "R" }},
			{"missing manager", func(in *RuleInput) { in.ManagerUserID = "" }},
			{"unknown manager", func(in *RuleInput) { in.ManagerUserID = "00000000-0000-0000-0000-000000000000" }},
			{"employee as manager", func(in *RuleInput) { in.ManagerUserID = tn.employee.ID }},
			{"negative minimum", func(in *RuleInput) { in.MinAmount = amountPtr("-1") }},
			{"negative maximum", func(in *RuleInput) { in.MaxAmount = amountPtr("-1") }},
			{"minimum above maximum", func(in *RuleInput) { in.MaxAmount = amountPtr("100") }},
			{"percentage above 100", func(in *RuleInput) { p := 100.5; in.PercentageThreshold = &p }},
			{"percentage below 0", func(in *RuleInput) { p := -1.0; in.PercentageThreshold = &p }},
			{"unknown category", func(in *RuleInput) { in.Category = "Fuel" }},
		}
		for _, tc := range invalidCases {
			t.Run(tc.name, func(t *testing.T) {
				in := ruleInput(tn.manager.ID)
				tc.mutate(&in)
				_, err := svc.CreateRule(ctx, tn.admin.ID, in)
				testutil.AssertAppError(t, err, "VALIDATION_ERROR")
			})
		}

		t.Run("manager from another company", func(t *testing.T) {
			other := seedTenant(t, repos)
			_, err := svc.CreateRule(ctx, tn.admin.ID, ruleInput(other.manager.ID))
			testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		})

		t.Run("non-admin is forbidden", func(t *testing.T) {
			_, err := svc.CreateRule(ctx, tn.manager.ID, ruleInput(tn.manager.ID))
			testutil.AssertAppError(t, err, "FORBIDDEN")
		})
	})
}

func TestReplaceAndDeleteRule(t *testing.T) {
	backends(t, func(t *testing.T, repos repository.Store) {
		ctx := context.Background()
		svc := NewApprovalRuleService(repos, NewAuditService(repos.Audit))
		tn := seedTenant(t, repos)

		rule, err := svc.CreateRule(ctx, tn.admin.ID, ruleInput(tn.manager.ID))
		testutil.AssertNoError(t, err)

		t.Run("replace clears unset fields", func(t *testing.T) {
			replaced, err := svc.ReplaceRule(ctx, tn.admin.ID, rule.ID, RuleInput{
				Name:          "All Office Supplies",
				ManagerUserID: tn.manager.ID,
				Category:      models.RuleCategory(models.CategoryOffice),
			})
			testutil.AssertNoError(t, err)

			stored, err := svc.GetRule(ctx, tn.admin.ID, replaced.ID)
			testutil.AssertNoError(t, err)
			if stored.Name != "All Office Supplies" || stored.MinAmount != nil || stored.Category != models.RuleCategory(models.CategoryOffice) {
				t.Errorf("expected full replacement, got %+v", stored)
			}
		})

		t.Run("other company's admin cannot see the rule", func(t *testing.T) {
			other := seedTenant(t, repos)
			_, err := svc.GetRule(ctx, other.admin.ID, rule.ID)
			testutil.AssertAppError(t, err, "RULE_NOT_FOUND")
		})

		t.Run("delete", func(t *testing.T) {
			testutil.AssertNoError(t, svc.DeleteRule(ctx, tn.admin.ID, rule.ID))
			_, err := svc.GetRule(ctx, tn.admin.ID, rule.ID)
			testutil.AssertAppError(t, err, "RULE_NOT_FOUND")

			err = svc.DeleteRule(ctx, tn.admin.ID, rule.ID)
			testutil.AssertAppError(t, err, "RULE_NOT_FOUND")
		})

		t.Run("list is admin only", func(t *testing.T) {
			_, err := svc.ListRules(ctx, tn.employee.ID)
			testutil.AssertAppError(t, err, "FORBIDDEN")

			rules, err := svc.ListRules(ctx, tn.admin.ID)
			testutil.AssertNoError(t, err)
			if rules == nil {
				t.Error("expected an empty, non-nil list")
			}
		})
	})
}

func TestMatchingRules(t *testing.T) {
	backends(t, func(t *testing.T, repos repository.Store) {
		ctx := context.Background()
		expenses := newExpenseService(repos)
		svc := NewApprovalRuleService(repos, NewAuditService(repos.Audit))
		tn := seedTenant(t, repos)

		seedRule(t, repos, tn.manager, "Travel Expenses > $500", models.RuleCategory(models.CategoryTravel), "500", "")
		seedRule(t, repos, tn.manager, "All Office Supplies", models.RuleCategory(models.CategoryOffice), "", "")
		seedRule(t, repos, tn.admin, "Catch all", models.RuleCategoryAll, "", "")

		in := dinnerInput()
		in.Category = models.CategoryTravel
		in.TotalAmount = decimal.RequireFromString("500.00")
		e := mustCreate(t, expenses, tn.employee.ID, in)

		matched, err := svc.MatchingRules(ctx, e.ID, tn.employee.ID)
		testutil.AssertNoError(t, err)
		got := names(matched)
		if len(got) != 2 || got[0] != "Travel Expenses > $500" || got[1] != "Catch all" {
			t.Errorf("expected travel rule then catch-all, got %v", got)
		}

		colleague := seedUser(t, repos, tn.company.ID, models.RoleEmployee)
		_, err = svc.MatchingRules(ctx, e.ID, colleague.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}
