package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/models"
	"expenseflow/internal/services"
)

func setupRuleRouter(handler *RuleHandler) *gin.Engine {
	r := newTestRouter()
	g := r.Group("/admin/rules", injectUserID(testUserID))
	g.GET("", handler.ListRules)
	g.POST("", handler.CreateRule)
	g.GET("/:id", handler.GetRule)
	g.PUT("/:id", handler.ReplaceRule)
	g.DELETE("/:id", handler.DeleteRule)
	return r
}

func TestRuleHandler_CreateRule(t *testing.T) {
	t.Run("returns 201 and forwards bounds", func(t *testing.T) {
		var got services.RuleInput
		svc := &mockRuleService{
			createRuleFn: func(_ string, in services.RuleInput) (*models.ApprovalRule, error) {
				got = in
				rule := testRule()
				return &rule, nil
			},
		}
		r := setupRuleRouter(NewRuleHandler(svc))

		rec := doRequest(r, "POST", "/admin/rules",
			`{"name":"Travel Expenses > $500","manager_user_id":"`+testUserID+`","min_amount":"500","category":"Travel"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.MinAmount == nil || got.MinAmount.String() != "500" {
			t.Errorf("expected min 500, got %v", got.MinAmount)
		}
		if got.MaxAmount != nil {
			t.Errorf("expected no max, got %v", got.MaxAmount)
		}
		if got.Category != models.RuleCategory(models.CategoryTravel) {
			t.Errorf("expected Travel, got %s", got.Category)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing manager", `{"name":"Rule"}`},
		{"malformed manager id", `{"name":"Rule","manager_user_id":"john"}`},
		{"unknown category", `{"name":"Rule","manager_user_id":"` + testUserID + `","category":"Fuel"}`},
		{"threshold above 100", `{"name":"Rule","manager_user_id":"` + testUserID + `","percentage_threshold":150}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupRuleRouter(NewRuleHandler(&mockRuleService{}))

			rec := doRequest(r, "POST", "/admin/rules", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRuleHandler_ListRules(t *testing.T) {
	svc := &mockRuleService{
		listRulesFn: func(string) ([]models.ApprovalRule, error) {
			return []models.ApprovalRule{testRule()}, nil
		},
	}
	r := setupRuleRouter(NewRuleHandler(svc))

	rec := doRequest(r, "GET", "/admin/rules", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rules := parseJSON(t, rec)["rules"].([]interface{})
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if _, ok := rules[0].(map[string]interface{})["max_amount"]; ok {
		t.Error("absent bound must be omitted")
	}
}

func TestRuleHandler_GetReplaceDelete(t *testing.T) {
	t.Run("get returns 404 for another company's rule", func(t *testing.T) {
		svc := &mockRuleService{
			getRuleFn: func(string, string) (*models.ApprovalRule, error) {
				return nil, apperrors.ErrRuleNotFound
			},
		}
		r := setupRuleRouter(NewRuleHandler(svc))

		rec := doRequest(r, "GET", "/admin/rules/"+testRuleID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RULE_NOT_FOUND")
	})

	t.Run("replace returns the stored rule", func(t *testing.T) {
		svc := &mockRuleService{
			replaceRuleFn: func(_, ruleID string, in services.RuleInput) (*models.ApprovalRule, error) {
				rule := testRule()
				rule.ID = ruleID
				rule.Name = in.Name
				return &rule, nil
			},
		}
		r := setupRuleRouter(NewRuleHandler(svc))

		rec := doRequest(r, "PUT", "/admin/rules/"+testRuleID,
			`{"name":"All Office Supplies","manager_user_id":"`+testUserID+`","category":"Office"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		rule := parseJSON(t, rec)["rule"].(map[string]interface{})
		if rule["name"] != "All Office Supplies" {
			t.Errorf("unexpected rule %v", rule)
		}
	})

	t.Run("delete returns 204", func(t *testing.T) {
		r := setupRuleRouter(NewRuleHandler(&mockRuleService{}))

		rec := doRequest(r, "DELETE", "/admin/rules/"+testRuleID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
