package services

import (
	"context"
	"errors"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/logger"
	"expenseflow/internal/models"
	"expenseflow/internal/repository"
)

// approvalRuleService handles approval rule administration and matching.
type approvalRuleService struct {
	repos repository.Store
	audit AuditServicer
}

// NewApprovalRuleService creates a new ApprovalRuleServicer.
func NewApprovalRuleService(repos repository.Store, audit AuditServicer) ApprovalRuleServicer {
	return &approvalRuleService{repos: repos, audit: audit}
}

// CreateRule adds a rule to the admin's company.
func (s *approvalRuleService) CreateRule(ctx context.Context, actorID string, in RuleInput) (*models.ApprovalRule, error) {
	admin, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	in, err = s.validate(ctx, admin, in)
	if err != nil {
		return nil, err
	}

	rule := &models.ApprovalRule{CompanyID: admin.CompanyID}
	applyRuleInput(rule, in)
	if err := s.repos.Rules.Create(ctx, rule); err != nil {
		return nil, storeError(err, apperrors.ErrRuleNotFound)
	}

	s.audit.Log(ctx, admin, models.AuditActionCreate, resourceRule, rule.ID, ruleChanges(rule))
	logger.Get().Infow("approval rule created", "rule_id", rule.ID, "company_id", rule.CompanyID)
	return rule, nil
}

// ReplaceRule overwrites every field of a rule.
func (s *approvalRuleService) ReplaceRule(ctx context.Context, actorID, ruleID string, in RuleInput) (*models.ApprovalRule, error) {
	admin, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	rule, err := s.find(ctx, admin, ruleID)
	if err != nil {
		return nil, err
	}
	in, err = s.validate(ctx, admin, in)
	if err != nil {
		return nil, err
	}

	applyRuleInput(rule, in)
	if err := s.repos.Rules.Replace(ctx, rule); err != nil {
		return nil, storeError(err, apperrors.ErrRuleNotFound)
	}

	s.audit.Log(ctx, admin, models.AuditActionUpdate, resourceRule, rule.ID, ruleChanges(rule))
	return rule, nil
}

// DeleteRule removes a rule.
func (s *approvalRuleService) DeleteRule(ctx context.Context, actorID, ruleID string) error {
	admin, err := s.admin(ctx, actorID)
	if err != nil {
		return err
	}
	rule, err := s.find(ctx, admin, ruleID)
	if err != nil {
		return err
	}
	if err := s.repos.Rules.Delete(ctx, rule.ID); err != nil {
		return storeError(err, apperrors.ErrRuleNotFound)
	}

	s.audit.Log(ctx, admin, models.AuditActionDelete, resourceRule, rule.ID, nil)
	return nil
}

// GetRule returns one rule of the admin's company.
func (s *approvalRuleService) GetRule(ctx context.Context, actorID, ruleID string) (*models.ApprovalRule, error) {
	admin, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, admin, ruleID)
}

// ListRules returns the rules of the admin's company in creation order.
func (s *approvalRuleService) ListRules(ctx context.Context, actorID string) ([]models.ApprovalRule, error) {
	admin, err := s.admin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	rules, err := s.repos.Rules.ListByCompany(ctx, admin.CompanyID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rules == nil {
		rules = []models.ApprovalRule{}
	}
	return rules, nil
}

// MatchingRules returns the rules that apply to an expense. Anyone allowed
// to view the expense may ask.
func (s *approvalRuleService) MatchingRules(ctx context.Context, expenseID, actorID string) ([]models.ApprovalRule, error) {
	actor, err := loadActor(ctx, s.repos.Users, actorID)
	if err != nil {
		return nil, err
	}
	expense, err := s.repos.Expenses.GetByID(ctx, expenseID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrExpenseNotFound)
	}
	if expense.CompanyID != actor.CompanyID {
		return nil, apperrors.ErrExpenseNotFound
	}
	if expense.OwnerID != actor.ID && !actor.Role.CanReview() {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "you can only view your own expenses")
	}

	rules, err := s.repos.Rules.ListByCompany(ctx, expense.CompanyID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return Match(expense, rules), nil
}

func (s *approvalRuleService) admin(ctx context.Context, actorID string) (*models.User, error) {
	actor, err := loadActor(ctx, s.repos.Users, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *approvalRuleService) find(ctx context.Context, admin *models.User, ruleID string) (*models.ApprovalRule, error) {
	rule, err := s.repos.Rules.GetByID(ctx, ruleID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrRuleNotFound)
	}
	if rule.CompanyID != admin.CompanyID {
		return nil, apperrors.ErrRuleNotFound
	}
	return rule, nil
}

// validate checks the rule fields and that the manager is a reviewer of
// the admin's company.
func (s *approvalRuleService) validate(ctx context.Context, admin *models.User, in RuleInput) (RuleInput, error) {
	in, err := normalizeRule(in)
	if err != nil {
		return in, err
	}
	manager, err := s.repos.Users.GetByID(ctx, in.ManagerUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return in, invalid("manager does not exist")
		}
		return in, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if manager.CompanyID != admin.CompanyID {
		return in, invalid("manager does not exist")
	}
	if !manager.Role.CanReview() {
		return in, invalid("the selected user is not a manager or admin")
	}
	return in, nil
}

func applyRuleInput(rule *models.ApprovalRule, in RuleInput) {
	rule.Name = in.Name
	rule.ManagerUserID = in.ManagerUserID
	rule.MinAmount = in.MinAmount
	rule.MaxAmount = in.MaxAmount
	rule.PercentageThreshold = in.PercentageThreshold
	rule.Category = in.Category
}

func ruleChanges(rule *models.ApprovalRule) map[string]any {
	return map[string]any{
		"name":                 rule.Name,
		"manager_user_id":      rule.ManagerUserID,
		"category":             rule.Category,
		"min_amount":           amountOrNil(rule.MinAmount),
		"max_amount":           amountOrNil(rule.MaxAmount),
		"percentage_threshold": rule.PercentageThreshold,
	}
}
