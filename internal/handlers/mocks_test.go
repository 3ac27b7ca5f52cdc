package handlers

import (
	"context"

	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
	"expenseflow/internal/services"
)

var (
	_ services.UserServicer         = (*mockUserService)(nil)
	_ services.ExpenseServicer      = (*mockExpenseService)(nil)
	_ services.ApprovalRuleServicer = (*mockRuleService)(nil)
)

// --- users ---

type mockUserService struct {
	signUpFn       func(in services.SignUpInput) (*models.User, error)
	loginFn        func(email, password string) (*models.User, error)
	inviteFn       func(actorID, name, email string, role models.Role) (*models.User, string, error)
	changeRoleFn   func(actorID, userID string, role models.Role) (*models.User, error)
	deleteUserFn   func(actorID, userID string) error
	listUsersFn    func(actorID string, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	listManagersFn func(actorID string) ([]models.User, error)
	profileFn      func(actorID string) (*models.User, error)
}

func (m *mockUserService) SignUp(_ context.Context, in services.SignUpInput) (*models.User, error) {
	if m.signUpFn != nil {
		return m.signUpFn(in)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Login(_ context.Context, email, password string) (*models.User, error) {
	if m.loginFn != nil {
		return m.loginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Invite(_ context.Context, actorID, name, email string, role models.Role) (*models.User, string, error) {
	if m.inviteFn != nil {
		return m.inviteFn(actorID, name, email, role)
	}
	return &models.User{}, "", nil
}

func (m *mockUserService) ChangeRole(_ context.Context, actorID, userID string, role models.Role) (*models.User, error) {
	if m.changeRoleFn != nil {
		return m.changeRoleFn(actorID, userID, role)
	}
	return &models.User{}, nil
}

func (m *mockUserService) DeleteUser(_ context.Context, actorID, userID string) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(actorID, userID)
	}
	return nil
}

func (m *mockUserService) ListUsers(_ context.Context, actorID string, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(actorID, page)
	}
	resp := pagination.NewPageResponse[models.User](nil, page.Page, page.PageSize, 0)
	return &resp, nil
}

func (m *mockUserService) ListManagers(_ context.Context, actorID string) ([]models.User, error) {
	if m.listManagersFn != nil {
		return m.listManagersFn(actorID)
	}
	return []models.User{}, nil
}

func (m *mockUserService) Profile(_ context.Context, actorID string) (*models.User, error) {
	if m.profileFn != nil {
		return m.profileFn(actorID)
	}
	return &models.User{}, nil
}

// --- expenses ---

type mockExpenseService struct {
	createFn      func(ownerID string, in services.ExpenseInput) (*models.Expense, error)
	editFn        func(expenseID, actorID string, in services.ExpenseInput) (*models.Expense, error)
	submitFn      func(expenseID, actorID string) (*services.SubmitResult, error)
	approveFn     func(expenseID, actorID string) (*models.Expense, error)
	rejectFn      func(expenseID, actorID, reason string) (*models.Expense, error)
	duplicateFn   func(expenseID, actorID string) (*models.Expense, error)
	deleteFn      func(expenseID, actorID string) error
	getFn         func(expenseID, actorID string) (*models.Expense, error)
	listOwnFn     func(actorID string, filter services.ExpenseListFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	listPendingFn func(actorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
}

func (m *mockExpenseService) Create(_ context.Context, ownerID string, in services.ExpenseInput) (*models.Expense, error) {
	if m.createFn != nil {
		return m.createFn(ownerID, in)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Edit(_ context.Context, expenseID, actorID string, in services.ExpenseInput) (*models.Expense, error) {
	if m.editFn != nil {
		return m.editFn(expenseID, actorID, in)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Submit(_ context.Context, expenseID, actorID string) (*services.SubmitResult, error) {
	if m.submitFn != nil {
		return m.submitFn(expenseID, actorID)
	}
	return &services.SubmitResult{Expense: &models.Expense{}}, nil
}

func (m *mockExpenseService) Approve(_ context.Context, expenseID, actorID string) (*models.Expense, error) {
	if m.approveFn != nil {
		return m.approveFn(expenseID, actorID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Reject(_ context.Context, expenseID, actorID, reason string) (*models.Expense, error) {
	if m.rejectFn != nil {
		return m.rejectFn(expenseID, actorID, reason)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Duplicate(_ context.Context, expenseID, actorID string) (*models.Expense, error) {
	if m.duplicateFn != nil {
		return m.duplicateFn(expenseID, actorID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) Delete(_ context.Context, expenseID, actorID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(expenseID, actorID)
	}
	return nil
}

func (m *mockExpenseService) Get(_ context.Context, expenseID, actorID string) (*models.Expense, error) {
	if m.getFn != nil {
		return m.getFn(expenseID, actorID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) ListOwn(_ context.Context, actorID string, filter services.ExpenseListFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.listOwnFn != nil {
		return m.listOwnFn(actorID, filter, page)
	}
	resp := pagination.NewPageResponse[models.Expense](nil, page.Page, page.PageSize, 0)
	return &resp, nil
}

func (m *mockExpenseService) ListPending(_ context.Context, actorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(actorID, page)
	}
	resp := pagination.NewPageResponse[models.Expense](nil, page.Page, page.PageSize, 0)
	return &resp, nil
}

// --- rules ---

type mockRuleService struct {
	createRuleFn    func(actorID string, in services.RuleInput) (*models.ApprovalRule, error)
	replaceRuleFn   func(actorID, ruleID string, in services.RuleInput) (*models.ApprovalRule, error)
	deleteRuleFn    func(actorID, ruleID string) error
	getRuleFn       func(actorID, ruleID string) (*models.ApprovalRule, error)
	listRulesFn     func(actorID string) ([]models.ApprovalRule, error)
	matchingRulesFn func(expenseID, actorID string) ([]models.ApprovalRule, error)
}

func (m *mockRuleService) CreateRule(_ context.Context, actorID string, in services.RuleInput) (*models.ApprovalRule, error) {
	if m.createRuleFn != nil {
		return m.createRuleFn(actorID, in)
	}
	return &models.ApprovalRule{}, nil
}

func (m *mockRuleService) ReplaceRule(_ context.Context, actorID, ruleID string, in services.RuleInput) (*models.ApprovalRule, error) {
	if m.replaceRuleFn != nil {
		return m.replaceRuleFn(actorID, ruleID, in)
	}
	return &models.ApprovalRule{}, nil
}

func (m *mockRuleService) DeleteRule(_ context.Context, actorID, ruleID string) error {
	if m.deleteRuleFn != nil {
		return m.deleteRuleFn(actorID, ruleID)
	}
	return nil
}

func (m *mockRuleService) GetRule(_ context.Context, actorID, ruleID string) (*models.ApprovalRule, error) {
	if m.getRuleFn != nil {
		return m.getRuleFn(actorID, ruleID)
	}
	return &models.ApprovalRule{}, nil
}

func (m *mockRuleService) ListRules(_ context.Context, actorID string) ([]models.ApprovalRule, error) {
	if m.listRulesFn != nil {
		return m.listRulesFn(actorID)
	}
	return []models.ApprovalRule{}, nil
}

func (m *mockRuleService) MatchingRules(_ context.Context, expenseID, actorID string) ([]models.ApprovalRule, error) {
	if m.matchingRulesFn != nil {
		return m.matchingRulesFn(expenseID, actorID)
	}
	return []models.ApprovalRule{}, nil
}
