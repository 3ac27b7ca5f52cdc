package services

import (
	"context"

	"github.com/shopspring/decimal"

	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
)

// ExpenseInput holds the user-editable fields of an expense.
type ExpenseInput struct {
	Description string
	ExpenseDate models.Date
	Category    models.ExpenseCategory
	PaidBy      models.Payer
	TotalAmount decimal.Decimal
	Currency    models.Currency
	Notes       *string
	ReceiptURL  *string
}

// ExpenseListFilter holds optional filters for listing the actor's expenses.
type ExpenseListFilter struct {
	Status   models.ExpenseStatus
	Category models.ExpenseCategory
	Search   string
}

// SubmitResult is returned by Submit: the submitted expense and the approval
// rules that apply to it, in rule-set order.
type SubmitResult struct {
	Expense      *models.Expense       `json:"expense"`
	MatchedRules []models.ApprovalRule `json:"matched_rules"`
}

// ExpenseServicer defines the expense lifecycle: DRAFT -> SUBMITTED ->
// APPROVED | REJECTED.
type ExpenseServicer interface {
	Create(ctx context.Context, ownerID string, in ExpenseInput) (*models.Expense, error)
	Edit(ctx context.Context, expenseID, actorID string, in ExpenseInput) (*models.Expense, error)
	Submit(ctx context.Context, expenseID, actorID string) (*SubmitResult, error)
	Approve(ctx context.Context, expenseID, actorID string) (*models.Expense, error)
	Reject(ctx context.Context, expenseID, actorID, reason string) (*models.Expense, error)
	Duplicate(ctx context.Context, expenseID, actorID string) (*models.Expense, error)
	Delete(ctx context.Context, expenseID, actorID string) error
	Get(ctx context.Context, expenseID, actorID string) (*models.Expense, error)
	ListOwn(ctx context.Context, actorID string, filter ExpenseListFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	ListPending(ctx context.Context, actorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
}

// RuleInput holds the fields of an approval rule. Replace overwrites every
// field, so unset bounds clear the stored ones.
type RuleInput struct {
	Name                string
	ManagerUserID       string
	MinAmount           *decimal.Decimal
	MaxAmount           *decimal.Decimal
	PercentageThreshold *float64
	Category            models.RuleCategory
}

// ApprovalRuleServicer defines approval rule administration and matching.
type ApprovalRuleServicer interface {
	CreateRule(ctx context.Context, actorID string, in RuleInput) (*models.ApprovalRule, error)
	ReplaceRule(ctx context.Context, actorID, ruleID string, in RuleInput) (*models.ApprovalRule, error)
	DeleteRule(ctx context.Context, actorID, ruleID string) error
	GetRule(ctx context.Context, actorID, ruleID string) (*models.ApprovalRule, error)
	ListRules(ctx context.Context, actorID string) ([]models.ApprovalRule, error)
	MatchingRules(ctx context.Context, expenseID, actorID string) ([]models.ApprovalRule, error)
}

// SignUpInput holds the fields of a new company and its first admin.
type SignUpInput struct {
	CompanyName string
	Country     string
	Currency    string
	Name        string
	Email       string
	Password    string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	SignUp(ctx context.Context, in SignUpInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	// Invite creates a user in the actor's company and returns the generated
	// temporary password alongside it. The password is not retrievable later.
	Invite(ctx context.Context, actorID, name, email string, role models.Role) (*models.User, string, error)
	ChangeRole(ctx context.Context, actorID, userID string, role models.Role) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, userID string) error
	ListUsers(ctx context.Context, actorID string, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	ListManagers(ctx context.Context, actorID string) ([]models.User, error)
	Profile(ctx context.Context, actorID string) (*models.User, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, actor *models.User, action, resourceType, resourceID string, changes map[string]any)
	History(ctx context.Context, resourceType, resourceID string) ([]models.AuditLog, error)
}
