package handlers

import (
	"time"

	"expenseflow/internal/models"
)

// ExpenseResponse is the wire form of an expense. Amounts carry exactly two
// decimal places and dates are calendar dates.
type ExpenseResponse struct {
	ID             string                 `json:"id"`
	CompanyID      string                 `json:"company_id"`
	OwnerID        string                 `json:"owner_id"`
	Description    string                 `json:"description"`
	ExpenseDate    string                 `json:"expense_date" example:"2025-01-15"`
	Category       models.ExpenseCategory `json:"category"`
	PaidBy         models.Payer           `json:"paid_by"`
	TotalAmount    string                 `json:"total_amount" example:"125.50"`
	Currency       models.Currency        `json:"currency"`
	Notes          *string                `json:"notes,omitempty"`
	ReceiptURL     *string                `json:"receipt_url,omitempty"`
	Status         models.ExpenseStatus   `json:"status"`
	ApprovedBy     *string                `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time             `json:"approved_at,omitempty"`
	RejectedReason *string                `json:"rejected_reason,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func newExpenseResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:             e.ID,
		CompanyID:      e.CompanyID,
		OwnerID:        e.OwnerID,
		Description:    e.Description,
		ExpenseDate:    e.ExpenseDate.String(),
		Category:       e.Category,
		PaidBy:         e.PaidBy,
		TotalAmount:    e.FormattedAmount(),
		Currency:       e.Currency,
		Notes:          e.Notes,
		ReceiptURL:     e.ReceiptURL,
		Status:         e.Status,
		ApprovedBy:     e.ApprovedBy,
		ApprovedAt:     e.ApprovedAt,
		RejectedReason: e.RejectedReason,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// RuleResponse is the wire form of an approval rule.
type RuleResponse struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	ManagerUserID       string              `json:"manager_user_id"`
	MinAmount           *string             `json:"min_amount,omitempty" example:"500.00"`
	MaxAmount           *string             `json:"max_amount,omitempty"`
	PercentageThreshold *float64            `json:"percentage_threshold,omitempty"`
	Category            models.RuleCategory `json:"category"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

func newRuleResponse(r models.ApprovalRule) RuleResponse {
	resp := RuleResponse{
		ID:                  r.ID,
		Name:                r.Name,
		ManagerUserID:       r.ManagerUserID,
		PercentageThreshold: r.PercentageThreshold,
		Category:            r.Category,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if r.MinAmount != nil {
		v := r.MinAmount.StringFixed(2)
		resp.MinAmount = &v
	}
	if r.MaxAmount != nil {
		v := r.MaxAmount.StringFixed(2)
		resp.MaxAmount = &v
	}
	return resp
}

func newRuleResponses(rules []models.ApprovalRule) []RuleResponse {
	out := make([]RuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, newRuleResponse(r))
	}
	return out
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID          string      `json:"id"`
	CompanyID   string      `json:"company_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
}

func newUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
	}
}

func newUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	return out
}
