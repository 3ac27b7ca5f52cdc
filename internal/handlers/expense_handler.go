package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
	"expenseflow/internal/services"
)

// ExpenseHandler handles the expense lifecycle requests of the owner.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	ruleService    services.ApprovalRuleServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, ruleService services.ApprovalRuleServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, ruleService: ruleService}
}

// ExpenseRequest represents the payload for creating or editing an expense.
// total_amount accepts a JSON number or a decimal string with at most two
// decimal places; finer amounts are rejected rather than rounded.
type ExpenseRequest struct {
	Description string          `json:"description" binding:"required,min=2,max=500"`
	ExpenseDate string          `json:"expense_date" binding:"required,calendar_date" example:"2025-01-15"`
	Category    string          `json:"category" binding:"required,expense_category" example:"Food"`
	PaidBy      string          `json:"paid_by" binding:"required,payer" example:"Employee"`
	TotalAmount decimal.Decimal `json:"total_amount" swaggertype:"string" example:"125.50"`
	Currency    string          `json:"currency" binding:"required,expense_currency" example:"USD"`
	Notes       *string         `json:"notes" binding:"omitempty,max=2000"`
	ReceiptURL  *string         `json:"receipt_url" binding:"omitempty,url,max=2048"`
}

func (r *ExpenseRequest) input() (services.ExpenseInput, error) {
	date, err := parseDate(r.ExpenseDate)
	if err != nil {
		return services.ExpenseInput{}, err
	}
	return services.ExpenseInput{
		Description: r.Description,
		ExpenseDate: date,
		Category:    models.ExpenseCategory(r.Category),
		PaidBy:      models.Payer(r.PaidBy),
		TotalAmount: r.TotalAmount,
		Currency:    models.Currency(r.Currency),
		Notes:       r.Notes,
		ReceiptURL:  r.ReceiptURL,
	}, nil
}

// ExpenseListQuery holds the filters of the expense list.
type ExpenseListQuery struct {
	Status   string `form:"status" binding:"omitempty,expense_status"`
	Category string `form:"category" binding:"omitempty,expense_category"`
	Search   string `form:"search" binding:"max=200"`
}

// ExpenseDetailResponse is an expense with the approval rules that apply to it.
type ExpenseDetailResponse struct {
	Expense      ExpenseResponse `json:"expense"`
	MatchedRules []RuleResponse  `json:"matched_rules"`
}

// CreateExpense handles the creation of a new draft expense
// @Summary     Create an expense
// @Description Record a new expense in DRAFT status
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} ExpenseResponse "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": newExpenseResponse(*expense)})
}

// ListExpenses lists the caller's expenses
// @Summary     List own expenses
// @Description List the caller's expenses, newest first, with optional filters
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status"
// @Param       category  query string false "Filter by category"
// @Param       search    query string false "Case-insensitive match on description or category"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Items per page"
// @Success     200 {object} pagination.PageResponse[ExpenseResponse]
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ExpenseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}
	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.ListOwn(c.Request.Context(), userID, services.ExpenseListFilter{
		Status:   models.ExpenseStatus(query.Status),
		Category: models.ExpenseCategory(query.Category),
		Search:   query.Search,
	}, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, newExpenseResponse))
}

// GetExpense returns one expense and the approval rules that apply to it
// @Summary     Get an expense
// @Description Get an expense with its matching approval rules
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseDetailResponse
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, expenseID, ok := callerAndID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.Get(c.Request.Context(), expenseID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	rules, err := h.ruleService.MatchingRules(c.Request.Context(), expenseID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExpenseDetailResponse{
		Expense:      newExpenseResponse(*expense),
		MatchedRules: newRuleResponses(rules),
	})
}

// UpdateExpense edits a draft expense
// @Summary     Edit an expense
// @Description Replace the fields of a DRAFT expense. Owner only.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Expense ID"
// @Param       request body ExpenseRequest true "Expense details"
// @Success     200 {object} ExpenseResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense is not a draft"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, expenseID, ok := callerAndID(c)
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.Edit(c.Request.Context(), expenseID, userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": newExpenseResponse(*expense)})
}

// DeleteExpense deletes a draft expense
// @Summary     Delete an expense
// @Description Delete a DRAFT expense. Owner only.
// @Tags        expenses
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     204
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense is not a draft"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, expenseID, ok := callerAndID(c)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), expenseID, userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SubmitExpense submits a draft for approval
// @Summary     Submit an expense
// @Description Move a DRAFT expense to SUBMITTED and return the approval rules that apply
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseDetailResponse
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense is not a draft"
// @Router      /expenses/{id}/submit [post]
func (h *ExpenseHandler) SubmitExpense(c *gin.Context) {
	userID, expenseID, ok := callerAndID(c)
	if !ok {
		return
	}

	result, err := h.expenseService.Submit(c.Request.Context(), expenseID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExpenseDetailResponse{
		Expense:      newExpenseResponse(*result.Expense),
		MatchedRules: newRuleResponses(result.MatchedRules),
	})
}

// DuplicateExpense copies an expense into a new draft
// @Summary     Duplicate an expense
// @Description Copy an expense of any status into a new DRAFT with the same owner
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     201 {object} ExpenseResponse
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id}/duplicate [post]
func (h *ExpenseHandler) DuplicateExpense(c *gin.Context) {
	userID, expenseID, ok := callerAndID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.Duplicate(c.Request.Context(), expenseID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": newExpenseResponse(*expense)})
}
