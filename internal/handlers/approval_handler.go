package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/pagination"
	"expenseflow/internal/services"
)

// ApprovalHandler handles the review queue of managers and admins.
type ApprovalHandler struct {
	expenseService services.ExpenseServicer
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(expenseService services.ExpenseServicer) *ApprovalHandler {
	return &ApprovalHandler{expenseService: expenseService}
}

// RejectRequest represents the optional rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// ListPending lists submitted expenses awaiting review
// @Summary     List pending approvals
// @Description List SUBMITTED expenses of the caller's company. Managers and admins only.
// @Tags        approvals
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Items per page"
// @Success     200 {object} pagination.PageResponse[ExpenseResponse]
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /approvals [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.ListPending(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, newExpenseResponse))
}

// Approve approves a submitted expense
// @Summary     Approve an expense
// @Description Move a SUBMITTED expense to APPROVED. Managers and admins only.
// @Tags        approvals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseResponse
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense is not submitted"
// @Router      /approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	userID, expenseID, ok := callerAndID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.Approve(c.Request.Context(), expenseID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": newExpenseResponse(*expense)})
}

// Reject rejects a submitted expense
// @Summary     Reject an expense
// @Description Move a SUBMITTED expense to REJECTED with an optional reason. Managers and admins only.
// @Tags        approvals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true  "Expense ID"
// @Param       request body RejectRequest false "Rejection reason"
// @Success     200 {object} ExpenseResponse
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense is not submitted"
// @Router      /approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	userID, expenseID, ok := callerAndID(c)
	if !ok {
		return
	}

	var req RejectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
			return
		}
	}

	expense, err := h.expenseService.Reject(c.Request.Context(), expenseID, userID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": newExpenseResponse(*expense)})
}
