package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/models"
	"expenseflow/internal/services"
)

// RuleHandler handles approval rule administration.
type RuleHandler struct {
	ruleService services.ApprovalRuleServicer
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleService services.ApprovalRuleServicer) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

// RuleRequest represents the payload for creating or replacing a rule.
// Omitted optional fields are stored as unset.
type RuleRequest struct {
	Name                string           `json:"name" binding:"required,min=2,max=200"`
	ManagerUserID       string           `json:"manager_user_id" binding:"required,uuid"`
	MinAmount           *decimal.Decimal `json:"min_amount" swaggertype:"string" example:"500.00"`
	MaxAmount           *decimal.Decimal `json:"max_amount" swaggertype:"string"`
	PercentageThreshold *float64         `json:"percentage_threshold" binding:"omitempty,min=0,max=100"`
	Category            string           `json:"category" binding:"omitempty,rule_category" example:"Travel"`
}

func (r *RuleRequest) input() services.RuleInput {
	return services.RuleInput{
		Name:                r.Name,
		ManagerUserID:       r.ManagerUserID,
		MinAmount:           r.MinAmount,
		MaxAmount:           r.MaxAmount,
		PercentageThreshold: r.PercentageThreshold,
		Category:            models.RuleCategory(r.Category),
	}
}

// ListRules lists the approval rules
// @Summary     List approval rules
// @Description List the approval rules of the caller's company. Admins only.
// @Tags        rules
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} RuleResponse
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /admin/rules [get]
func (h *RuleHandler) ListRules(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rules, err := h.ruleService.ListRules(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": newRuleResponses(rules)})
}

// CreateRule adds an approval rule
// @Summary     Create an approval rule
// @Description Create an approval rule in the caller's company. Admins only.
// @Tags        rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RuleRequest true "Rule details"
// @Success     201 {object} RuleResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /admin/rules [post]
func (h *RuleHandler) CreateRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rule": newRuleResponse(*rule)})
}

// GetRule returns one approval rule
// @Summary     Get an approval rule
// @Tags        rules
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Rule ID"
// @Success     200 {object} RuleResponse
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Router      /admin/rules/{id} [get]
func (h *RuleHandler) GetRule(c *gin.Context) {
	userID, ruleID, ok := callerAndID(c)
	if !ok {
		return
	}

	rule, err := h.ruleService.GetRule(c.Request.Context(), userID, ruleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": newRuleResponse(*rule)})
}

// ReplaceRule overwrites an approval rule
// @Summary     Replace an approval rule
// @Description Overwrite every field of an approval rule. Admins only.
// @Tags        rules
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string      true "Rule ID"
// @Param       request body RuleRequest true "Rule details"
// @Success     200 {object} RuleResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Router      /admin/rules/{id} [put]
func (h *RuleHandler) ReplaceRule(c *gin.Context) {
	userID, ruleID, ok := callerAndID(c)
	if !ok {
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	rule, err := h.ruleService.ReplaceRule(c.Request.Context(), userID, ruleID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": newRuleResponse(*rule)})
}

// DeleteRule removes an approval rule
// @Summary     Delete an approval rule
// @Tags        rules
// @Security    BearerAuth
// @Param       id path string true "Rule ID"
// @Success     204
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Router      /admin/rules/{id} [delete]
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	userID, ruleID, ok := callerAndID(c)
	if !ok {
		return
	}

	if err := h.ruleService.DeleteRule(c.Request.Context(), userID, ruleID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
