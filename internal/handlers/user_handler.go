package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
	"expenseflow/internal/services"
)

// UserHandler handles user administration requests.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// InviteRequest represents the payload for inviting a user.
type InviteRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=200"`
	Email string `json:"email" binding:"required,email,max=255"`
	Role  string `json:"role" binding:"required,user_role" example:"EMPLOYEE"`
}

// InviteResponse carries the invited user and their one-time password.
type InviteResponse struct {
	User              UserResponse `json:"user"`
	TemporaryPassword string       `json:"temporary_password"`
}

// ChangeRoleRequest represents the payload for changing a user's role.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,user_role" example:"MANAGER"`
}

// ListUsers lists the users of the admin's company
// @Summary     List users
// @Description List the users of the caller's company. Admins only.
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Items per page"
// @Success     200 {object} pagination.PageResponse[UserResponse]
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
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

	result, err := h.userService.ListUsers(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, newUserResponse))
}

// InviteUser adds a user to the admin's company
// @Summary     Invite a user
// @Description Create a user in the caller's company with a temporary password. Admins only.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body InviteRequest true "User details"
// @Success     201 {object} InviteResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /admin/users [post]
func (h *UserHandler) InviteUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	user, password, err := h.userService.Invite(c.Request.Context(), userID, req.Name, req.Email, models.Role(req.Role))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, InviteResponse{User: newUserResponse(*user), TemporaryPassword: password})
}

// ChangeRole sets the role of a user
// @Summary     Change a user's role
// @Description Set the role of a user in the caller's company. Admins only; admins cannot demote themselves.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "User ID"
// @Param       request body ChangeRoleRequest true "New role"
// @Success     200 {object} UserResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	actorID, targetID, ok := callerAndID(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), actorID, targetID, models.Role(req.Role))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(*user)})
}

// DeleteUser removes a user
// @Summary     Delete a user
// @Description Remove a user from the caller's company. Admins only; admins cannot delete themselves.
// @Tags        admin
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     204
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, targetID, ok := callerAndID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), actorID, targetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListManagers lists the users who can review expenses
// @Summary     List managers
// @Description List managers and admins of the caller's company
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} UserResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /managers [get]
func (h *UserHandler) ListManagers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	managers, err := h.userService.ListManagers(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"managers": newUserResponses(managers)})
}
