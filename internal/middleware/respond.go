package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "expenseflow/internal/errors"
)

// abortWithError stops the chain with the standard error body.
func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	writeError(c, appErr)
	c.Abort()
}
