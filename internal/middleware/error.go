package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error as the
// standard error body. Responses the handler already wrote are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, c.Errors.Last().Err)
	}
}

// writeError writes {"error":{"code","message"}} for err. Anything that is not
// an AppError is reported as an internal error; the cause is only logged.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if appErr.Internal != nil {
		logger.Named("http").Errorw("request failed",
			"request_id", c.GetString(requestIDKey),
			"code", appErr.Code,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", appErr.Internal.Error(),
		)
	}

	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
