package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/metrics"
	"expenseflow/internal/middleware"
)

// Handlers bundles the request handlers served under /api/v1.
type Handlers struct {
	Auth      *AuthHandler
	Expenses  *ExpenseHandler
	Approvals *ApprovalHandler
	Users     *UserHandler
	Rules     *RuleHandler
}

// RouteOptions configures the cross-cutting parts of the routing table.
type RouteOptions struct {
	// AuthLimiter throttles sign-up and login per client IP; nil disables it.
	AuthLimiter *middleware.RateLimiter
	// MetricsAPIKey guards /metrics; empty leaves it open.
	MetricsAPIKey string
}

// RegisterRoutes mounts health, metrics and the versioned API on router.
func RegisterRoutes(router *gin.Engine, h Handlers, opts RouteOptions) {
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", middleware.ScrapeAuth(opts.MetricsAPIKey), gin.WrapH(metrics.Handler()))
	router.NoRoute(func(c *gin.Context) {
		respondWithError(c, apperrors.ErrNotFound)
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	if opts.AuthLimiter != nil {
		auth.Use(opts.AuthLimiter.Middleware())
	}
	auth.POST("/signup", h.Auth.SignUp)
	auth.POST("/login", h.Auth.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", h.Auth.GetProfile)
	protected.GET("/managers", h.Users.ListManagers)

	expenses := protected.Group("/expenses")
	expenses.GET("", h.Expenses.ListExpenses)
	expenses.POST("", h.Expenses.CreateExpense)
	expenses.GET("/:id", h.Expenses.GetExpense)
	expenses.PUT("/:id", h.Expenses.UpdateExpense)
	expenses.DELETE("/:id", h.Expenses.DeleteExpense)
	expenses.POST("/:id/submit", h.Expenses.SubmitExpense)
	expenses.POST("/:id/duplicate", h.Expenses.DuplicateExpense)

	// Reviewer and admin checks run in the services against the stored role.
	approvals := protected.Group("/approvals")
	approvals.GET("", h.Approvals.ListPending)
	approvals.POST("/:id/approve", h.Approvals.Approve)
	approvals.POST("/:id/reject", h.Approvals.Reject)

	admin := protected.Group("/admin")
	admin.GET("/users", h.Users.ListUsers)
	admin.POST("/users", h.Users.InviteUser)
	admin.PUT("/users/:id/role", h.Users.ChangeRole)
	admin.DELETE("/users/:id", h.Users.DeleteUser)
	admin.GET("/rules", h.Rules.ListRules)
	admin.POST("/rules", h.Rules.CreateRule)
	admin.GET("/rules/:id", h.Rules.GetRule)
	admin.PUT("/rules/:id", h.Rules.ReplaceRule)
	admin.DELETE("/rules/:id", h.Rules.DeleteRule)
}
