package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"expenseflow/internal/config"
	"expenseflow/internal/database"
	"expenseflow/internal/handlers"
	"expenseflow/internal/logger"
	"expenseflow/internal/metrics"
	"expenseflow/internal/middleware"
	"expenseflow/internal/repository"
	"expenseflow/internal/repository/gormstore"
	"expenseflow/internal/repository/memstore"
	"expenseflow/internal/seed"
	"expenseflow/internal/services"
	"expenseflow/internal/validator"

	_ "expenseflow/internal/docs" // Import swagger docs
)

// @title           ExpenseFlow API
// @version         1.0
// @description     ExpenseFlow records company expenses and routes them through manager approval.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warnf("store close error: %v", err)
		}
	}()

	if appConfig.SeedDemo {
		if _, err := seed.Apply(ctx, repos); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	validator.Register()
	metrics.Init()

	// Initialize services
	auditService := services.NewAuditService(repos.Audit)
	userService := services.NewUserService(repos, auditService)
	expenseService := services.NewExpenseService(repos, auditService, appConfig.DefaultRejectReason)
	ruleService := services.NewApprovalRuleService(repos, auditService)

	authLimiter := middleware.NewRateLimiter(appConfig.RateLimitRPS, appConfig.RateLimitBurst)
	go authLimiter.SweepEvery(ctx, time.Minute)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Auth:      handlers.NewAuthHandler(userService),
		Expenses:  handlers.NewExpenseHandler(expenseService, ruleService),
		Approvals: handlers.NewApprovalHandler(expenseService),
		Users:     handlers.NewUserHandler(userService),
		Rules:     handlers.NewRuleHandler(ruleService),
	}, handlers.RouteOptions{
		AuthLimiter:   authLimiter,
		MetricsAPIKey: appConfig.MetricsAPIKey,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting ExpenseFlow server on port %s (store: %s)", appConfig.Port, appConfig.StoreDriver)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore builds the repositories selected by STORE_DRIVER. The returned
// func releases whatever the backend holds open.
func openStore(cfg *config.Config) (repository.Store, func() error, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		var opts []memstore.Option
		if cfg.SnapshotPath != "" {
			opts = append(opts, memstore.WithPersister(memstore.NewFilePersister(cfg.SnapshotPath)))
		}
		store, err := memstore.New(opts...)
		if err != nil {
			return repository.Store{}, nil, fmt.Errorf("failed to open memory store: %w", err)
		}
		return store.Repositories(), func() error { return nil }, nil
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return repository.Store{}, nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		_ = dbManager.Close()
		return repository.Store{}, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return gormstore.New(dbManager.DB()), dbManager.Close, nil
}
