package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"expenseflow/internal/handlers"
	"expenseflow/internal/logger"
	"expenseflow/internal/middleware"
	"expenseflow/internal/repository/gormstore"
	"expenseflow/internal/services"
	"expenseflow/internal/testutil"
	"expenseflow/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// session is a logged-in user as seen by the API.
type session struct {
	Token     string
	UserID    string
	CompanyID string
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	return setupAppWith(t, handlers.RouteOptions{})
}

func setupAppWith(t *testing.T, opts handlers.RouteOptions) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying DB: %v", err)
	}
	// Shared-cache SQLite reports table locks under concurrent writers.
	sqlDB.SetMaxOpenConns(1)
	repos := gormstore.New(db)

	// Services
	auditService := services.NewAuditService(repos.Audit)
	userService := services.NewUserService(repos, auditService)
	expenseService := services.NewExpenseService(repos, auditService, services.DefaultRejectReason)
	ruleService := services.NewApprovalRuleService(repos, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	handlers.RegisterRoutes(router, handlers.Handlers{
		Auth:      handlers.NewAuthHandler(userService),
		Expenses:  handlers.NewExpenseHandler(expenseService, ruleService),
		Approvals: handlers.NewApprovalHandler(expenseService),
		Users:     handlers.NewUserHandler(userService),
		Rules:     handlers.NewRuleHandler(ruleService),
	}, opts)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error body, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) session {
	t.Helper()
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return session{
		Token:     result["token"].(string),
		UserID:    user["id"].(string),
		CompanyID: user["company_id"].(string),
	}
}

// signUp creates a company and returns its admin's session.
func (app *testApp) signUp(t *testing.T, company, email string) session {
	t.Helper()
	body := fmt.Sprintf(`{"company_name":%q,"country":"US","currency":"USD","name":"Admin User","email":%q,"password":"password123"}`, company, email)
	rec := app.request("POST", "/api/v1/auth/signup", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign-up failed: %d %s", rec.Code, rec.Body.String())
	}
	return sessionFrom(t, rec)
}

// login logs in and returns the session.
func (app *testApp) login(t *testing.T, email, password string) session {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return sessionFrom(t, rec)
}

// invite has admin create a user with role and logs the new user in.
func (app *testApp) invite(t *testing.T, admin session, name, email, role string) session {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"role":%q}`, name, email, role)
	rec := app.request("POST", "/api/v1/admin/users", body, admin.Token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("invite failed: %d %s", rec.Code, rec.Body.String())
	}
	password := parseJSON(t, rec)["temporary_password"].(string)
	return app.login(t, email, password)
}

// createExpense creates a draft and returns its id.
func (app *testApp) createExpense(t *testing.T, owner session, description, category, amount string) string {
	t.Helper()
	body := fmt.Sprintf(`{"description":%q,"expense_date":"2025-01-15","category":%q,"paid_by":"Employee","total_amount":%q,"currency":"USD"}`,
		description, category, amount)
	rec := app.request("POST", "/api/v1/expenses", body, owner.Token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(string)
}

// tenant is a company with one user per role.
type tenant struct {
	Admin    session
	Manager  session
	Employee session
}

func (app *testApp) newTenant(t *testing.T, name string) tenant {
	t.Helper()
	domain := strings.ToLower(name) + ".test"
	admin := app.signUp(t, name, "admin@"+domain)
	return tenant{
		Admin:    admin,
		Manager:  app.invite(t, admin, "John Manager", "john@"+domain, "MANAGER"),
		Employee: app.invite(t, admin, "Jane Employee", "jane@"+domain, "EMPLOYEE"),
	}
}
