// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/api/main.go -o internal/docs` after
// changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Sign up a company", "responses": {"201": {"description": "Company created and token generated"}, "400": {"description": "Invalid input"}, "409": {"description": "Email already registered"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login user", "responses": {"200": {"description": "User authenticated and token generated"}, "401": {"description": "Invalid credentials"}}}},
        "/profile": {"get": {"security": [{"BearerAuth": []}], "tags": ["user"], "summary": "Get user profile", "responses": {"200": {"description": "User profile"}}}},
        "/managers": {"get": {"security": [{"BearerAuth": []}], "tags": ["user"], "summary": "List reviewers", "responses": {"200": {"description": "Managers and admins of the company"}}}},
        "/expenses": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["expenses"], "summary": "List own expenses", "responses": {"200": {"description": "Page of expenses"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["expenses"], "summary": "Create an expense", "responses": {"201": {"description": "Expense created"}}}
        },
        "/expenses/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["expenses"], "summary": "Get an expense", "responses": {"200": {"description": "Expense with matching rules"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["expenses"], "summary": "Edit a draft", "responses": {"200": {"description": "Expense updated"}, "409": {"description": "Not a draft"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["expenses"], "summary": "Delete a draft", "responses": {"204": {"description": "Expense deleted"}}}
        },
        "/expenses/{id}/submit": {"post": {"security": [{"BearerAuth": []}], "tags": ["expenses"], "summary": "Submit a draft", "responses": {"200": {"description": "Expense submitted"}}}},
        "/expenses/{id}/duplicate": {"post": {"security": [{"BearerAuth": []}], "tags": ["expenses"], "summary": "Duplicate an expense", "responses": {"201": {"description": "Draft copy created"}}}},
        "/approvals": {"get": {"security": [{"BearerAuth": []}], "tags": ["approvals"], "summary": "List pending expenses", "responses": {"200": {"description": "Page of submitted expenses"}}}},
        "/approvals/{id}/approve": {"post": {"security": [{"BearerAuth": []}], "tags": ["approvals"], "summary": "Approve an expense", "responses": {"200": {"description": "Expense approved"}, "409": {"description": "Not submitted"}}}},
        "/approvals/{id}/reject": {"post": {"security": [{"BearerAuth": []}], "tags": ["approvals"], "summary": "Reject an expense", "responses": {"200": {"description": "Expense rejected"}, "409": {"description": "Not submitted"}}}},
        "/admin/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List users", "responses": {"200": {"description": "Page of users"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Invite a user", "responses": {"201": {"description": "User created with a temporary password"}}}
        },
        "/admin/users/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Delete a user", "responses": {"204": {"description": "User deleted"}}}},
        "/admin/users/{id}/role": {"put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Change a user's role", "responses": {"200": {"description": "Role changed"}}}},
        "/admin/rules": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["rules"], "summary": "List approval rules", "responses": {"200": {"description": "Rules of the company"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["rules"], "summary": "Create an approval rule", "responses": {"201": {"description": "Rule created"}}}
        },
        "/admin/rules/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["rules"], "summary": "Get an approval rule", "responses": {"200": {"description": "Rule"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["rules"], "summary": "Replace an approval rule", "responses": {"200": {"description": "Rule replaced"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["rules"], "summary": "Delete an approval rule", "responses": {"204": {"description": "Rule deleted"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ExpenseFlow API",
	Description:      "ExpenseFlow records company expenses and routes them through manager approval.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
