// Package repository defines the persistence contracts the services depend
// on. Implementations live in the gormstore (Postgres/SQLite) and memstore
// (in-process, snapshot-backed) subpackages.
package repository

import (
	"context"
	"errors"

	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStatusMismatch is returned by conditional writes when the stored
	// expense is no longer in the expected status.
	ErrStatusMismatch = errors.New("expense status changed")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate key")
)

// ExpenseFilter narrows an expense listing. Zero-valued fields are ignored.
type ExpenseFilter struct {
	CompanyID string
	OwnerID   string
	Status    models.ExpenseStatus
	Category  models.ExpenseCategory
	// Search matches description or category, case-insensitively.
	Search string
}

// ExpenseRepository persists expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id string) (*models.Expense, error)
	List(ctx context.Context, filter ExpenseFilter, page pagination.PageRequest) ([]models.Expense, int64, error)
	// Update replaces the stored expense with e, provided the stored status
	// still equals expected. Otherwise it returns ErrStatusMismatch and
	// leaves the record untouched.
	Update(ctx context.Context, e *models.Expense, expected models.ExpenseStatus) error
	// Delete removes the expense if its stored status equals expected.
	Delete(ctx context.Context, id string, expected models.ExpenseStatus) error
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns the company's users, optionally restricted to roles.
	List(ctx context.Context, companyID string, roles []models.Role, page pagination.PageRequest) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// RuleRepository persists approval rules.
type RuleRepository interface {
	Create(ctx context.Context, rule *models.ApprovalRule) error
	GetByID(ctx context.Context, id string) (*models.ApprovalRule, error)
	// ListByCompany returns every rule of the company in creation order.
	ListByCompany(ctx context.Context, companyID string) ([]models.ApprovalRule, error)
	Replace(ctx context.Context, rule *models.ApprovalRule) error
	Delete(ctx context.Context, id string) error
}

// CompanyRepository persists companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
}

// AuditRepository appends audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByResource(ctx context.Context, resourceType, resourceID string) ([]models.AuditLog, error)
}

// Store bundles the per-entity repositories of one backend.
type Store struct {
	Companies CompanyRepository
	Users     UserRepository
	Expenses  ExpenseRepository
	Rules     RuleRepository
	Audit     AuditRepository
}
