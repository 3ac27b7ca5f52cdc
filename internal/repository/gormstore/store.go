// Package gormstore implements the repositories on top of GORM, for both
// the Postgres and the SQLite backends.
package gormstore

import (
	"errors"

	"gorm.io/gorm"

	"expenseflow/internal/repository"
)

// New returns a Store whose repositories share db.
func New(db *gorm.DB) repository.Store {
	return repository.Store{
		Companies: &companyRepository{db: db},
		Users:     &userRepository{db: db},
		Expenses:  &expenseRepository{db: db},
		Rules:     &ruleRepository{db: db},
		Audit:     &auditRepository{db: db},
	}
}

// translate maps GORM sentinel errors to repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}
