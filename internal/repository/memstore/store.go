// Package memstore implements the repositories as in-process collections.
//
// Every mutation copies the affected collection, applies the change to the
// copy, persists the resulting snapshot (when a Persister is configured) and
// only then swaps the copy in. A failed write therefore leaves the visible
// state untouched, and readers never observe a half-applied change.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
	"expenseflow/internal/repository"
)

type dataset struct {
	companies []models.Company
	users     []models.User
	expenses  []models.Expense
	rules     []models.ApprovalRule
	audit     []models.AuditLog
}

// Store holds the collections of every entity.
type Store struct {
	mu        sync.RWMutex
	data      dataset
	persister Persister
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPersister mirrors every mutation into p.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store, loading the last snapshot when a persister is set.
func New(opts ...Option) (*Store, error) {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.persister != nil {
		snap, err := s.persister.Load()
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		if snap != nil {
			s.data = datasetFromSnapshot(snap)
		}
	}
	return s, nil
}

// Repositories returns the repository bundle backed by this store.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Companies: &companyRepository{s: s},
		Users:     &userRepository{s: s},
		Expenses:  &expenseRepository{s: s},
		Rules:     &ruleRepository{s: s},
		Audit:     &auditRepository{s: s},
	}
}

// mutate applies fn to a copy of the dataset and publishes the copy only if
// fn and the snapshot write both succeed.
func (s *Store) mutate(ctx context.Context, fn func(next *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data
	if err := fn(&next); err != nil {
		return err
	}
	if s.persister != nil {
		if err := s.persister.Save(next.snapshot(s.now())); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}
	}
	s.data = next
	return nil
}

func (s *Store) read() dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Store) stamp(b *models.Base) {
	now := s.now().UTC()
	b.EnsureID()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// replaceAt returns a copy of items with the element at i replaced.
func replaceAt[T any](items []T, i int, v T) []T {
	out := slices.Clone(items)
	out[i] = v
	return out
}

// removeAt returns a copy of items without the element at i.
func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// appendCopy returns a copy of items with v appended.
func appendCopy[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, v)
}

func indexOf[T any](items []T, id func(T) string, want string) int {
	for i, item := range items {
		if id(item) == want {
			return i
		}
	}
	return -1
}

func expenseID(e models.Expense) string   { return e.ID }
func userID(u models.User) string         { return u.ID }
func ruleID(r models.ApprovalRule) string { return r.ID }
func companyID(c models.Company) string   { return c.ID }

// --- expenses ---

type expenseRepository struct {
	s *Store
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		r.s.stamp(&expense.Base)
		next.expenses = appendCopy(next.expenses, *expense)
		return nil
	})
}

func (r *expenseRepository) GetByID(_ context.Context, id string) (*models.Expense, error) {
	data := r.s.read()
	i := indexOf(data.expenses, expenseID, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	e := data.expenses[i]
	return &e, nil
}

func (r *expenseRepository) List(_ context.Context, filter repository.ExpenseFilter, page pagination.PageRequest) ([]models.Expense, int64, error) {
	page.Defaults()
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var matched []models.Expense
	for _, e := range r.s.read().expenses {
		if filter.CompanyID != "" && e.CompanyID != filter.CompanyID {
			continue
		}
		if filter.OwnerID != "" && e.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Description), search) &&
			!strings.Contains(strings.ToLower(string(e.Category)), search) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	start, end := page.Window(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *expenseRepository) Update(ctx context.Context, e *models.Expense, expected models.ExpenseStatus) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		i := indexOf(next.expenses, expenseID, e.ID)
		if i < 0 {
			return repository.ErrNotFound
		}
		stored := next.expenses[i]
		if stored.Status != expected {
			return repository.ErrStatusMismatch
		}
		e.CreatedAt = stored.CreatedAt
		r.s.stamp(&e.Base)
		next.expenses = replaceAt(next.expenses, i, *e)
		return nil
	})
}

func (r *expenseRepository) Delete(ctx context.Context, id string, expected models.ExpenseStatus) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		i := indexOf(next.expenses, expenseID, id)
		if i < 0 {
			return repository.ErrNotFound
		}
		if next.expenses[i].Status != expected {
			return repository.ErrStatusMismatch
		}
		next.expenses = removeAt(next.expenses, i)
		return nil
	})
}

// --- users ---

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		for _, u := range next.users {
			if strings.EqualFold(u.Email, user.Email) {
				return repository.ErrDuplicate
			}
		}
		r.s.stamp(&user.Base)
		next.users = appendCopy(next.users, *user)
		return nil
	})
}

func (r *userRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	data := r.s.read()
	i := indexOf(data.users, userID, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	u := data.users[i]
	return &u, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.s.read().users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) List(_ context.Context, companyID string, roles []models.Role, page pagination.PageRequest) ([]models.User, int64, error) {
	page.Defaults()

	var matched []models.User
	for _, u := range r.s.read().users {
		if u.CompanyID != companyID {
			continue
		}
		if len(roles) > 0 && !slices.Contains(roles, u.Role) {
			continue
		}
		matched = append(matched, u)
	}

	start, end := page.Window(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		i := indexOf(next.users, userID, user.ID)
		if i < 0 {
			return repository.ErrNotFound
		}
		user.CreatedAt = next.users[i].CreatedAt
		r.s.stamp(&user.Base)
		next.users = replaceAt(next.users, i, *user)
		return nil
	})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		i := indexOf(next.users, userID, id)
		if i < 0 {
			return repository.ErrNotFound
		}
		next.users = removeAt(next.users, i)
		return nil
	})
}

// --- approval rules ---

type ruleRepository struct {
	s *Store
}

func (r *ruleRepository) Create(ctx context.Context, rule *models.ApprovalRule) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		r.s.stamp(&rule.Base)
		next.rules = appendCopy(next.rules, *rule)
		return nil
	})
}

func (r *ruleRepository) GetByID(_ context.Context, id string) (*models.ApprovalRule, error) {
	data := r.s.read()
	i := indexOf(data.rules, ruleID, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	rule := data.rules[i]
	return &rule, nil
}

func (r *ruleRepository) ListByCompany(_ context.Context, companyID string) ([]models.ApprovalRule, error) {
	var rules []models.ApprovalRule
	for _, rule := range r.s.read().rules {
		if rule.CompanyID == companyID {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (r *ruleRepository) Replace(ctx context.Context, rule *models.ApprovalRule) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		i := indexOf(next.rules, ruleID, rule.ID)
		if i < 0 {
			return repository.ErrNotFound
		}
		rule.CreatedAt = next.rules[i].CreatedAt
		r.s.stamp(&rule.Base)
		next.rules = replaceAt(next.rules, i, *rule)
		return nil
	})
}

func (r *ruleRepository) Delete(ctx context.Context, id string) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		i := indexOf(next.rules, ruleID, id)
		if i < 0 {
			return repository.ErrNotFound
		}
		next.rules = removeAt(next.rules, i)
		return nil
	})
}

// --- companies & audit ---

type companyRepository struct {
	s *Store
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		r.s.stamp(&company.Base)
		next.companies = appendCopy(next.companies, *company)
		return nil
	})
}

func (r *companyRepository) GetByID(_ context.Context, id string) (*models.Company, error) {
	data := r.s.read()
	i := indexOf(data.companies, companyID, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	c := data.companies[i]
	return &c, nil
}

type auditRepository struct {
	s *Store
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.s.mutate(ctx, func(next *dataset) error {
		r.s.stamp(&entry.Base)
		next.audit = appendCopy(next.audit, *entry)
		return nil
	})
}

func (r *auditRepository) ListByResource(_ context.Context, resourceType, resourceID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	for _, e := range r.s.read().audit {
		if e.ResourceType == resourceType && e.ResourceID == resourceID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
