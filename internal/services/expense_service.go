package services

import (
	"context"
	"fmt"
	"time"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/logger"
	"expenseflow/internal/metrics"
	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
	"expenseflow/internal/repository"
)

// DefaultRejectReason is recorded when a reviewer rejects without a reason.
const DefaultRejectReason = "No reason provided"

// expenseService implements the expense lifecycle.
//
// Every state change is a conditional write on the status the expense was
// read in, so concurrent reviewers cannot both move a submission to a
// terminal state: the loser gets INVALID_TRANSITION.
type expenseService struct {
	repos        repository.Store
	audit        AuditServicer
	rejectReason string
	now          func() time.Time
}

// NewExpenseService creates a new ExpenseServicer. An empty rejectReason
// falls back to DefaultRejectReason.
func NewExpenseService(repos repository.Store, audit AuditServicer, rejectReason string) ExpenseServicer {
	if rejectReason == "" {
		rejectReason = DefaultRejectReason
	}
	return &expenseService{
		repos:        repos,
		audit:        audit,
		rejectReason: rejectReason,
		now:          time.Now,
	}
}

// Create records a new DRAFT expense owned by ownerID.
func (s *expenseService) Create(ctx context.Context, ownerID string, in ExpenseInput) (*models.Expense, error) {
	owner, err := loadActor(ctx, s.repos.Users, ownerID)
	if err != nil {
		return nil, err
	}
	in, err = normalizeExpense(in)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		CompanyID: owner.CompanyID,
		OwnerID:   owner.ID,
		Status:    models.ExpenseStatusDraft,
	}
	applyInput(expense, in)

	if err := s.repos.Expenses.Create(ctx, expense); err != nil {
		return nil, storeError(err, apperrors.ErrExpenseNotFound)
	}

	s.audit.Log(ctx, owner, models.AuditActionCreate, resourceExpense, expense.ID, expenseChanges(expense))
	return expense, nil
}

// Edit replaces the fields of a DRAFT expense. Only the owner may edit.
func (s *expenseService) Edit(ctx context.Context, expenseID, actorID string, in ExpenseInput) (*models.Expense, error) {
	actor, expense, err := s.load(ctx, expenseID, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, expense, "edit"); err != nil {
		return nil, err
	}
	if expense.Status != models.ExpenseStatusDraft {
		return nil, invalidTransition("edit", expense.Status)
	}
	in, err = normalizeExpense(in)
	if err != nil {
		return nil, err
	}

	next := *expense
	applyInput(&next, in)
	if err := s.repos.Expenses.Update(ctx, &next, models.ExpenseStatusDraft); err != nil {
		return nil, storeError(err, apperrors.ErrExpenseNotFound)
	}

	s.audit.Log(ctx, actor, models.AuditActionUpdate, resourceExpense, next.ID, expenseChanges(&next))
	return &next, nil
}

// Submit moves a DRAFT expense to SUBMITTED and reports the approval rules
// that apply to it. The rules are informational; any reviewer may decide.
func (s *expenseService) Submit(ctx context.Context, expenseID, actorID string) (*SubmitResult, error) {
	actor, expense, err := s.load(ctx, expenseID, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, expense, "submit"); err != nil {
		return nil, err
	}

	next := *expense
	next.Status = models.ExpenseStatusSubmitted
	if err := s.transition(ctx, actor, expense, &next, models.ExpenseStatusDraft, models.AuditActionSubmit, nil); err != nil {
		return nil, err
	}

	rules, err := s.repos.Rules.ListByCompany(ctx, next.CompanyID)
	if err != nil {
		logger.Get().Errorw("failed to load approval rules after submit", "error", err, "expense_id", next.ID)
		rules = nil
	}
	return &SubmitResult{Expense: &next, MatchedRules: Match(&next, rules)}, nil
}

// Approve moves a SUBMITTED expense to APPROVED. Reviewers only.
func (s *expenseService) Approve(ctx context.Context, expenseID, actorID string) (*models.Expense, error) {
	actor, expense, err := s.load(ctx, expenseID, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireReviewer(actor); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	next := *expense
	next.Status = models.ExpenseStatusApproved
	next.ApprovedBy = &actor.ID
	next.ApprovedAt = &now
	next.RejectedReason = nil
	if err := s.transition(ctx, actor, expense, &next, models.ExpenseStatusSubmitted, models.AuditActionApprove, nil); err != nil {
		return nil, err
	}
	return &next, nil
}

// Reject moves a SUBMITTED expense to REJECTED. Reviewers only. A blank
// reason is replaced by the configured default.
func (s *expenseService) Reject(ctx context.Context, expenseID, actorID, reason string) (*models.Expense, error) {
	actor, expense, err := s.load(ctx, expenseID, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireReviewer(actor); err != nil {
		return nil, err
	}

	if r := optional(&reason); r != nil {
		reason = *r
	} else {
		reason = s.rejectReason
	}
	next := *expense
	next.Status = models.ExpenseStatusRejected
	next.RejectedReason = &reason
	next.ApprovedBy = nil
	next.ApprovedAt = nil
	if err := s.transition(ctx, actor, expense, &next, models.ExpenseStatusSubmitted, models.AuditActionReject,
		map[string]any{"reason": reason}); err != nil {
		return nil, err
	}
	return &next, nil
}

// Duplicate copies an expense into a new DRAFT with the same owner,
// whatever the status of the source.
func (s *expenseService) Duplicate(ctx context.Context, expenseID, actorID string) (*models.Expense, error) {
	actor, source, err := s.load(ctx, expenseID, actorID)
	if err != nil {
		return nil, err
	}
	if source.OwnerID != actor.ID && !actor.Role.CanReview() {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "only the owner or a reviewer can duplicate this expense")
	}

	copied := &models.Expense{
		CompanyID:   source.CompanyID,
		OwnerID:     source.OwnerID,
		Description: source.Description,
		ExpenseDate: source.ExpenseDate,
		Category:    source.Category,
		PaidBy:      source.PaidBy,
		TotalAmount: source.TotalAmount,
		Currency:    source.Currency,
		Notes:       cloneString(source.Notes),
		ReceiptURL:  cloneString(source.ReceiptURL),
		Status:      models.ExpenseStatusDraft,
	}
	if err := s.repos.Expenses.Create(ctx, copied); err != nil {
		return nil, storeError(err, apperrors.ErrExpenseNotFound)
	}

	s.audit.Log(ctx, actor, models.AuditActionDuplicate, resourceExpense, copied.ID, map[string]any{"source_id": source.ID})
	metrics.RecordTransition(models.AuditActionDuplicate, metrics.OutcomeOK)
	return copied, nil
}

// Delete removes a DRAFT expense. Only the owner may delete.
func (s *expenseService) Delete(ctx context.Context, expenseID, actorID string) error {
	actor, expense, err := s.load(ctx, expenseID, actorID)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, expense, "delete"); err != nil {
		return err
	}
	if expense.Status != models.ExpenseStatusDraft {
		metrics.RecordTransition(models.AuditActionDelete, metrics.OutcomeRejected)
		return invalidTransition("delete", expense.Status)
	}

	if err := s.repos.Expenses.Delete(ctx, expense.ID, models.ExpenseStatusDraft); err != nil {
		return storeError(err, apperrors.ErrExpenseNotFound)
	}

	s.audit.Log(ctx, actor, models.AuditActionDelete, resourceExpense, expense.ID, nil)
	metrics.RecordTransition(models.AuditActionDelete, metrics.OutcomeOK)
	return nil
}

// Get returns an expense to its owner or to a reviewer of the same company.
func (s *expenseService) Get(ctx context.Context, expenseID, actorID string) (*models.Expense, error) {
	actor, expense, err := s.load(ctx, expenseID, actorID)
	if err != nil {
		return nil, err
	}
	if expense.OwnerID != actor.ID && !actor.Role.CanReview() {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "you can only view your own expenses")
	}
	return expense, nil
}

// ListOwn returns the actor's expenses, newest first.
func (s *expenseService) ListOwn(ctx context.Context, actorID string, filter ExpenseListFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	actor, err := loadActor(ctx, s.repos.Users, actorID)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("unknown status %q", filter.Status)
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, invalid("unknown category %q", filter.Category)
	}

	return s.list(ctx, repository.ExpenseFilter{
		CompanyID: actor.CompanyID,
		OwnerID:   actor.ID,
		Status:    filter.Status,
		Category:  filter.Category,
		Search:    filter.Search,
	}, page)
}

// ListPending returns the SUBMITTED expenses of the reviewer's company.
func (s *expenseService) ListPending(ctx context.Context, actorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	actor, err := loadActor(ctx, s.repos.Users, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireReviewer(actor); err != nil {
		return nil, err
	}

	return s.list(ctx, repository.ExpenseFilter{
		CompanyID: actor.CompanyID,
		Status:    models.ExpenseStatusSubmitted,
	}, page)
}

func (s *expenseService) list(ctx context.Context, filter repository.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()
	items, total, err := s.repos.Expenses.List(ctx, filter, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	resp := pagination.NewPageResponse(items, page.Page, page.PageSize, total)
	return &resp, nil
}

// load resolves the actor and an expense of the actor's company. Expenses
// of other companies are reported as not found.
func (s *expenseService) load(ctx context.Context, expenseID, actorID string) (*models.User, *models.Expense, error) {
	actor, err := loadActor(ctx, s.repos.Users, actorID)
	if err != nil {
		return nil, nil, err
	}
	expense, err := s.repos.Expenses.GetByID(ctx, expenseID)
	if err != nil {
		return nil, nil, storeError(err, apperrors.ErrExpenseNotFound)
	}
	if expense.CompanyID != actor.CompanyID {
		return nil, nil, apperrors.ErrExpenseNotFound
	}
	return actor, expense, nil
}

// transition writes next provided the expense is still in status from,
// both as loaded and as stored at write time.
func (s *expenseService) transition(ctx context.Context, actor *models.User, loaded, next *models.Expense, from models.ExpenseStatus, action string, changes map[string]any) error {
	if loaded.Status != from {
		metrics.RecordTransition(action, metrics.OutcomeRejected)
		return invalidTransition(action, loaded.Status)
	}

	if err := s.repos.Expenses.Update(ctx, next, from); err != nil {
		appErr := storeError(err, apperrors.ErrExpenseNotFound)
		if apperrors.HasCode(appErr, apperrors.ErrInvalidTransition.Code) {
			metrics.RecordTransition(action, metrics.OutcomeRejected)
			return apperrors.WithMessage(apperrors.ErrInvalidTransition,
				fmt.Sprintf("cannot %s: the expense is no longer %s", action, from))
		}
		metrics.RecordTransition(action, metrics.OutcomeError)
		return appErr
	}

	if changes == nil {
		changes = map[string]any{}
	}
	changes["from"] = from
	changes["to"] = next.Status
	s.audit.Log(ctx, actor, action, resourceExpense, next.ID, changes)
	metrics.RecordTransition(action, metrics.OutcomeOK)

	logger.Get().Infow("expense transition",
		"expense_id", next.ID,
		"actor_id", actor.ID,
		"action", action,
		"from", from,
		"to", next.Status,
	)
	return nil
}

func requireOwner(actor *models.User, expense *models.Expense, action string) error {
	if expense.OwnerID != actor.ID {
		return apperrors.WithMessage(apperrors.ErrForbidden, fmt.Sprintf("only the owner can %s this expense", action))
	}
	return nil
}

func invalidTransition(action string, status models.ExpenseStatus) error {
	return apperrors.WithMessage(apperrors.ErrInvalidTransition,
		fmt.Sprintf("cannot %s an expense in status %s", action, status))
}

func applyInput(e *models.Expense, in ExpenseInput) {
	e.Description = in.Description
	e.ExpenseDate = in.ExpenseDate
	e.Category = in.Category
	e.PaidBy = in.PaidBy
	e.TotalAmount = in.TotalAmount
	e.Currency = in.Currency
	e.Notes = in.Notes
	e.ReceiptURL = in.ReceiptURL
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func expenseChanges(e *models.Expense) map[string]any {
	return map[string]any{
		"description":  e.Description,
		"expense_date": e.ExpenseDate.String(),
		"category":     e.Category,
		"paid_by":      e.PaidBy,
		"total_amount": e.FormattedAmount(),
		"currency":     e.Currency,
	}
}
