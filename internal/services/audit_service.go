package services

import (
	"context"

	"github.com/goccy/go-json"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/logger"
	"expenseflow/internal/models"
	"expenseflow/internal/repository"
)

// Resource types recorded in the audit log.
const (
	resourceExpense = "expense"
	resourceRule    = "approval_rule"
	resourceUser    = "user"
)

// auditService handles audit log recording.
type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(repo repository.AuditRepository) AuditServicer {
	return &auditService{repo: repo}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, actor *models.User, action, resourceType, resourceID string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		CompanyID:    actor.CompanyID,
		ActorID:      actor.ID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changesJSON,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"actor_id", actor.ID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// History returns the audit entries of one resource, oldest first.
func (s *auditService) History(ctx context.Context, resourceType, resourceID string) ([]models.AuditLog, error) {
	entries, err := s.repo.ListByResource(ctx, resourceType, resourceID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}
