package services

import (
	"context"
	"errors"

	apperrors "expenseflow/internal/errors"
	"expenseflow/internal/models"
	"expenseflow/internal/repository"
)

// loadActor re-reads the acting user so that role changes and deletions take
// effect immediately, regardless of what an access token still claims.
func loadActor(ctx context.Context, users repository.UserRepository, actorID string) (*models.User, error) {
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return actor, nil
}

func requireAdmin(actor *models.User) error {
	if actor.Role != models.RoleAdmin {
		return apperrors.WithMessage(apperrors.ErrForbidden, "only admins can perform this action")
	}
	return nil
}

func requireReviewer(actor *models.User) error {
	if !actor.Role.CanReview() {
		return apperrors.WithMessage(apperrors.ErrForbidden, "only managers and admins can review expenses")
	}
	return nil
}

// storeError maps a repository error to an AppError, using notFound for
// missing records.
func storeError(err error, notFound *apperrors.AppError) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrStatusMismatch):
		return apperrors.Wrap(apperrors.ErrInvalidTransition, err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.ErrDuplicateEmail
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
