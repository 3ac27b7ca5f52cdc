package gormstore

import (
	"context"

	"gorm.io/gorm"

	"expenseflow/internal/models"
	"expenseflow/internal/repository"
)

type ruleRepository struct {
	db *gorm.DB
}

func (r *ruleRepository) Create(ctx context.Context, rule *models.ApprovalRule) error {
	return translate(r.db.WithContext(ctx).Create(rule).Error)
}

func (r *ruleRepository) GetByID(ctx context.Context, id string) (*models.ApprovalRule, error) {
	var rule models.ApprovalRule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error; err != nil {
		return nil, translate(err)
	}
	return &rule, nil
}

func (r *ruleRepository) ListByCompany(ctx context.Context, companyID string) ([]models.ApprovalRule, error) {
	var rules []models.ApprovalRule
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").Order("id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *ruleRepository) Replace(ctx context.Context, rule *models.ApprovalRule) error {
	res := r.db.WithContext(ctx).Model(rule).Select("*").Omit("id", "created_at").Updates(rule)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ruleRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ApprovalRule{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
