package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"expenseflow/internal/models"
	"expenseflow/internal/pagination"
	"expenseflow/internal/repository"
)

type expenseRepository struct {
	db *gorm.DB
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return translate(r.db.WithContext(ctx).Create(expense).Error)
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&expense).Error; err != nil {
		return nil, translate(err)
	}
	return &expense, nil
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (r *expenseRepository) List(ctx context.Context, filter repository.ExpenseFilter, page pagination.PageRequest) ([]models.Expense, int64, error) {
	page.Defaults()

	base := r.db.WithContext(ctx).Model(&models.Expense{})
	if filter.CompanyID != "" {
		base = base.Where("company_id = ?", filter.CompanyID)
	}
	if filter.OwnerID != "" {
		base = base.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		base = base.Where("category = ?", filter.Category)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		base = base.Where(`LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'`, like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []models.Expense
	if err := base.Order("created_at DESC").Order("id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, e *models.Expense, expected models.ExpenseStatus) error {
	res := r.db.WithContext(ctx).Model(e).
		Where("status = ?", expected).
		Select("*").Omit("id", "created_at").
		Updates(e)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missOrMismatch(ctx, e.ID)
	}
	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, id string, expected models.ExpenseStatus) error {
	res := r.db.WithContext(ctx).Where("id = ? AND status = ?", id, expected).Delete(&models.Expense{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missOrMismatch(ctx, id)
	}
	return nil
}

// missOrMismatch tells apart a conditional write that found no row from one
// that lost to a concurrent status change.
func (r *expenseRepository) missOrMismatch(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Expense{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrStatusMismatch
}
