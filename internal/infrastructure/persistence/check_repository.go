package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ferreteria/backoffice/internal/domain/shared"
	"github.com/ferreteria/backoffice/internal/domain/wallet"
	"github.com/ferreteria/backoffice/internal/infrastructure/persistence/models"
)

// GormCheckRepository implements CheckRepository using GORM
type GormCheckRepository struct {
	db *gorm.DB
}

// NewGormCheckRepository creates a new GormCheckRepository
func NewGormCheckRepository(db *gorm.DB) *GormCheckRepository {
	return &GormCheckRepository{db: db}
}

// FindByID finds a check by ID
func (r *GormCheckRepository) FindByID(ctx context.Context, id uuid.UUID) (*wallet.Check, error) {
	var model models.CheckModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Check")
	}
	return model.ToDomain(), nil
}

// FindAll lists checks; Filters["status"] narrows by status
func (r *GormCheckRepository) FindAll(ctx context.Context, filter shared.Filter) ([]wallet.Check, error) {
	query := r.db.WithContext(ctx).Model(&models.CheckModel{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", fmt.Sprint(status))
	}

	var rows []models.CheckModel
	if err := applyPaging(query, filter, CheckSortFields, "due_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toChecks(rows), nil
}

// FindPending returns every pending check, earliest due date first
func (r *GormCheckRepository) FindPending(ctx context.Context) ([]wallet.Check, error) {
	var rows []models.CheckModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(wallet.CheckStatusPending)).
		Order("due_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toChecks(rows), nil
}

// Save inserts a new check or applies a status transition with optimistic locking
func (r *GormCheckRepository) Save(ctx context.Context, check *wallet.Check) error {
	model := models.CheckModelFromDomain(check)
	if check.Version <= 1 {
		return translateError(r.db.WithContext(ctx).Create(model).Error, "Check")
	}

	result := r.db.WithContext(ctx).
		Model(&models.CheckModel{}).
		Where("id = ? AND version = ?", check.ID, check.Version-1).
		Updates(map[string]any{
			"status":             model.Status,
			"notes":              model.Notes,
			"deposit_account_id": model.DepositAccountID,
			"deposit_date":       model.DepositDate,
			"endorsed_to":        model.EndorsedTo,
			"endorsed_date":      model.EndorsedDate,
			"rejection_reason":   model.RejectionReason,
			"rejection_date":     model.RejectionDate,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "Check")
	}
	if result.RowsAffected == 0 {
		return staleVersionError("Check")
	}
	return nil
}

func toChecks(rows []models.CheckModel) []wallet.Check {
	checks := make([]wallet.Check, len(rows))
	for i := range rows {
		checks[i] = *rows[i].ToDomain()
	}
	return checks
}

// Ensure GormCheckRepository implements CheckRepository
var _ wallet.CheckRepository = (*GormCheckRepository)(nil)
