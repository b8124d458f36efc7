package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ferreteria/backoffice/internal/domain/cashregister"
	"github.com/ferreteria/backoffice/internal/domain/shared"
	"github.com/ferreteria/backoffice/internal/infrastructure/persistence/models"
)

// GormCashRegisterRepository implements CashRegisterRepository using GORM
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

// FindByID finds a register by ID
func (r *GormCashRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashregister.CashRegister, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a register with SELECT ... FOR UPDATE
func (r *GormCashRegisterRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*cashregister.CashRegister, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormCashRegisterRepository) find(query *gorm.DB, id uuid.UUID) (*cashregister.CashRegister, error) {
	var model models.CashRegisterModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Cash register")
	}
	return model.ToDomain(), nil
}

// FindAll lists registers; Filters["is_active"] narrows by state
func (r *GormCashRegisterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]cashregister.CashRegister, error) {
	query := r.db.WithContext(ctx).Model(&models.CashRegisterModel{})
	if active, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", active)
	}

	var rows []models.CashRegisterModel
	if err := applyPaging(query, filter, RegisterSortFields, "name").Find(&rows).Error; err != nil {
		return nil, err
	}

	registers := make([]cashregister.CashRegister, len(rows))
	for i := range rows {
		registers[i] = *rows[i].ToDomain()
	}
	return registers, nil
}

// Save inserts a new register (version 1) or updates an existing one
// guarded by its previous version
func (r *GormCashRegisterRepository) Save(ctx context.Context, register *cashregister.CashRegister) error {
	model := models.CashRegisterModelFromDomain(register)
	if register.Version <= 1 {
		return translateError(r.db.WithContext(ctx).Create(model).Error, "Cash register")
	}

	result := r.db.WithContext(ctx).
		Model(&models.CashRegisterModel{}).
		Where("id = ? AND version = ?", register.ID, register.Version-1).
		Updates(map[string]any{
			"name":            model.Name,
			"description":     model.Description,
			"is_active":       model.IsActive,
			"current_balance": model.CurrentBalance,
			"last_closed_at":  model.LastClosedAt,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "Cash register")
	}
	if result.RowsAffected == 0 {
		return staleVersionError("Cash register")
	}
	return nil
}

// Ensure GormCashRegisterRepository implements CashRegisterRepository
var _ cashregister.CashRegisterRepository = (*GormCashRegisterRepository)(nil)
