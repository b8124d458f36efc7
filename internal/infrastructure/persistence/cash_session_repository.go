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

// GormSessionRepository implements SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID finds a session by ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashregister.Session, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

// FindByIDForUpdate finds a session with SELECT ... FOR UPDATE
func (r *GormSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*cashregister.Session, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

// FindOpenByRegister returns the open session of a register or a NOT_FOUND error
func (r *GormSessionRepository) FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*cashregister.Session, error) {
	return r.first(r.db.WithContext(ctx), "register_id = ? AND status = ?", registerID, string(cashregister.SessionStatusOpen))
}

func (r *GormSessionRepository) first(query *gorm.DB, cond string, args ...any) (*cashregister.Session, error) {
	var model models.CashSessionModel
	if err := query.Where(cond, args...).First(&model).Error; err != nil {
		return nil, translateError(err, "Cash session")
	}
	return model.ToDomain(), nil
}

// FindByRegister lists the sessions of a register, newest first by default
func (r *GormSessionRepository) FindByRegister(ctx context.Context, registerID uuid.UUID, filter shared.Filter) ([]cashregister.Session, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CashSessionModel{}).
		Where("register_id = ?", registerID)

	var rows []models.CashSessionModel
	if err := applyPaging(query, filter, SessionSortFields, "opened_at").Find(&rows).Error; err != nil {
		return nil, err
	}

	sessions := make([]cashregister.Session, len(rows))
	for i := range rows {
		sessions[i] = *rows[i].ToDomain()
	}
	return sessions, nil
}

// Save inserts a newly opened session or updates a closing one. A second
// open session for the same register violates uq_cash_sessions_open_register
// and surfaces as CONFLICT.
func (r *GormSessionRepository) Save(ctx context.Context, session *cashregister.Session) error {
	model := models.CashSessionModelFromDomain(session)
	if session.Version <= 1 {
		return translateError(r.db.WithContext(ctx).Create(model).Error, "Cash session")
	}

	result := r.db.WithContext(ctx).
		Model(&models.CashSessionModel{}).
		Where("id = ? AND version = ?", session.ID, session.Version-1).
		Updates(map[string]any{
			"status":           model.Status,
			"closed_by":        model.ClosedBy,
			"closing_balance":  model.ClosingBalance,
			"expected_balance": model.ExpectedBalance,
			"difference":       model.Difference,
			"notes":            model.Notes,
			"closed_at":        model.ClosedAt,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "Cash session")
	}
	if result.RowsAffected == 0 {
		return staleVersionError("Cash session")
	}
	return nil
}

// Ensure GormSessionRepository implements SessionRepository
var _ cashregister.SessionRepository = (*GormSessionRepository)(nil)
