package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ferreteria/backoffice/internal/domain/cashregister"
	"github.com/ferreteria/backoffice/internal/infrastructure/persistence/models"
)

// GormMovementRepository implements the append-only MovementRepository using GORM.
// It exposes no update or delete path.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement. A duplicated (session_id, sequence) pair is a CONFLICT.
func (r *GormMovementRepository) Create(ctx context.Context, movement *cashregister.Movement) error {
	model := models.CashMovementModelFromDomain(movement)
	return translateError(r.db.WithContext(ctx).Create(model).Error, "Cash movement")
}

// FindLastBySession returns the highest-sequence movement, or nil when the session has none
func (r *GormMovementRepository) FindLastBySession(ctx context.Context, sessionID uuid.UUID) (*cashregister.Movement, error) {
	var model models.CashMovementModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("sequence DESC").
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySession returns the whole ledger of a session in sequence order
func (r *GormMovementRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]cashregister.Movement, error) {
	var rows []models.CashMovementModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	movements := make([]cashregister.Movement, len(rows))
	for i := range rows {
		movements[i] = *rows[i].ToDomain()
	}
	return movements, nil
}

// Ensure GormMovementRepository implements MovementRepository
var _ cashregister.MovementRepository = (*GormMovementRepository)(nil)
