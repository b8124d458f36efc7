package persistence

import (
	"context"

	"gorm.io/gorm"

	appcash "github.com/ferreteria/backoffice/internal/application/cashregister"
	"github.com/ferreteria/backoffice/internal/domain/cashregister"
	"github.com/ferreteria/backoffice/internal/infrastructure/telemetry"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn in one database transaction, rolling back when it returns an error.
// The statements run under one "cash.unit_of_work" span.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcash.TransactionalRepositories) error) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "cash.unit_of_work")
	defer func() { telemetry.EndSpan(span, err) }()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) RegisterRepo() cashregister.CashRegisterRepository {
	return NewGormCashRegisterRepository(r.tx)
}

func (r *gormTransactionalRepositories) SessionRepo() cashregister.SessionRepository {
	return NewGormSessionRepository(r.tx)
}

func (r *gormTransactionalRepositories) MovementRepo() cashregister.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appcash.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appcash.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
