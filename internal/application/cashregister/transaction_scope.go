package cashregister

import (
	"context"

	"github.com/ferreteria/backoffice/internal/domain/cashregister"
)

// TransactionScope provides transactional access to the cash ledger repositories.
// All repository operations performed inside Execute share one database
// transaction and are committed or rolled back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within a transaction.
//
// Lock order: a session row is always locked before its register row, and
// operations that only touch the register lock the register alone.
type TransactionalRepositories interface {
	// RegisterRepo returns the cash register repository scoped to the current transaction
	RegisterRepo() cashregister.CashRegisterRepository
	// SessionRepo returns the session repository scoped to the current transaction
	SessionRepo() cashregister.SessionRepository
	// MovementRepo returns the append-only movement repository scoped to the current transaction
	MovementRepo() cashregister.MovementRepository
}

// NoOpTransactionScope runs the function without a transaction.
// Used by unit tests with mocked repositories.
type NoOpTransactionScope struct {
	registerRepo cashregister.CashRegisterRepository
	sessionRepo  cashregister.SessionRepository
	movementRepo cashregister.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	registerRepo cashregister.CashRegisterRepository,
	sessionRepo cashregister.SessionRepository,
	movementRepo cashregister.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		registerRepo: registerRepo,
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RegisterRepo returns the cash register repository.
func (s *NoOpTransactionScope) RegisterRepo() cashregister.CashRegisterRepository {
	return s.registerRepo
}

// SessionRepo returns the session repository.
func (s *NoOpTransactionScope) SessionRepo() cashregister.SessionRepository {
	return s.sessionRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() cashregister.MovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
