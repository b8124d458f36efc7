package cashregister

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// CashRegisterRepository defines the interface for register persistence
type CashRegisterRepository interface {
	// FindByID finds a register by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CashRegister, error)

	// FindByIDForUpdate finds a register and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*CashRegister, error)

	// FindAll finds registers matching the filter ("is_active" is honoured)
	FindAll(ctx context.Context, filter shared.Filter) ([]CashRegister, error)

	// Save creates or updates a register
	Save(ctx context.Context, register *CashRegister) error
}

// SessionRepository defines the interface for session persistence
type SessionRepository interface {
	// FindByID finds a session by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// FindByIDForUpdate finds a session and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Session, error)

	// FindOpenByRegister returns the open session of a register, or ErrNotFound
	FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*Session, error)

	// FindByRegister lists sessions of a register, newest first
	FindByRegister(ctx context.Context, registerID uuid.UUID, filter shared.Filter) ([]Session, error)

	// Save creates or updates a session
	Save(ctx context.Context, session *Session) error
}

// MovementRepository defines the interface for the append-only movement ledger
type MovementRepository interface {
	// Create appends a movement. Movements are never updated or deleted.
	Create(ctx context.Context, movement *Movement) error

	// FindLastBySession returns the movement with the highest sequence, or nil if the session has none
	FindLastBySession(ctx context.Context, sessionID uuid.UUID) (*Movement, error)

	// FindBySession returns all movements of a session ordered by sequence ascending
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]Movement, error)
}
