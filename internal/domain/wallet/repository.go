package wallet

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// CheckRepository defines the interface for check persistence
type CheckRepository interface {
	// FindByID finds a check by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Check, error)

	// FindAll finds checks matching the filter ("status" is honoured)
	FindAll(ctx context.Context, filter shared.Filter) ([]Check, error)

	// FindPending returns all pending checks ordered by due date ascending
	FindPending(ctx context.Context) ([]Check, error)

	// Save creates or updates a check
	Save(ctx context.Context, check *Check) error
}
