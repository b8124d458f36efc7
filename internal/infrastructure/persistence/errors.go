package persistence

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// translateError maps driver level failures onto domain errors. The database
// is opened with TranslateError so unique violations arrive as ErrDuplicatedKey.
func translateError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainError(shared.CodeConflict, resource+" conflicts with existing data").WithCause(err)
	default:
		return err
	}
}

// staleVersionError reports a lost optimistic lock
func staleVersionError(resource string) error {
	return shared.NewDomainError(shared.CodeConflict, resource+" was modified by another transaction")
}
