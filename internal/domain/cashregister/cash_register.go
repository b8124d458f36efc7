package cashregister

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// CashRegister is a physical till. CurrentBalance is a materialized view of
// the ledger: it is written only when a movement is recorded or a session is
// closed, inside the same transaction as the ledger write.
type CashRegister struct {
	shared.BaseAggregateRoot
	Name           string
	Description    string
	IsActive       bool
	CurrentBalance decimal.Decimal
	LastClosedAt   *time.Time
}

// NewCashRegister creates an active register with a zero balance
func NewCashRegister(name, description string) (*CashRegister, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Cash register name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, shared.NewValidationError("Cash register name cannot exceed 100 characters")
	}

	register := &CashRegister{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
		IsActive:          true,
		CurrentBalance:    decimal.Zero,
	}

	register.AddDomainEvent(NewCashRegisterCreatedEvent(register))

	return register, nil
}

// Deactivate soft-deletes the register. Registers are never removed.
func (r *CashRegister) Deactivate() error {
	if !r.IsActive {
		return shared.NewDomainError(shared.CodeInvalidState, "Cash register is already inactive")
	}

	r.IsActive = false
	r.MarkChanged()

	r.AddDomainEvent(NewCashRegisterStatusChangedEvent(r))

	return nil
}

// Activate re-enables a deactivated register
func (r *CashRegister) Activate() error {
	if r.IsActive {
		return shared.NewDomainError(shared.CodeInvalidState, "Cash register is already active")
	}

	r.IsActive = true
	r.MarkChanged()

	r.AddDomainEvent(NewCashRegisterStatusChangedEvent(r))

	return nil
}

// ApplyRunningBalance mirrors the running balance of the newest movement
func (r *CashRegister) ApplyRunningBalance(balance decimal.Decimal) {
	r.CurrentBalance = balance
	r.MarkChanged()
}

// ApplyClose records the counted cash of a session that just closed
func (r *CashRegister) ApplyClose(closingBalance decimal.Decimal, closedAt time.Time) {
	r.CurrentBalance = closingBalance
	r.LastClosedAt = &closedAt
	r.MarkChanged()
}
