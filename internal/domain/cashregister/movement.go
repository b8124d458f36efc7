package cashregister

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// MovementType is the kind of cash event recorded in a session
type MovementType string

const (
	MovementTypeIncome      MovementType = "income"
	MovementTypeExpense     MovementType = "expense"
	MovementTypeSale        MovementType = "sale"
	MovementTypeTransferIn  MovementType = "transfer_in"
	MovementTypeTransferOut MovementType = "transfer_out"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIncome,
		MovementTypeExpense,
		MovementTypeSale,
		MovementTypeTransferIn,
		MovementTypeTransferOut:
		return true
	}
	return false
}

// IsAdditive returns true if the movement puts cash into the register
func (t MovementType) IsAdditive() bool {
	switch t {
	case MovementTypeIncome, MovementTypeSale, MovementTypeTransferIn:
		return true
	}
	return false
}

// Apply returns balance with amount added or subtracted according to the type
func (t MovementType) Apply(balance, amount decimal.Decimal) decimal.Decimal {
	if t.IsAdditive() {
		return balance.Add(amount)
	}
	return balance.Sub(amount)
}

// Movement is an immutable ledger entry of a session.
// Amount is always positive; the direction comes from Type.
type Movement struct {
	shared.BaseEntity
	SessionID       uuid.UUID
	RegisterID      uuid.UUID
	Sequence        int64
	Type            MovementType
	Amount          decimal.Decimal
	Category        string
	PaymentMethodID *string
	SaleID          *string
	Description     string
	Reference       string
	RunningBalance  decimal.Decimal
	UserID          string
}

// MovementInput carries the caller supplied fields of a new movement
type MovementInput struct {
	Type            MovementType
	Amount          decimal.Decimal
	Category        string
	PaymentMethodID *string
	SaleID          *string
	Description     string
	Reference       string
	UserID          string
}

func newMovement(session *Session, sequence int64, baseline decimal.Decimal, input MovementInput) (*Movement, error) {
	if !input.Type.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid movement type %q", input.Type))
	}
	if !input.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Movement amount must be positive")
	}
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, shared.NewValidationError("Movement user is required")
	}
	if utf8.RuneCountInString(input.Description) > 500 {
		return nil, shared.NewValidationError("Description cannot exceed 500 characters")
	}

	return &Movement{
		BaseEntity:      shared.NewBaseEntity(),
		SessionID:       session.ID,
		RegisterID:      session.RegisterID,
		Sequence:        sequence,
		Type:            input.Type,
		Amount:          input.Amount,
		Category:        strings.TrimSpace(input.Category),
		PaymentMethodID: input.PaymentMethodID,
		SaleID:          input.SaleID,
		Description:     strings.TrimSpace(input.Description),
		Reference:       strings.TrimSpace(input.Reference),
		RunningBalance:  input.Type.Apply(baseline, input.Amount),
		UserID:          userID,
	}, nil
}

// SignedAmount returns the amount with sign based on movement type
func (m *Movement) SignedAmount() decimal.Decimal {
	if m.Type.IsAdditive() {
		return m.Amount
	}
	return m.Amount.Neg()
}

// ReplayBalance applies movements in order starting from opening
func ReplayBalance(opening decimal.Decimal, movements []Movement) decimal.Decimal {
	balance := opening
	for i := range movements {
		balance = balance.Add(movements[i].SignedAmount())
	}
	return balance
}

// VerifyRunningBalances checks that every stored running balance equals the
// replayed one and that sequences are contiguous from 1.
func VerifyRunningBalances(opening decimal.Decimal, movements []Movement) error {
	balance := opening
	for i := range movements {
		m := &movements[i]
		if m.Sequence != int64(i+1) {
			return fmt.Errorf("movement %s: expected sequence %d, got %d", m.ID, i+1, m.Sequence)
		}
		balance = balance.Add(m.SignedAmount())
		if !balance.Equal(m.RunningBalance) {
			return fmt.Errorf("movement %s (seq %d): running balance %s, replay gives %s",
				m.ID, m.Sequence, m.RunningBalance.String(), balance.String())
		}
	}
	return nil
}

// Summary totals a session's movements by direction
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Count        int
}

// Net returns income minus expense
func (s Summary) Net() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// Summarize sums additive and subtractive movements separately
func Summarize(movements []Movement) Summary {
	summary := Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for i := range movements {
		if movements[i].Type.IsAdditive() {
			summary.TotalIncome = summary.TotalIncome.Add(movements[i].Amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(movements[i].Amount)
		}
		summary.Count++
	}
	return summary
}
