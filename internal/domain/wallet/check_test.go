package wallet

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validInput() NewCheckInput {
	return NewCheckInput{
		CheckType:   CheckTypePhysical,
		CheckNumber: "00012345",
		BankName:    "Banco Nación",
		Amount:      decimal.RequireFromString("15000.00"),
		IssueDate:   date(2026, 3, 1),
		DueDate:     date(2026, 4, 1),
		IssuerName:  "Corralón Norte SRL",
		ReceivedBy:  "cashier-1",
	}
}

func newPendingCheck(t *testing.T) *Check {
	t.Helper()
	check, err := NewCheck(validInput())
	require.NoError(t, err)
	return check
}

func TestNewCheck(t *testing.T) {
	t.Run("creates pending check", func(t *testing.T) {
		check := newPendingCheck(t)

		assert.Equal(t, CheckStatusPending, check.Status)
		assert.Equal(t, "00012345", check.CheckNumber)
		assert.Nil(t, check.DepositDate)
		events := check.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCheckReceived, events[0].EventType())
	})

	t.Run("accepts echeq and same-day due date", func(t *testing.T) {
		input := validInput()
		input.CheckType = CheckTypeECheq
		input.DueDate = input.IssueDate.Add(5 * time.Hour)
		_, err := NewCheck(input)
		assert.NoError(t, err)
	})

	tests := []struct {
		name   string
		mutate func(*NewCheckInput)
		code   string
	}{
		{"invalid type", func(in *NewCheckInput) { in.CheckType = "money_order" }, shared.CodeValidation},
		{"empty number", func(in *NewCheckInput) { in.CheckNumber = " " }, shared.CodeValidation},
		{"empty bank", func(in *NewCheckInput) { in.BankName = "" }, shared.CodeValidation},
		{"empty issuer", func(in *NewCheckInput) { in.IssuerName = "" }, shared.CodeValidation},
		{"zero amount", func(in *NewCheckInput) { in.Amount = decimal.Zero }, shared.CodeInvalidAmount},
		{"missing due date", func(in *NewCheckInput) { in.DueDate = time.Time{} }, shared.CodeValidation},
		{"due before issue", func(in *NewCheckInput) { in.DueDate = date(2026, 2, 28) }, shared.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			check, err := NewCheck(input)
			assert.Nil(t, check)
			assert.Equal(t, tt.code, shared.ErrorCode(err))
		})
	}
}

func TestCheck_Transitions(t *testing.T) {
	at := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

	t.Run("deposit", func(t *testing.T) {
		check := newPendingCheck(t)
		require.NoError(t, check.Deposit("acc-galicia-01", at))
		assert.Equal(t, CheckStatusDeposited, check.Status)
		assert.Equal(t, "acc-galicia-01", *check.DepositAccountID)
		assert.Equal(t, at, *check.DepositDate)
		assert.Equal(t, 2, check.GetVersion())
	})

	t.Run("endorse", func(t *testing.T) {
		check := newPendingCheck(t)
		require.NoError(t, check.Endorse("Proveedor Pinturas SA", at))
		assert.Equal(t, CheckStatusEndorsed, check.Status)
		assert.Equal(t, "Proveedor Pinturas SA", *check.EndorsedTo)
	})

	t.Run("reject", func(t *testing.T) {
		check := newPendingCheck(t)
		require.NoError(t, check.Reject("insufficient funds", at))
		assert.Equal(t, CheckStatusRejected, check.Status)
		assert.Equal(t, "insufficient funds", *check.RejectionReason)
		assert.True(t, check.Status.IsTerminal())
	})

	t.Run("only pending checks transition", func(t *testing.T) {
		check := newPendingCheck(t)
		require.NoError(t, check.Deposit("acc-1", at))

		assert.ErrorIs(t, check.Deposit("acc-2", at), shared.ErrInvalidState)
		assert.ErrorIs(t, check.Endorse("someone", at), shared.ErrInvalidState)
		assert.ErrorIs(t, check.Reject("late", at), shared.ErrInvalidState)
		assert.Equal(t, "acc-1", *check.DepositAccountID)
	})

	t.Run("requires transition metadata", func(t *testing.T) {
		check := newPendingCheck(t)
		assert.ErrorIs(t, check.Deposit("", at), shared.ErrValidation)
		assert.ErrorIs(t, check.Endorse(" ", at), shared.ErrValidation)
		assert.ErrorIs(t, check.Reject("", at), shared.ErrValidation)
		assert.Equal(t, CheckStatusPending, check.Status)
	})
}
