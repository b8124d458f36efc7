package cashregister

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementType(t *testing.T) {
	tests := []struct {
		typ      MovementType
		valid    bool
		additive bool
	}{
		{MovementTypeIncome, true, true},
		{MovementTypeSale, true, true},
		{MovementTypeTransferIn, true, true},
		{MovementTypeExpense, true, false},
		{MovementTypeTransferOut, true, false},
		{MovementType("adjustment"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.typ.IsValid())
			assert.Equal(t, tt.additive, tt.typ.IsAdditive())
		})
	}
}

func TestReplayAndVerify(t *testing.T) {
	_, session := newOpenSession(t, "1000")
	var movements []Movement
	var previous *Movement
	for _, step := range []struct {
		typ    MovementType
		amount string
	}{
		{MovementTypeIncome, "500"},
		{MovementTypeExpense, "200"},
		{MovementTypeSale, "35.50"},
		{MovementTypeTransferOut, "100"},
	} {
		previous = record(t, session, previous, step.typ, step.amount)
		movements = append(movements, *previous)
	}

	replayed := ReplayBalance(session.OpeningBalance, movements)
	assert.True(t, replayed.Equal(movements[len(movements)-1].RunningBalance))
	assert.Equal(t, "1235.50", replayed.StringFixed(2))
	require.NoError(t, VerifyRunningBalances(session.OpeningBalance, movements))

	t.Run("detects tampered running balance", func(t *testing.T) {
		tampered := append([]Movement(nil), movements...)
		tampered[2].RunningBalance = tampered[2].RunningBalance.Add(decimal.NewFromInt(1))
		assert.Error(t, VerifyRunningBalances(session.OpeningBalance, tampered))
	})

	t.Run("detects sequence gap", func(t *testing.T) {
		gapped := []Movement{movements[0], movements[2]}
		assert.Error(t, VerifyRunningBalances(session.OpeningBalance, gapped))
	})
}

func TestSummarize(t *testing.T) {
	_, session := newOpenSession(t, "0")
	m1 := record(t, session, nil, MovementTypeIncome, "100")
	m2 := record(t, session, m1, MovementTypeSale, "50")
	m3 := record(t, session, m2, MovementTypeExpense, "30")
	m4 := record(t, session, m3, MovementTypeTransferOut, "20")

	summary := Summarize([]Movement{*m1, *m2, *m3, *m4})
	assert.Equal(t, "150", summary.TotalIncome.String())
	assert.Equal(t, "50", summary.TotalExpense.String())
	assert.Equal(t, "100", summary.Net().String())
	assert.Equal(t, 4, summary.Count)

	empty := Summarize(nil)
	assert.True(t, empty.TotalIncome.IsZero())
	assert.True(t, empty.TotalExpense.IsZero())
}

func TestMovement_SignedAmount(t *testing.T) {
	_, session := newOpenSession(t, "0")
	m1 := record(t, session, nil, MovementTypeIncome, "10")
	m2 := record(t, session, m1, MovementTypeExpense, "4")
	assert.Equal(t, "10", m1.SignedAmount().String())
	assert.Equal(t, "-4", m2.SignedAmount().String())
}
