package cashregister

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newOpenSession(t *testing.T, opening string) (*CashRegister, *Session) {
	t.Helper()
	register, err := NewCashRegister("Caja 1", "")
	require.NoError(t, err)
	session, err := OpenSession(register, d(opening), "cashier-1")
	require.NoError(t, err)
	return register, session
}

func record(t *testing.T, s *Session, previous *Movement, typ MovementType, amount string) *Movement {
	t.Helper()
	m, err := s.RecordMovement(s.RegisterID, previous, MovementInput{
		Type:   typ,
		Amount: d(amount),
		UserID: "cashier-1",
	})
	require.NoError(t, err)
	return m
}

func TestOpenSession(t *testing.T) {
	t.Run("opens session with given balance", func(t *testing.T) {
		register, session := newOpenSession(t, "1000.00")

		assert.Equal(t, register.ID, session.RegisterID)
		assert.Equal(t, SessionStatusOpen, session.Status)
		assert.True(t, session.OpeningBalance.Equal(d("1000")))
		assert.Equal(t, "cashier-1", session.OpenedBy)
		assert.False(t, session.OpenedAt.IsZero())
		assert.Nil(t, session.ClosedAt)

		events := session.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCashSessionOpened, events[0].EventType())
	})

	t.Run("accepts zero opening balance", func(t *testing.T) {
		_, session := newOpenSession(t, "0")
		assert.True(t, session.OpeningBalance.IsZero())
	})

	t.Run("rejects negative opening balance", func(t *testing.T) {
		register, _ := NewCashRegister("Caja 1", "")
		_, err := OpenSession(register, d("-1"), "cashier-1")
		assert.Equal(t, shared.CodeInvalidAmount, shared.ErrorCode(err))
	})

	t.Run("rejects inactive register", func(t *testing.T) {
		register, _ := NewCashRegister("Caja 1", "")
		require.NoError(t, register.Deactivate())
		_, err := OpenSession(register, d("10"), "cashier-1")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("requires actor", func(t *testing.T) {
		register, _ := NewCashRegister("Caja 1", "")
		_, err := OpenSession(register, d("10"), " ")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestSession_RecordMovement(t *testing.T) {
	t.Run("first movement starts from opening balance", func(t *testing.T) {
		_, session := newOpenSession(t, "1000.00")
		m := record(t, session, nil, MovementTypeIncome, "500.00")

		assert.Equal(t, int64(1), m.Sequence)
		assert.Equal(t, session.ID, m.SessionID)
		assert.Equal(t, session.RegisterID, m.RegisterID)
		assert.True(t, m.RunningBalance.Equal(d("1500")))
	})

	t.Run("chains running balance from previous", func(t *testing.T) {
		_, session := newOpenSession(t, "1000.00")
		m1 := record(t, session, nil, MovementTypeIncome, "500.00")
		m2 := record(t, session, m1, MovementTypeExpense, "200.00")
		m3 := record(t, session, m2, MovementTypeSale, "99.99")
		m4 := record(t, session, m3, MovementTypeTransferOut, "0.99")
		m5 := record(t, session, m4, MovementTypeTransferIn, "1")

		assert.Equal(t, "1300.00", m2.RunningBalance.StringFixed(2))
		assert.Equal(t, "1399.99", m3.RunningBalance.StringFixed(2))
		assert.Equal(t, "1399.00", m4.RunningBalance.StringFixed(2))
		assert.Equal(t, "1400.00", m5.RunningBalance.StringFixed(2))
		assert.Equal(t, int64(5), m5.Sequence)
	})

	t.Run("allows balance to go negative", func(t *testing.T) {
		_, session := newOpenSession(t, "10")
		m := record(t, session, nil, MovementTypeExpense, "25")
		assert.True(t, m.RunningBalance.Equal(d("-15")))
	})

	t.Run("description limit counts characters", func(t *testing.T) {
		_, session := newOpenSession(t, "0")
		input := MovementInput{Type: MovementTypeIncome, Amount: d("1"), UserID: "u", Description: strings.Repeat("ñ", 500)}
		_, err := session.RecordMovement(session.RegisterID, nil, input)
		require.NoError(t, err)

		input.Description = strings.Repeat("ñ", 501)
		_, err = session.RecordMovement(session.RegisterID, nil, input)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, session := newOpenSession(t, "10")
		_, err := session.RecordMovement(session.RegisterID, nil, MovementInput{Type: MovementTypeIncome, Amount: d("0"), UserID: "u"})
		assert.Equal(t, shared.CodeInvalidAmount, shared.ErrorCode(err))

		_, err = session.RecordMovement(session.RegisterID, nil, MovementInput{Type: MovementTypeIncome, Amount: d("-5"), UserID: "u"})
		assert.Equal(t, shared.CodeInvalidAmount, shared.ErrorCode(err))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, session := newOpenSession(t, "10")
		_, err := session.RecordMovement(session.RegisterID, nil, MovementInput{Type: "refund", Amount: d("1"), UserID: "u"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects register mismatch", func(t *testing.T) {
		_, session := newOpenSession(t, "10")
		other, _ := NewCashRegister("Caja 2", "")
		_, err := session.RecordMovement(other.ID, nil, MovementInput{Type: MovementTypeIncome, Amount: d("1"), UserID: "u"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects closed session", func(t *testing.T) {
		_, session := newOpenSession(t, "10")
		require.NoError(t, session.Close("cashier-1", d("10"), nil, ""))

		_, err := session.RecordMovement(session.RegisterID, nil, MovementInput{Type: MovementTypeIncome, Amount: d("1"), UserID: "u"})
		assert.ErrorIs(t, err, shared.ErrSessionNotOpen)
	})

	t.Run("emits movement event", func(t *testing.T) {
		_, session := newOpenSession(t, "10")
		session.ClearDomainEvents()
		m := record(t, session, nil, MovementTypeIncome, "1")

		events := session.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCashMovementRecorded, events[0].EventType())
		assert.Equal(t, m.ID, events[0].AggregateID())
	})
}

func TestSession_Close(t *testing.T) {
	t.Run("balanced close", func(t *testing.T) {
		_, session := newOpenSession(t, "1000.00")
		m1 := record(t, session, nil, MovementTypeIncome, "500.00")
		m2 := record(t, session, m1, MovementTypeExpense, "200.00")

		err := session.Close("cashier-2", d("1300.00"), []Movement{*m1, *m2}, " end of day ")
		require.NoError(t, err)

		assert.Equal(t, SessionStatusClosed, session.Status)
		assert.Equal(t, "cashier-2", session.ClosedBy)
		assert.Equal(t, "end of day", session.Notes)
		assert.Equal(t, "1300.00", session.ExpectedBalance.StringFixed(2))
		assert.Equal(t, "0.00", session.Difference.StringFixed(2))
		assert.NotNil(t, session.ClosedAt)
		assert.False(t, session.HasShortage())
		assert.False(t, session.HasSurplus())
	})

	t.Run("shortage is recorded not rejected", func(t *testing.T) {
		_, session := newOpenSession(t, "1000.00")
		m1 := record(t, session, nil, MovementTypeIncome, "500.00")
		m2 := record(t, session, m1, MovementTypeExpense, "200.00")

		require.NoError(t, session.Close("cashier-2", d("1250.00"), []Movement{*m1, *m2}, ""))
		assert.Equal(t, "-50.00", session.Difference.StringFixed(2))
		assert.True(t, session.HasShortage())
	})

	t.Run("surplus", func(t *testing.T) {
		_, session := newOpenSession(t, "100")
		require.NoError(t, session.Close("cashier-2", d("100.50"), nil, ""))
		assert.Equal(t, "100.00", session.ExpectedBalance.StringFixed(2))
		assert.Equal(t, "0.50", session.Difference.StringFixed(2))
		assert.True(t, session.HasSurplus())
	})

	t.Run("second close fails and leaves figures untouched", func(t *testing.T) {
		_, session := newOpenSession(t, "100")
		require.NoError(t, session.Close("cashier-2", d("90"), nil, ""))

		err := session.Close("cashier-3", d("100"), nil, "")
		assert.ErrorIs(t, err, shared.ErrAlreadyClosed)
		assert.Equal(t, "90", session.ClosingBalance.String())
		assert.Equal(t, "-10", session.Difference.String())
		assert.Equal(t, "cashier-2", session.ClosedBy)
	})

	t.Run("rejects negative closing balance", func(t *testing.T) {
		_, session := newOpenSession(t, "100")
		err := session.Close("cashier-2", d("-1"), nil, "")
		assert.Equal(t, shared.CodeInvalidAmount, shared.ErrorCode(err))
		assert.True(t, session.IsOpen())
	})

	t.Run("rejects movements of another session", func(t *testing.T) {
		_, session := newOpenSession(t, "100")
		_, other := newOpenSession(t, "100")
		foreign := record(t, other, nil, MovementTypeIncome, "1")

		err := session.Close("cashier-2", d("100"), []Movement{*foreign}, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, session.IsOpen())
	})
}
