package cashregister

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// SessionStatus represents the state of a cash register session
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusOpen, SessionStatusClosed:
		return true
	}
	return false
}

// Session is one open-to-close cycle of a register.
// The only transition is open -> closed; a closed session is immutable.
type Session struct {
	shared.BaseAggregateRoot
	RegisterID      uuid.UUID
	OpenedBy        string
	OpeningBalance  decimal.Decimal
	Status          SessionStatus
	ClosedBy        string
	ClosingBalance  *decimal.Decimal
	ExpectedBalance *decimal.Decimal
	Difference      *decimal.Decimal
	Notes           string
	OpenedAt        time.Time
	ClosedAt        *time.Time
}

// OpenSession starts a new session on register with the counted opening cash.
// Uniqueness of the open session per register is enforced by the caller's
// transaction, not here.
func OpenSession(register *CashRegister, openingBalance decimal.Decimal, openedBy string) (*Session, error) {
	if register == nil {
		return nil, shared.NewValidationError("Cash register is required")
	}
	if !register.IsActive {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Cannot open a session on an inactive cash register")
	}
	if openingBalance.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Opening balance cannot be negative")
	}
	openedBy = strings.TrimSpace(openedBy)
	if openedBy == "" {
		return nil, shared.NewValidationError("Opening user is required")
	}

	session := &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RegisterID:        register.ID,
		OpenedBy:          openedBy,
		OpeningBalance:    openingBalance,
		Status:            SessionStatusOpen,
	}
	session.OpenedAt = session.CreatedAt

	session.AddDomainEvent(NewCashSessionOpenedEvent(session))

	return session, nil
}

// IsOpen returns true if the session still accepts movements
func (s *Session) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// EnsureOpen returns SESSION_NOT_OPEN unless the session is open
func (s *Session) EnsureOpen() error {
	if !s.IsOpen() {
		return shared.NewDomainError(shared.CodeSessionNotOpen, fmt.Sprintf("Cash session %s is not open", s.ID))
	}
	return nil
}

// RecordMovement appends a movement after previous (nil for the first one).
// The running balance and sequence are derived from previous, or from the
// opening balance when the session has no movements yet.
func (s *Session) RecordMovement(registerID uuid.UUID, previous *Movement, input MovementInput) (*Movement, error) {
	if err := s.EnsureOpen(); err != nil {
		return nil, err
	}
	if registerID != s.RegisterID {
		return nil, shared.NewValidationError("Cash register does not match the session's register")
	}

	baseline := s.OpeningBalance
	var sequence int64 = 1
	if previous != nil {
		if previous.SessionID != s.ID {
			return nil, shared.NewValidationError("Previous movement belongs to another session")
		}
		baseline = previous.RunningBalance
		sequence = previous.Sequence + 1
	}

	movement, err := newMovement(s, sequence, baseline, input)
	if err != nil {
		return nil, err
	}

	s.Touch()
	s.AddDomainEvent(NewCashMovementRecordedEvent(movement))

	return movement, nil
}

// Close reconciles the counted cash against the ledger.
// movements must be every movement of the session in sequence order.
// A non-zero difference is recorded, never rejected.
func (s *Session) Close(closedBy string, closingBalance decimal.Decimal, movements []Movement, notes string) error {
	if s.Status == SessionStatusClosed {
		return shared.NewDomainError(shared.CodeAlreadyClosed, fmt.Sprintf("Cash session %s is already closed", s.ID))
	}
	if closingBalance.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Closing balance cannot be negative")
	}
	closedBy = strings.TrimSpace(closedBy)
	if closedBy == "" {
		return shared.NewValidationError("Closing user is required")
	}
	for i := range movements {
		if movements[i].SessionID != s.ID {
			return shared.NewValidationError("Movement does not belong to this session")
		}
	}

	expected := ReplayBalance(s.OpeningBalance, movements)
	difference := closingBalance.Sub(expected)
	now := time.Now().UTC()

	s.Status = SessionStatusClosed
	s.ClosedBy = closedBy
	s.ClosingBalance = &closingBalance
	s.ExpectedBalance = &expected
	s.Difference = &difference
	s.Notes = strings.TrimSpace(notes)
	s.ClosedAt = &now
	s.MarkChanged()

	s.AddDomainEvent(NewCashSessionClosedEvent(s))

	return nil
}

// HasShortage returns true if the counted cash was below the expected balance
func (s *Session) HasShortage() bool {
	return s.Difference != nil && s.Difference.IsNegative()
}

// HasSurplus returns true if the counted cash exceeded the expected balance
func (s *Session) HasSurplus() bool {
	return s.Difference != nil && s.Difference.IsPositive()
}
