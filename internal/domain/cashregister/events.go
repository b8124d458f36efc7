package cashregister

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCashRegister = "CashRegister"
	AggregateTypeCashSession  = "CashRegisterSession"
	AggregateTypeCashMovement = "CashMovement"
)

// Event type constants
const (
	EventTypeCashRegisterCreated       = "CashRegisterCreated"
	EventTypeCashRegisterStatusChanged = "CashRegisterStatusChanged"
	EventTypeCashSessionOpened         = "CashSessionOpened"
	EventTypeCashSessionClosed         = "CashSessionClosed"
	EventTypeCashMovementRecorded      = "CashMovementRecorded"
)

// CashRegisterCreatedEvent is published when a register is created
type CashRegisterCreatedEvent struct {
	shared.BaseDomainEvent
	RegisterID uuid.UUID `json:"register_id"`
	Name       string    `json:"name"`
}

// NewCashRegisterCreatedEvent creates a new CashRegisterCreatedEvent
func NewCashRegisterCreatedEvent(register *CashRegister) *CashRegisterCreatedEvent {
	return &CashRegisterCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashRegisterCreated, AggregateTypeCashRegister, register.ID),
		RegisterID:      register.ID,
		Name:            register.Name,
	}
}

// CashRegisterStatusChangedEvent is published when a register is activated or deactivated
type CashRegisterStatusChangedEvent struct {
	shared.BaseDomainEvent
	RegisterID uuid.UUID `json:"register_id"`
	IsActive   bool      `json:"is_active"`
}

// NewCashRegisterStatusChangedEvent creates a new CashRegisterStatusChangedEvent
func NewCashRegisterStatusChangedEvent(register *CashRegister) *CashRegisterStatusChangedEvent {
	return &CashRegisterStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashRegisterStatusChanged, AggregateTypeCashRegister, register.ID),
		RegisterID:      register.ID,
		IsActive:        register.IsActive,
	}
}

// CashSessionOpenedEvent is published when a session is opened
type CashSessionOpenedEvent struct {
	shared.BaseDomainEvent
	SessionID      uuid.UUID       `json:"session_id"`
	RegisterID     uuid.UUID       `json:"register_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpenedBy       string          `json:"opened_by"`
}

// NewCashSessionOpenedEvent creates a new CashSessionOpenedEvent
func NewCashSessionOpenedEvent(session *Session) *CashSessionOpenedEvent {
	return &CashSessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashSessionOpened, AggregateTypeCashSession, session.ID),
		SessionID:       session.ID,
		RegisterID:      session.RegisterID,
		OpeningBalance:  session.OpeningBalance,
		OpenedBy:        session.OpenedBy,
	}
}

// CashSessionClosedEvent is published when a session is reconciled and closed
type CashSessionClosedEvent struct {
	shared.BaseDomainEvent
	SessionID       uuid.UUID       `json:"session_id"`
	RegisterID      uuid.UUID       `json:"register_id"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	Difference      decimal.Decimal `json:"difference"`
	ClosedBy        string          `json:"closed_by"`
	ClosedAt        time.Time       `json:"closed_at"`
}

// NewCashSessionClosedEvent creates a new CashSessionClosedEvent
func NewCashSessionClosedEvent(session *Session) *CashSessionClosedEvent {
	event := &CashSessionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashSessionClosed, AggregateTypeCashSession, session.ID),
		SessionID:       session.ID,
		RegisterID:      session.RegisterID,
		ClosedBy:        session.ClosedBy,
	}
	if session.ClosingBalance != nil {
		event.ClosingBalance = *session.ClosingBalance
	}
	if session.ExpectedBalance != nil {
		event.ExpectedBalance = *session.ExpectedBalance
	}
	if session.Difference != nil {
		event.Difference = *session.Difference
	}
	if session.ClosedAt != nil {
		event.ClosedAt = *session.ClosedAt
	}
	return event
}

// CashMovementRecordedEvent is published when a movement is appended to a session
type CashMovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID     uuid.UUID       `json:"movement_id"`
	SessionID      uuid.UUID       `json:"session_id"`
	RegisterID     uuid.UUID       `json:"register_id"`
	Sequence       int64           `json:"sequence"`
	MovementType   MovementType    `json:"movement_type"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// NewCashMovementRecordedEvent creates a new CashMovementRecordedEvent
func NewCashMovementRecordedEvent(movement *Movement) *CashMovementRecordedEvent {
	return &CashMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashMovementRecorded, AggregateTypeCashMovement, movement.ID),
		MovementID:      movement.ID,
		SessionID:       movement.SessionID,
		RegisterID:      movement.RegisterID,
		Sequence:        movement.Sequence,
		MovementType:    movement.Type,
		Amount:          movement.Amount,
		RunningBalance:  movement.RunningBalance,
	}
}
