package wallet

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// Aggregate type constant for Check
const AggregateTypeCheck = "Check"

// Event type constants for Check
const (
	EventTypeCheckReceived  = "CheckReceived"
	EventTypeCheckDeposited = "CheckDeposited"
	EventTypeCheckEndorsed  = "CheckEndorsed"
	EventTypeCheckRejected  = "CheckRejected"
)

// CheckReceivedEvent is published when a check enters the wallet
type CheckReceivedEvent struct {
	shared.BaseDomainEvent
	CheckID     uuid.UUID       `json:"check_id"`
	CheckNumber string          `json:"check_number"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewCheckReceivedEvent creates a new CheckReceivedEvent
func NewCheckReceivedEvent(check *Check) *CheckReceivedEvent {
	return &CheckReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCheckReceived, AggregateTypeCheck, check.ID),
		CheckID:         check.ID,
		CheckNumber:     check.CheckNumber,
		Amount:          check.Amount,
	}
}

// CheckStatusChangedEvent is published when a check leaves the pending state
type CheckStatusChangedEvent struct {
	shared.BaseDomainEvent
	CheckID uuid.UUID   `json:"check_id"`
	Status  CheckStatus `json:"status"`
}

// NewCheckStatusChangedEvent creates an event of the given type for check's current status
func NewCheckStatusChangedEvent(eventType string, check *Check) *CheckStatusChangedEvent {
	return &CheckStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCheck, check.ID),
		CheckID:         check.ID,
		Status:          check.Status,
	}
}
