package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferreteria/backoffice/internal/domain/cashregister"
)

// CashRegisterModel is the persistence model for the CashRegister aggregate root.
type CashRegisterModel struct {
	AggregateModel
	Name           string          `gorm:"type:varchar(100);not null"`
	Description    string          `gorm:"type:text"`
	IsActive       bool            `gorm:"not null;default:true;index"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastClosedAt   *time.Time
}

// TableName returns the table name for GORM
func (CashRegisterModel) TableName() string {
	return "cash_registers"
}

// ToDomain converts the persistence model to a domain CashRegister.
func (m *CashRegisterModel) ToDomain() *cashregister.CashRegister {
	return &cashregister.CashRegister{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		IsActive:          m.IsActive,
		CurrentBalance:    m.CurrentBalance,
		LastClosedAt:      m.LastClosedAt,
	}
}

// FromDomain populates the persistence model from a domain CashRegister.
func (m *CashRegisterModel) FromDomain(r *cashregister.CashRegister) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Name = r.Name
	m.Description = r.Description
	m.IsActive = r.IsActive
	m.CurrentBalance = r.CurrentBalance
	m.LastClosedAt = r.LastClosedAt
}

// CashRegisterModelFromDomain creates a new persistence model from a domain CashRegister.
func CashRegisterModelFromDomain(r *cashregister.CashRegister) *CashRegisterModel {
	m := &CashRegisterModel{}
	m.FromDomain(r)
	return m
}

// CashSessionModel is the persistence model for a register session.
// uq_cash_sessions_open_register allows at most one open session per register.
type CashSessionModel struct {
	AggregateModel
	RegisterID      uuid.UUID                  `gorm:"type:uuid;not null;index;uniqueIndex:uq_cash_sessions_open_register,where:status = 'open'"`
	OpenedBy        string                     `gorm:"type:varchar(100);not null"`
	OpeningBalance  decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	Status          cashregister.SessionStatus `gorm:"type:varchar(10);not null;default:'open';index"`
	ClosedBy        string                     `gorm:"type:varchar(100)"`
	ClosingBalance  *decimal.Decimal           `gorm:"type:decimal(18,4)"`
	ExpectedBalance *decimal.Decimal           `gorm:"type:decimal(18,4)"`
	Difference      *decimal.Decimal           `gorm:"type:decimal(18,4)"`
	Notes           string                     `gorm:"type:text"`
	OpenedAt        time.Time                  `gorm:"not null;index"`
	ClosedAt        *time.Time
}

// TableName returns the table name for GORM
func (CashSessionModel) TableName() string {
	return "cash_register_sessions"
}

// ToDomain converts the persistence model to a domain Session.
func (m *CashSessionModel) ToDomain() *cashregister.Session {
	return &cashregister.Session{
		BaseAggregateRoot: m.ToAggregateRoot(),
		RegisterID:        m.RegisterID,
		OpenedBy:          m.OpenedBy,
		OpeningBalance:    m.OpeningBalance,
		Status:            m.Status,
		ClosedBy:          m.ClosedBy,
		ClosingBalance:    m.ClosingBalance,
		ExpectedBalance:   m.ExpectedBalance,
		Difference:        m.Difference,
		Notes:             m.Notes,
		OpenedAt:          m.OpenedAt,
		ClosedAt:          m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain Session.
func (m *CashSessionModel) FromDomain(s *cashregister.Session) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.RegisterID = s.RegisterID
	m.OpenedBy = s.OpenedBy
	m.OpeningBalance = s.OpeningBalance
	m.Status = s.Status
	m.ClosedBy = s.ClosedBy
	m.ClosingBalance = s.ClosingBalance
	m.ExpectedBalance = s.ExpectedBalance
	m.Difference = s.Difference
	m.Notes = s.Notes
	m.OpenedAt = s.OpenedAt
	m.ClosedAt = s.ClosedAt
}

// CashSessionModelFromDomain creates a new persistence model from a domain Session.
func CashSessionModelFromDomain(s *cashregister.Session) *CashSessionModel {
	m := &CashSessionModel{}
	m.FromDomain(s)
	return m
}

// CashMovementModel is one immutable ledger row.
// uq_cash_movements_session_sequence keeps sequences unique within a session.
type CashMovementModel struct {
	BaseModel
	SessionID       uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:uq_cash_movements_session_sequence,priority:1"`
	RegisterID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Sequence        int64                     `gorm:"not null;uniqueIndex:uq_cash_movements_session_sequence,priority:2"`
	MovementType    cashregister.MovementType `gorm:"column:movement_type;type:varchar(20);not null;index"`
	Amount          decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Category        string                    `gorm:"type:varchar(100)"`
	PaymentMethodID *string                   `gorm:"type:varchar(100)"`
	SaleID          *string                   `gorm:"type:varchar(100);index"`
	Description     string                    `gorm:"type:varchar(500)"`
	Reference       string                    `gorm:"type:varchar(100)"`
	RunningBalance  decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	UserID          string                    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (CashMovementModel) TableName() string {
	return "cash_movements"
}

// ToDomain converts the persistence model to a domain Movement.
func (m *CashMovementModel) ToDomain() *cashregister.Movement {
	return &cashregister.Movement{
		BaseEntity:      m.BaseModel.ToDomain(),
		SessionID:       m.SessionID,
		RegisterID:      m.RegisterID,
		Sequence:        m.Sequence,
		Type:            m.MovementType,
		Amount:          m.Amount,
		Category:        m.Category,
		PaymentMethodID: m.PaymentMethodID,
		SaleID:          m.SaleID,
		Description:     m.Description,
		Reference:       m.Reference,
		RunningBalance:  m.RunningBalance,
		UserID:          m.UserID,
	}
}

// CashMovementModelFromDomain creates a new persistence model from a domain Movement.
func CashMovementModelFromDomain(mv *cashregister.Movement) *CashMovementModel {
	m := &CashMovementModel{
		SessionID:       mv.SessionID,
		RegisterID:      mv.RegisterID,
		Sequence:        mv.Sequence,
		MovementType:    mv.Type,
		Amount:          mv.Amount,
		Category:        mv.Category,
		PaymentMethodID: mv.PaymentMethodID,
		SaleID:          mv.SaleID,
		Description:     mv.Description,
		Reference:       mv.Reference,
		RunningBalance:  mv.RunningBalance,
		UserID:          mv.UserID,
	}
	m.FromDomainBaseEntity(mv.BaseEntity)
	return m
}

