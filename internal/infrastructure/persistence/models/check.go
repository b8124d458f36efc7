package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ferreteria/backoffice/internal/domain/wallet"
)

// CheckModel is the persistence model for the Check aggregate root.
type CheckModel struct {
	AggregateModel
	CheckType        wallet.CheckType   `gorm:"type:varchar(10);not null"`
	CheckNumber      string             `gorm:"type:varchar(50);not null"`
	BankName         string             `gorm:"type:varchar(100);not null"`
	Amount           decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	IssueDate        time.Time          `gorm:"type:date;not null"`
	DueDate          time.Time          `gorm:"type:date;not null;index"`
	IssuerName       string             `gorm:"type:varchar(200);not null"`
	IssuerTaxID      string             `gorm:"column:issuer_tax_id;type:varchar(20)"`
	Notes            string             `gorm:"type:text"`
	Status           wallet.CheckStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	DepositAccountID *string            `gorm:"type:varchar(100)"`
	DepositDate      *time.Time
	EndorsedTo       *string `gorm:"type:varchar(200)"`
	EndorsedDate     *time.Time
	RejectionReason  *string `gorm:"type:text"`
	RejectionDate    *time.Time
	ReceivedBy       string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CheckModel) TableName() string {
	return "checks"
}

// ToDomain converts the persistence model to a domain Check.
// Dates are normalised to UTC midnight so calendar arithmetic is driver independent.
func (m *CheckModel) ToDomain() *wallet.Check {
	return &wallet.Check{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CheckType:         m.CheckType,
		CheckNumber:       m.CheckNumber,
		BankName:          m.BankName,
		Amount:            m.Amount,
		IssueDate:         dateOnly(m.IssueDate),
		DueDate:           dateOnly(m.DueDate),
		IssuerName:        m.IssuerName,
		IssuerTaxID:       m.IssuerTaxID,
		Notes:             m.Notes,
		Status:            m.Status,
		DepositAccountID:  m.DepositAccountID,
		DepositDate:       m.DepositDate,
		EndorsedTo:        m.EndorsedTo,
		EndorsedDate:      m.EndorsedDate,
		RejectionReason:   m.RejectionReason,
		RejectionDate:     m.RejectionDate,
		ReceivedBy:        m.ReceivedBy,
	}
}

// FromDomain populates the persistence model from a domain Check.
func (m *CheckModel) FromDomain(c *wallet.Check) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CheckType = c.CheckType
	m.CheckNumber = c.CheckNumber
	m.BankName = c.BankName
	m.Amount = c.Amount
	m.IssueDate = dateOnly(c.IssueDate)
	m.DueDate = dateOnly(c.DueDate)
	m.IssuerName = c.IssuerName
	m.IssuerTaxID = c.IssuerTaxID
	m.Notes = c.Notes
	m.Status = c.Status
	m.DepositAccountID = c.DepositAccountID
	m.DepositDate = c.DepositDate
	m.EndorsedTo = c.EndorsedTo
	m.EndorsedDate = c.EndorsedDate
	m.RejectionReason = c.RejectionReason
	m.RejectionDate = c.RejectionDate
	m.ReceivedBy = c.ReceivedBy
}

// CheckModelFromDomain creates a new persistence model from a domain Check.
func CheckModelFromDomain(c *wallet.Check) *CheckModel {
	m := &CheckModel{}
	m.FromDomain(c)
	return m
}

func dateOnly(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
