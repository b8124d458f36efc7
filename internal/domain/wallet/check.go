package wallet

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// CheckType distinguishes paper checks from electronic ones
type CheckType string

const (
	CheckTypePhysical CheckType = "physical"
	CheckTypeECheq    CheckType = "echeq"
)

// String returns the string representation of CheckType
func (t CheckType) String() string {
	return string(t)
}

// IsValid returns true if the check type is valid
func (t CheckType) IsValid() bool {
	switch t {
	case CheckTypePhysical, CheckTypeECheq:
		return true
	}
	return false
}

// CheckStatus represents where a held check currently is
type CheckStatus string

const (
	CheckStatusPending   CheckStatus = "pending"
	CheckStatusDeposited CheckStatus = "deposited"
	CheckStatusEndorsed  CheckStatus = "endorsed"
	CheckStatusRejected  CheckStatus = "rejected"
)

// String returns the string representation of CheckStatus
func (s CheckStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s CheckStatus) IsValid() bool {
	switch s {
	case CheckStatusPending, CheckStatusDeposited, CheckStatusEndorsed, CheckStatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true for statuses with no further transitions
func (s CheckStatus) IsTerminal() bool {
	return s != CheckStatusPending
}

// Check is a third-party check held in the wallet
type Check struct {
	shared.BaseAggregateRoot
	CheckType        CheckType
	CheckNumber      string
	BankName         string
	Amount           decimal.Decimal
	IssueDate        time.Time
	DueDate          time.Time
	IssuerName       string
	IssuerTaxID      string
	Notes            string
	Status           CheckStatus
	DepositAccountID *string
	DepositDate      *time.Time
	EndorsedTo       *string
	EndorsedDate     *time.Time
	RejectionReason  *string
	RejectionDate    *time.Time
	ReceivedBy       string
}

// NewCheckInput holds the fields of a received check
type NewCheckInput struct {
	CheckType   CheckType
	CheckNumber string
	BankName    string
	Amount      decimal.Decimal
	IssueDate   time.Time
	DueDate     time.Time
	IssuerName  string
	IssuerTaxID string
	Notes       string
	ReceivedBy  string
}

// NewCheck registers a received check as pending.
// Duplicate check numbers are accepted.
func NewCheck(input NewCheckInput) (*Check, error) {
	if !input.CheckType.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid check type %q", input.CheckType))
	}
	number := strings.TrimSpace(input.CheckNumber)
	if number == "" {
		return nil, shared.NewValidationError("Check number cannot be empty")
	}
	bank := strings.TrimSpace(input.BankName)
	if bank == "" {
		return nil, shared.NewValidationError("Bank name cannot be empty")
	}
	issuer := strings.TrimSpace(input.IssuerName)
	if issuer == "" {
		return nil, shared.NewValidationError("Issuer name cannot be empty")
	}
	if !input.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Check amount must be positive")
	}
	if input.IssueDate.IsZero() || input.DueDate.IsZero() {
		return nil, shared.NewValidationError("Issue date and due date are required")
	}
	if calendarDate(input.DueDate).Before(calendarDate(input.IssueDate)) {
		return nil, shared.NewValidationError("Due date cannot be before issue date")
	}

	check := &Check{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CheckType:         input.CheckType,
		CheckNumber:       number,
		BankName:          bank,
		Amount:            input.Amount,
		IssueDate:         input.IssueDate,
		DueDate:           input.DueDate,
		IssuerName:        issuer,
		IssuerTaxID:       strings.TrimSpace(input.IssuerTaxID),
		Notes:             strings.TrimSpace(input.Notes),
		Status:            CheckStatusPending,
		ReceivedBy:        strings.TrimSpace(input.ReceivedBy),
	}

	check.AddDomainEvent(NewCheckReceivedEvent(check))

	return check, nil
}

func (c *Check) ensurePending(action string) error {
	if c.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot %s a check with status %s", action, c.Status))
	}
	return nil
}

// Deposit marks the check as deposited into accountID
func (c *Check) Deposit(accountID string, at time.Time) error {
	if err := c.ensurePending("deposit"); err != nil {
		return err
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return shared.NewValidationError("Deposit account is required")
	}

	c.Status = CheckStatusDeposited
	c.DepositAccountID = &accountID
	c.DepositDate = &at
	c.touch()

	c.AddDomainEvent(NewCheckStatusChangedEvent(EventTypeCheckDeposited, c))

	return nil
}

// Endorse marks the check as handed over to a third party
func (c *Check) Endorse(endorsedTo string, at time.Time) error {
	if err := c.ensurePending("endorse"); err != nil {
		return err
	}
	endorsedTo = strings.TrimSpace(endorsedTo)
	if endorsedTo == "" {
		return shared.NewValidationError("Endorsee is required")
	}

	c.Status = CheckStatusEndorsed
	c.EndorsedTo = &endorsedTo
	c.EndorsedDate = &at
	c.touch()

	c.AddDomainEvent(NewCheckStatusChangedEvent(EventTypeCheckEndorsed, c))

	return nil
}

// Reject marks the check as bounced or refused
func (c *Check) Reject(reason string, at time.Time) error {
	if err := c.ensurePending("reject"); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("Rejection reason is required")
	}

	c.Status = CheckStatusRejected
	c.RejectionReason = &reason
	c.RejectionDate = &at
	c.touch()

	c.AddDomainEvent(NewCheckStatusChangedEvent(EventTypeCheckRejected, c))

	return nil
}

func (c *Check) touch() {
	c.MarkChanged()
}
