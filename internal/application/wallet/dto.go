package wallet

import (
	"time"

	"github.com/google/uuid"

	"github.com/ferreteria/backoffice/internal/domain/shared/valueobject"
	"github.com/ferreteria/backoffice/internal/domain/wallet"
)

// DateLayout is the wire format of check dates
const DateLayout = "2006-01-02"

// CreateCheckRequest represents a received third-party check
type CreateCheckRequest struct {
	CheckType   string `json:"checkType" binding:"required,oneof=physical echeq"`
	CheckNumber string `json:"checkNumber" binding:"required,notblank,max=50"`
	BankName    string `json:"bankName" binding:"required,notblank,max=100"`
	Amount      string `json:"amount" binding:"required,max=32"`
	IssueDate   string `json:"issueDate" binding:"required,isodate"`
	DueDate     string `json:"dueDate" binding:"required,isodate"`
	IssuerName  string `json:"issuerName" binding:"required,notblank,max=200"`
	IssuerTaxID string `json:"issuerTaxId" binding:"max=20"`
	Notes       string `json:"notes" binding:"max=1000"`
}

// DepositCheckRequest represents a deposit of a check into a bank account
type DepositCheckRequest struct {
	DepositAccountID string `json:"depositAccountId" binding:"required,max=64"`
}

// EndorseCheckRequest represents handing a check over to a third party
type EndorseCheckRequest struct {
	EndorsedTo string `json:"endorsedTo" binding:"required,notblank,max=200"`
}

// RejectCheckRequest represents a bounced check
type RejectCheckRequest struct {
	Reason string `json:"reason" binding:"required,notblank,max=500"`
}

// CheckListFilter narrows the check listing
type CheckListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending deposited endorsed rejected"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// CheckResponse represents a check in API responses
type CheckResponse struct {
	ID               uuid.UUID  `json:"id"`
	CheckType        string     `json:"checkType"`
	CheckNumber      string     `json:"checkNumber"`
	BankName         string     `json:"bankName"`
	Amount           string     `json:"amount"`
	IssueDate        string     `json:"issueDate"`
	DueDate          string     `json:"dueDate"`
	IssuerName       string     `json:"issuerName"`
	IssuerTaxID      string     `json:"issuerTaxId"`
	Notes            string     `json:"notes"`
	Status           string     `json:"status"`
	DepositAccountID *string    `json:"depositAccountId"`
	DepositDate      *time.Time `json:"depositDate"`
	EndorsedTo       *string    `json:"endorsedTo"`
	EndorsedDate     *time.Time `json:"endorsedDate"`
	RejectionReason  *string    `json:"rejectionReason"`
	RejectionDate    *time.Time `json:"rejectionDate"`
	ReceivedBy       string     `json:"receivedBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CheckAlertResponse is a pending check with its due-date classification
type CheckAlertResponse struct {
	CheckResponse
	DaysUntilDue int    `json:"daysUntilDue"`
	IsOverdue    bool   `json:"isOverdue"`
	AlertLevel   string `json:"alertLevel"`
}

// ToCheckResponse converts a domain check to a response DTO
func ToCheckResponse(c *wallet.Check) CheckResponse {
	return CheckResponse{
		ID:               c.ID,
		CheckType:        c.CheckType.String(),
		CheckNumber:      c.CheckNumber,
		BankName:         c.BankName,
		Amount:           valueobject.FormatAmount(c.Amount),
		IssueDate:        c.IssueDate.Format(DateLayout),
		DueDate:          c.DueDate.Format(DateLayout),
		IssuerName:       c.IssuerName,
		IssuerTaxID:      c.IssuerTaxID,
		Notes:            c.Notes,
		Status:           c.Status.String(),
		DepositAccountID: c.DepositAccountID,
		DepositDate:      c.DepositDate,
		EndorsedTo:       c.EndorsedTo,
		EndorsedDate:     c.EndorsedDate,
		RejectionReason:  c.RejectionReason,
		RejectionDate:    c.RejectionDate,
		ReceivedBy:       c.ReceivedBy,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ToCheckAlertResponse converts a computed alert to a response DTO
func ToCheckAlertResponse(a *wallet.CheckAlert) CheckAlertResponse {
	return CheckAlertResponse{
		CheckResponse: ToCheckResponse(&a.Check),
		DaysUntilDue:  a.DaysUntilDue,
		IsOverdue:     a.IsOverdue,
		AlertLevel:    a.AlertLevel.String(),
	}
}
