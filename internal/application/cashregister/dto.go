package cashregister

import (
	"time"

	"github.com/google/uuid"

	"github.com/ferreteria/backoffice/internal/domain/cashregister"
	"github.com/ferreteria/backoffice/internal/domain/shared/valueobject"
)

// =============================================================================
// Cash register DTOs
// =============================================================================

// CreateRegisterRequest represents a request to create a cash register
type CreateRegisterRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// RegisterListFilter narrows the register listing
type RegisterListFilter struct {
	IsActive *bool
	Page     int
	PageSize int
}

// RegisterResponse represents a cash register in API responses
type RegisterResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	IsActive       bool       `json:"isActive"`
	CurrentBalance string     `json:"currentBalance"`
	LastClosedAt   *time.Time `json:"lastClosedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ToRegisterResponse converts a domain register to a response DTO
func ToRegisterResponse(r *cashregister.CashRegister) RegisterResponse {
	return RegisterResponse{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		IsActive:       r.IsActive,
		CurrentBalance: valueobject.FormatAmount(r.CurrentBalance),
		LastClosedAt:   r.LastClosedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// RegisterSummaryResponse is the live projection of the open session's movements
type RegisterSummaryResponse struct {
	RegisterID     uuid.UUID  `json:"registerId"`
	SessionID      *uuid.UUID `json:"sessionId"`
	TotalIncome    string     `json:"totalIncome"`
	TotalExpense   string     `json:"totalExpense"`
	Net            string     `json:"net"`
	CurrentBalance string     `json:"currentBalance"`
	MovementCount  int        `json:"movementCount"`
}

// =============================================================================
// Session DTOs
// =============================================================================

// OpenSessionRequest represents a request to open a session on a register
type OpenSessionRequest struct {
	RegisterID     uuid.UUID `json:"registerId" binding:"required"`
	OpeningBalance string    `json:"openingBalance" binding:"required,max=32"`
}

// CloseSessionRequest represents the physical cash count at close
type CloseSessionRequest struct {
	ClosingBalance string  `json:"closingBalance" binding:"required,max=32"`
	Notes          *string `json:"notes" binding:"omitempty,max=1000"`
}

// SessionResponse represents a session in API responses
type SessionResponse struct {
	ID              uuid.UUID  `json:"id"`
	RegisterID      uuid.UUID  `json:"registerId"`
	Status          string     `json:"status"`
	OpenedBy        string     `json:"openedBy"`
	OpeningBalance  string     `json:"openingBalance"`
	ClosedBy        *string    `json:"closedBy"`
	ClosingBalance  *string    `json:"closingBalance"`
	ExpectedBalance *string    `json:"expectedBalance"`
	Difference      *string    `json:"difference"`
	Notes           string     `json:"notes"`
	OpenedAt        time.Time  `json:"openedAt"`
	ClosedAt        *time.Time `json:"closedAt"`
}

// SessionDetailResponse is a session together with its full ledger
type SessionDetailResponse struct {
	SessionResponse
	Movements    []MovementResponse `json:"movements"`
	TotalIncome  string             `json:"totalIncome"`
	TotalExpense string             `json:"totalExpense"`
	Net          string             `json:"net"`
}

// ToSessionResponse converts a domain session to a response DTO
func ToSessionResponse(s *cashregister.Session) SessionResponse {
	resp := SessionResponse{
		ID:             s.ID,
		RegisterID:     s.RegisterID,
		Status:         s.Status.String(),
		OpenedBy:       s.OpenedBy,
		OpeningBalance: valueobject.FormatAmount(s.OpeningBalance),
		Notes:          s.Notes,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
	}
	if s.ClosedBy != "" {
		closedBy := s.ClosedBy
		resp.ClosedBy = &closedBy
	}
	if s.ClosingBalance != nil {
		v := valueobject.FormatAmount(*s.ClosingBalance)
		resp.ClosingBalance = &v
	}
	if s.ExpectedBalance != nil {
		v := valueobject.FormatAmount(*s.ExpectedBalance)
		resp.ExpectedBalance = &v
	}
	if s.Difference != nil {
		v := valueobject.FormatAmount(*s.Difference)
		resp.Difference = &v
	}
	return resp
}

// ToSessionResponses converts a slice of sessions
func ToSessionResponses(sessions []cashregister.Session) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToSessionResponse(&sessions[i])
	}
	return responses
}

// =============================================================================
// Movement DTOs
// =============================================================================

// CreateMovementRequest represents a request to record a cash movement
type CreateMovementRequest struct {
	SessionID       uuid.UUID `json:"sessionId" binding:"required"`
	RegisterID      uuid.UUID `json:"registerId" binding:"required"`
	Type            string    `json:"type" binding:"required,oneof=income expense sale transfer_in transfer_out"`
	Amount          string    `json:"amount" binding:"required,max=32"`
	Category        string    `json:"category" binding:"max=100"`
	PaymentMethodID *string   `json:"paymentMethodId" binding:"omitempty,max=64"`
	SaleID          *string   `json:"saleId" binding:"omitempty,max=64"`
	Description     string    `json:"description" binding:"max=500"`
	Reference       string    `json:"reference" binding:"max=100"`
}

// MovementResponse represents a ledger entry in API responses
type MovementResponse struct {
	ID              uuid.UUID `json:"id"`
	SessionID       uuid.UUID `json:"sessionId"`
	RegisterID      uuid.UUID `json:"registerId"`
	Sequence        int64     `json:"sequence"`
	Type            string    `json:"type"`
	Amount          string    `json:"amount"`
	Category        string    `json:"category"`
	PaymentMethodID *string   `json:"paymentMethodId"`
	SaleID          *string   `json:"saleId"`
	Description     string    `json:"description"`
	Reference       string    `json:"reference"`
	RunningBalance  string    `json:"runningBalance"`
	UserID          string    `json:"userId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(m *cashregister.Movement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		SessionID:       m.SessionID,
		RegisterID:      m.RegisterID,
		Sequence:        m.Sequence,
		Type:            m.Type.String(),
		Amount:          valueobject.FormatAmount(m.Amount),
		Category:        m.Category,
		PaymentMethodID: m.PaymentMethodID,
		SaleID:          m.SaleID,
		Description:     m.Description,
		Reference:       m.Reference,
		RunningBalance:  valueobject.FormatAmount(m.RunningBalance),
		UserID:          m.UserID,
		CreatedAt:       m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []cashregister.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}
