package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcash "github.com/ferreteria/backoffice/internal/application/cashregister"
)

// CashRegisterHandler serves registers, sessions and movements
type CashRegisterHandler struct {
	BaseHandler
	service *appcash.CashRegisterService
}

// NewCashRegisterHandler creates a new CashRegisterHandler
func NewCashRegisterHandler(service *appcash.CashRegisterService) *CashRegisterHandler {
	return &CashRegisterHandler{service: service}
}

// ListRegistersQuery holds the query parameters of GET /cash-registers
type ListRegistersQuery struct {
	IsActive *bool `form:"is_active"`
	Page     int   `form:"page" binding:"omitempty,min=1"`
	PageSize int   `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// ListSessionsQuery holds the query parameters of GET /cash-registers/:id/sessions
type ListSessionsQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=500"`
}

func pageDefaults(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	return page, pageSize
}

// CreateRegister handles POST /cash-registers
func (h *CashRegisterHandler) CreateRegister(c *gin.Context) {
	var req appcash.CreateRegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	register, err := h.service.CreateRegister(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, register)
}

// ListRegisters handles GET /cash-registers?is_active=&page=&page_size=
func (h *CashRegisterHandler) ListRegisters(c *gin.Context) {
	var query ListRegistersQuery
	if !h.bindQuery(c, &query) {
		return
	}
	page, pageSize := pageDefaults(query.Page, query.PageSize)

	registers, err := h.service.ListRegisters(c.Request.Context(), appcash.RegisterListFilter{
		IsActive: query.IsActive,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, registers, len(registers), page, pageSize)
}

// GetRegister handles GET /cash-registers/:id
func (h *CashRegisterHandler) GetRegister(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	register, err := h.service.GetRegister(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// DeactivateRegister handles POST /cash-registers/:id/deactivate
func (h *CashRegisterHandler) DeactivateRegister(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	register, err := h.service.DeactivateRegister(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// ActivateRegister handles POST /cash-registers/:id/activate
func (h *CashRegisterHandler) ActivateRegister(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	register, err := h.service.ActivateRegister(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// GetCurrentSession handles GET /cash-registers/:id/current-session.
// A register without an open session answers 200 with null data.
func (h *CashRegisterHandler) GetCurrentSession(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.service.GetCurrentSession(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// ListSessions handles GET /cash-registers/:id/sessions
func (h *CashRegisterHandler) ListSessions(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var query ListSessionsQuery
	if !h.bindQuery(c, &query) {
		return
	}
	page, pageSize := pageDefaults(query.Page, query.PageSize)

	sessions, err := h.service.ListSessions(c.Request.Context(), id, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, sessions, len(sessions), page, pageSize)
}

// GetSummary handles GET /cash-registers/:id/summary
func (h *CashRegisterHandler) GetSummary(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.service.GetCashRegisterSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// OpenSession handles POST /cash-sessions/open
func (h *CashRegisterHandler) OpenSession(c *gin.Context) {
	var req appcash.OpenSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.service.OpenSession(c.Request.Context(), req, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// CloseSession handles POST /cash-sessions/:id/close
func (h *CashRegisterHandler) CloseSession(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req appcash.CloseSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.service.CloseSession(c.Request.Context(), id, req, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// GetSession handles GET /cash-sessions/:id, returning the session with its ledger
func (h *CashRegisterHandler) GetSession(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetSessionWithMovements(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// ListMovements handles GET /cash-sessions/:id/movements
func (h *CashRegisterHandler) ListMovements(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	movements, err := h.service.ListMovements(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(len(movements)))
	h.Success(c, movements)
}

// CreateMovement handles POST /cash-movements
func (h *CashRegisterHandler) CreateMovement(c *gin.Context) {
	var req appcash.CreateMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	movement, err := h.service.CreateMovement(c.Request.Context(), req, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}
