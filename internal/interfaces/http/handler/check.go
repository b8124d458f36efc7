package handler

import (
	"github.com/gin-gonic/gin"

	walletapp "github.com/ferreteria/backoffice/internal/application/wallet"
)

// CheckHandler serves the check wallet
type CheckHandler struct {
	BaseHandler
	service *walletapp.CheckService
}

// NewCheckHandler creates a new CheckHandler
func NewCheckHandler(service *walletapp.CheckService) *CheckHandler {
	return &CheckHandler{service: service}
}

// CreateCheck handles POST /checks
func (h *CheckHandler) CreateCheck(c *gin.Context) {
	var req walletapp.CreateCheckRequest
	if !h.bindJSON(c, &req) {
		return
	}

	check, err := h.service.CreateCheck(c.Request.Context(), req, getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, check)
}

// ListChecks handles GET /checks?status=&page=&page_size=
func (h *CheckHandler) ListChecks(c *gin.Context) {
	var filter walletapp.CheckListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	checks, err := h.service.ListChecks(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, checks, len(checks), filter.Page, filter.PageSize)
}

// GetCheck handles GET /checks/:id
func (h *CheckHandler) GetCheck(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	check, err := h.service.GetCheck(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, check)
}

// DepositCheck handles POST /checks/:id/deposit
func (h *CheckHandler) DepositCheck(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req walletapp.DepositCheckRequest
	if !h.bindJSON(c, &req) {
		return
	}

	check, err := h.service.DepositCheck(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, check)
}

// EndorseCheck handles POST /checks/:id/endorse
func (h *CheckHandler) EndorseCheck(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req walletapp.EndorseCheckRequest
	if !h.bindJSON(c, &req) {
		return
	}

	check, err := h.service.EndorseCheck(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, check)
}

// RejectCheck handles POST /checks/:id/reject
func (h *CheckHandler) RejectCheck(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req walletapp.RejectCheckRequest
	if !h.bindJSON(c, &req) {
		return
	}

	check, err := h.service.RejectCheck(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, check)
}

// GetAlerts handles GET /checks/alerts: every pending check with its
// due-date classification, evaluated against today on each call.
func (h *CheckHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.service.GetChecksWithAlerts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}
