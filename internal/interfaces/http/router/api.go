package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ferreteria/backoffice/internal/interfaces/http/handler"
)

// API holds the handlers served by the backoffice
type API struct {
	CashRegister *handler.CashRegisterHandler
	Check        *handler.CheckHandler
	System       *handler.SystemHandler
}

// Mount registers the domain groups on r and the health check on the engine
// root (also reachable as /api/<version>/health).
func (a API) Mount(engine *gin.Engine, r *Router) {
	engine.GET("/health", a.System.Health)

	system := NewDomainGroup("system", "")
	system.GET("/health", a.System.Health)

	registers := NewDomainGroup("cash-registers", "/cash-registers")
	registers.POST("", a.CashRegister.CreateRegister).
		GET("", a.CashRegister.ListRegisters).
		GET("/:id", a.CashRegister.GetRegister).
		POST("/:id/deactivate", a.CashRegister.DeactivateRegister).
		POST("/:id/activate", a.CashRegister.ActivateRegister).
		GET("/:id/current-session", a.CashRegister.GetCurrentSession).
		GET("/:id/sessions", a.CashRegister.ListSessions).
		GET("/:id/summary", a.CashRegister.GetSummary)

	sessions := NewDomainGroup("cash-sessions", "/cash-sessions")
	sessions.POST("/open", a.CashRegister.OpenSession).
		POST("/:id/close", a.CashRegister.CloseSession).
		GET("/:id", a.CashRegister.GetSession).
		GET("/:id/movements", a.CashRegister.ListMovements)

	movements := NewDomainGroup("cash-movements", "/cash-movements")
	movements.POST("", a.CashRegister.CreateMovement)

	checks := NewDomainGroup("checks", "/checks")
	checks.POST("", a.Check.CreateCheck).
		GET("", a.Check.ListChecks).
		GET("/alerts", a.Check.GetAlerts).
		GET("/:id", a.Check.GetCheck).
		POST("/:id/deposit", a.Check.DepositCheck).
		POST("/:id/endorse", a.Check.EndorseCheck).
		POST("/:id/reject", a.Check.RejectCheck)

	r.Register(system).
		Register(registers).
		Register(sessions).
		Register(movements).
		Register(checks)
}
