package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appcash "github.com/ferreteria/backoffice/internal/application/cashregister"
	walletapp "github.com/ferreteria/backoffice/internal/application/wallet"
	"github.com/ferreteria/backoffice/internal/infrastructure/persistence"
	"github.com/ferreteria/backoffice/internal/interfaces/http/middleware"
	"github.com/ferreteria/backoffice/internal/testutil"
)

var testToday = time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)

// newTestServer wires the real services over sqlite behind the same routes
// the server exposes.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	cashService := appcash.NewCashRegisterService(
		persistence.NewGormCashRegisterRepository(db),
		persistence.NewGormSessionRepository(db),
		persistence.NewGormMovementRepository(db),
		persistence.NewGormTransactionScope(db),
		nil,
	)
	checkService := walletapp.NewCheckService(persistence.NewGormCheckRepository(db), nil)
	checkService.SetClock(func() time.Time { return testToday })

	cash := NewCashRegisterHandler(cashService)
	checks := NewCheckHandler(checkService)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Actor())
	api := router.Group("/api/v1")

	api.POST("/cash-registers", cash.CreateRegister)
	api.GET("/cash-registers", cash.ListRegisters)
	api.GET("/cash-registers/:id", cash.GetRegister)
	api.POST("/cash-registers/:id/deactivate", cash.DeactivateRegister)
	api.POST("/cash-registers/:id/activate", cash.ActivateRegister)
	api.GET("/cash-registers/:id/current-session", cash.GetCurrentSession)
	api.GET("/cash-registers/:id/sessions", cash.ListSessions)
	api.GET("/cash-registers/:id/summary", cash.GetSummary)
	api.POST("/cash-sessions/open", cash.OpenSession)
	api.POST("/cash-sessions/:id/close", cash.CloseSession)
	api.GET("/cash-sessions/:id", cash.GetSession)
	api.GET("/cash-sessions/:id/movements", cash.ListMovements)
	api.POST("/cash-movements", cash.CreateMovement)

	api.POST("/checks", checks.CreateCheck)
	api.GET("/checks", checks.ListChecks)
	api.GET("/checks/alerts", checks.GetAlerts)
	api.GET("/checks/:id", checks.GetCheck)
	api.POST("/checks/:id/deposit", checks.DepositCheck)
	api.POST("/checks/:id/endorse", checks.EndorseCheck)
	api.POST("/checks/:id/reject", checks.RejectCheck)

	return router
}

func performRequest(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	return testutil.PerformRequest(router, method, path, body, headers)
}

// dataOf decodes the response envelope and returns its data object
func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	envelope := testutil.JSONResponseAs[struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}](t, w)
	require.True(t, envelope.Success, w.Body.String())
	return envelope.Data
}

// listOf decodes a response whose data is an array
func listOf(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	envelope := testutil.JSONResponseAs[struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}](t, w)
	require.True(t, envelope.Success, w.Body.String())
	return envelope.Data
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
