package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ferreteria/backoffice/internal/infrastructure/logger"
	"github.com/ferreteria/backoffice/internal/infrastructure/persistence"
	"github.com/ferreteria/backoffice/internal/interfaces/http/dto"
)

// DatabaseProbe is the part of the database the health check needs
type DatabaseProbe interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler serves the health endpoint
type SystemHandler struct {
	BaseHandler
	db        DatabaseProbe
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db DatabaseProbe, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse reports liveness of the service and its database
type HealthResponse struct {
	Status    string                       `json:"status"`
	Version   string                       `json:"version"`
	GoVersion string                       `json:"goVersion"`
	Uptime    string                       `json:"uptime"`
	Database  string                       `json:"database"`
	Pool      *persistence.ConnectionStats `json:"pool,omitempty"`
	Time      string                       `json:"time"`
}

// Health handles GET /health. The database is pinged with a two second budget;
// a failed ping answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "ok",
		Time:      time.Now().UTC().Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}

	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}
	h.Success(c, resp)
}
