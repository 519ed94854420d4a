package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/billing/internal/infrastructure/persistence"
	"github.com/erp/billing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DatabaseProbe is the part of the database the health check needs
type DatabaseProbe interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	BaseHandler
	db        DatabaseProbe
	version   string
	startTime time.Time
	timeout   time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseProbe, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		version:   version,
		startTime: time.Now(),
		timeout:   2 * time.Second,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version"`
	GoVersion string         `json:"go_version"`
	Uptime    string         `json:"uptime"`
	Database  DatabaseHealth `json:"database"`
}

// DatabaseHealth describes the database connection pool
type DatabaseHealth struct {
	Status string                       `json:"status"`
	Error  string                       `json:"error,omitempty"`
	Stats  *persistence.ConnectionStats `json:"stats,omitempty"`
}

// Health handles GET /health. An unreachable database gives 503.
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  DatabaseHealth{Status: "ok"},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = DatabaseHealth{Status: "unavailable", Error: err.Error()}
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}

	if stats, err := h.db.Stats(); err == nil {
		resp.Database.Stats = &stats
	}
	h.Success(c, resp)
}
