package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stocksync/backend/internal/interfaces/http/dto"
	"github.com/stocksync/backend/internal/interfaces/http/router"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and version endpoints.
type SystemHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(group *router.DomainGroup) {
	group.GET("/health", h.Health)
	group.GET("/info", h.Info)
}

// HealthResponse reports readiness of the service and its database.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *SystemHandler) Health(c *gin.Context) {
	health := HealthResponse{Status: "ok", Database: "ok"}
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			health.Status = "degraded"
			health.Database = err.Error()
			h.Error(c, dto.ErrCodeUnavailable, "database unreachable")
			return
		}
	}
	h.Success(c, health)
}

// InfoResponse reports build and uptime information.
type InfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, InfoResponse{
		Name:      "StockSync Backend",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
