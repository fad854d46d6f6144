package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stocksync/backend/internal/application/stocksync"
	"github.com/stocksync/backend/internal/interfaces/http/dto"
	"github.com/stocksync/backend/internal/interfaces/http/router"
)

// SyncHandler exposes manual pass triggering and the batch audit trail.
type SyncHandler struct {
	BaseHandler
	syncs   *stocksync.SyncService
	batches *stocksync.BatchService
}

func NewSyncHandler(syncs *stocksync.SyncService, batches *stocksync.BatchService) *SyncHandler {
	return &SyncHandler{syncs: syncs, batches: batches}
}

// RegisterRoutes registers the sync routes
func (h *SyncHandler) RegisterRoutes(group *router.DomainGroup) {
	group.POST("/trigger", h.Trigger)
	group.GET("/status", h.Status)
	group.GET("/batches", h.ListBatches)
	group.GET("/batches/:id", h.GetBatch)
	group.GET("/batches/:id/results", h.BatchResults)
}

// Trigger runs one reconciliation pass synchronously. A pass already in
// flight yields 409 rather than queueing a second one.
func (h *SyncHandler) Trigger(c *gin.Context) {
	result, err := h.syncs.RunPass(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	if result.Skipped {
		h.Error(c, dto.ErrCodeSyncRunning, result.Error)
		return
	}
	h.Success(c, result)
}

// SyncStatusResponse reports the guard state and trigger timestamps.
type SyncStatusResponse struct {
	Running       bool       `json:"running"`
	LastStartedAt *time.Time `json:"last_started_at,omitempty"`
	LastEndedAt   *time.Time `json:"last_ended_at,omitempty"`
	NextTriggerAt *time.Time `json:"next_trigger_at,omitempty"`
}

func (h *SyncHandler) Status(c *gin.Context) {
	guard := h.syncs.Guard()
	status := SyncStatusResponse{Running: guard.IsRunning()}
	if t := guard.LastStartedAt(); !t.IsZero() {
		status.LastStartedAt = &t
	}
	if t := guard.LastEndedAt(); !t.IsZero() {
		status.LastEndedAt = &t
	}
	if t := guard.NextTriggerAt(); !t.IsZero() {
		status.NextTriggerAt = &t
	}
	h.Success(c, status)
}

func (h *SyncHandler) ListBatches(c *gin.Context) {
	var req stocksync.BatchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	batches, total, err := h.batches.List(c.Request.Context(), req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, batches, dto.NewMeta(req.Page, req.PageSize, total))
}

func (h *SyncHandler) batchID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid batch id")
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

func (h *SyncHandler) GetBatch(c *gin.Context) {
	id, ok := h.batchID(c)
	if !ok {
		return
	}

	batch, err := h.batches.Get(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, batch)
}

func (h *SyncHandler) BatchResults(c *gin.Context) {
	id, ok := h.batchID(c)
	if !ok {
		return
	}

	results, err := h.batches.SiteResults(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, results)
}
