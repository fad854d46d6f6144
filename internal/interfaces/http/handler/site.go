package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stocksync/backend/internal/application/stocksync"
	"github.com/stocksync/backend/internal/interfaces/http/dto"
	"github.com/stocksync/backend/internal/interfaces/http/router"
)

// SiteHandler exposes storefront registration and filter management.
type SiteHandler struct {
	BaseHandler
	service *stocksync.SiteService
}

func NewSiteHandler(service *stocksync.SiteService) *SiteHandler {
	return &SiteHandler{service: service}
}

// RegisterRoutes registers the site routes
func (h *SiteHandler) RegisterRoutes(group *router.DomainGroup) {
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)

	group.GET("/:id/filter", h.GetFilter)
	group.PUT("/:id/filter", h.UpsertFilter)
	group.DELETE("/:id/filter", h.DeleteFilter)
}

func (h *SiteHandler) siteID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid site id")
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

func (h *SiteHandler) Create(c *gin.Context) {
	var req stocksync.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	site, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, site)
}

func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.service.List(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, sites)
}

func (h *SiteHandler) Get(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	site, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, site)
}

func (h *SiteHandler) Update(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	var req stocksync.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	site, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, site)
}

func (h *SiteHandler) Delete(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *SiteHandler) GetFilter(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	filter, err := h.service.GetFilter(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, filter)
}

func (h *SiteHandler) UpsertFilter(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	var req stocksync.UpsertFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := h.service.UpsertFilter(c.Request.Context(), id, req)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, filter)
}

func (h *SiteHandler) DeleteFilter(c *gin.Context) {
	id, ok := h.siteID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteFilter(c.Request.Context(), id); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}
