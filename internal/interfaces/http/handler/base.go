package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stocksync/backend/internal/domain/stocksync"
	"github.com/stocksync/backend/internal/interfaces/http/dto"
)

// BaseHandler provides response helpers shared by all handlers.
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id, ok := c.Get("request_id"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, meta))
}

func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error responds with the HTTP status mapped from the error code.
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	status := dto.GetHTTPStatus(code)
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeNotFound, message)
}

func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeConflict, message)
}

func (h *BaseHandler) Internal(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeInternal, message)
}

// DomainError translates a domain error into the matching envelope.
func (h *BaseHandler) DomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, stocksync.ErrSiteNotFound),
		errors.Is(err, stocksync.ErrFilterNotFound),
		errors.Is(err, stocksync.ErrBatchNotFound):
		h.Error(c, dto.ErrCodeNotFound, err.Error())
	case errors.Is(err, stocksync.ErrSiteInvalidName),
		errors.Is(err, stocksync.ErrSiteInvalidBaseURL),
		errors.Is(err, stocksync.ErrSiteMissingAPIKey):
		h.Error(c, dto.ErrCodeValidation, err.Error())
	case errors.Is(err, stocksync.ErrAlreadyRunning):
		h.Error(c, dto.ErrCodeSyncRunning, err.Error())
	case errors.Is(err, stocksync.ErrFetchAborted):
		h.Error(c, dto.ErrCodeUpstream, err.Error())
	default:
		h.Error(c, dto.ErrCodeInternal, err.Error())
	}
}
