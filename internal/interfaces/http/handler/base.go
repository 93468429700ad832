package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/infrastructure/logger"
	"github.com/printpay/receivables/internal/interfaces/http/dto"
	"github.com/printpay/receivables/internal/interfaces/http/middleware"
)

// DateLayout is the wire format of calendar dates in requests and queries
const DateLayout = "2006-01-02"

// Clock supplies the business date a request defaults to when it does not
// pass as_of.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// Today returns the current calendar date in the clock's location
func (k Clock) Today() time.Time {
	now := time.Now
	if k.Now != nil {
		now = k.Now
	}
	loc := k.Location
	if loc == nil {
		loc = time.UTC
	}
	return receivables.DateOnly(now().In(loc))
}

// BaseHandler provides common handler utilities
type BaseHandler struct {
	clock Clock
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 with the given message
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message, middleware.RequestIDFrom(c)))
}

// HandleError converts an error to a response. Domain errors keep their code
// and get the status of their kind; anything else is logged and hidden
// behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.RequestIDFrom(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.StatusForKind(domainErr.Kind), dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID))
		return
	}

	logger.L(c.Request.Context()).Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}

// tenant returns the tenant resolved by the tenant middleware. It writes a
// 400 and reports false when there is none.
func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.TenantIDFrom(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrCodeTenantRequired, "X-Tenant-ID header is required", middleware.RequestIDFrom(c)))
	}
	return id, ok
}

// pathID parses a UUID path parameter, writing a 400 on failure
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// asOf reads the as_of query parameter, defaulting to today
func (h *BaseHandler) asOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("as_of")
	if raw == "" {
		return h.clock.Today(), true
	}
	d, err := parseDate(raw)
	if err != nil {
		h.BadRequest(c, "as_of must be a date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return d, true
}

// bind decodes and validates the JSON body, writing a 400 on failure
func (h *BaseHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleBindError(c, err)
		return false
	}
	return true
}
