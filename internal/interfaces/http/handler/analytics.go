package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	rcvapp "github.com/printpay/receivables/internal/application/receivables"
)

const (
	defaultCollectionMonths = 6
	maxCollectionMonths     = 24
)

// AnalyticsHandler serves the read-only collection reports
type AnalyticsHandler struct {
	BaseHandler
	service *rcvapp.CollectionService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service *rcvapp.CollectionService, clock Clock) *AnalyticsHandler {
	return &AnalyticsHandler{BaseHandler: BaseHandler{clock: clock}, service: service}
}

// Dashboard returns the dashboard bundle
// GET /dashboard?as_of=
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	dashboard, err := h.service.Dashboard(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Ageing returns outstanding balances per overdue bucket
// GET /reports/ageing?as_of=
func (h *AnalyticsHandler) Ageing(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	report, err := h.service.Ageing(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Collections returns money collected per month
// GET /reports/collections?months=&as_of=
func (h *AnalyticsHandler) Collections(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	months := defaultCollectionMonths
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxCollectionMonths {
			h.BadRequest(c, "months must be between 1 and 24")
			return
		}
		months = n
	}
	collections, err := h.service.MonthlyCollections(c.Request.Context(), tenantID, asOf, months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collections)
}

// RiskBoard scores every customer, riskiest first
// GET /reports/risk?as_of=
func (h *AnalyticsHandler) RiskBoard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	board, err := h.service.RiskBoard(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, board)
}

// Calendar lists due invoices and scheduled follow-ups per day of a month
// GET /calendar?year=&month=
func (h *AnalyticsHandler) Calendar(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	today := h.clock.Today()
	year, month := today.Year(), today.Month()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 2100 {
			h.BadRequest(c, "Invalid year")
			return
		}
		year = y
	}
	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			h.BadRequest(c, "month must be between 1 and 12")
			return
		}
		month = time.Month(m)
	}
	days, err := h.service.Calendar(c.Request.Context(), tenantID, year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, days)
}
