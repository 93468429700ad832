package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	rcvapp "github.com/printpay/receivables/internal/application/receivables"
	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared/valueobject"
)

// InvoiceHandler serves invoices
type InvoiceHandler struct {
	BaseHandler
	service *rcvapp.CollectionService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service *rcvapp.CollectionService, clock Clock) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: BaseHandler{clock: clock}, service: service}
}

// CreateInvoiceRequest is the body of POST /invoices
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required,max=50"`
	CustomerID    string          `json:"customer_id" binding:"required,uuid"`
	Date          string          `json:"date" binding:"required,datetime=2006-01-02"`
	DueDate       string          `json:"due_date" binding:"required,datetime=2006-01-02"`
	Amount        decimal.Decimal `json:"amount" binding:"required,money"`
	Currency      string          `json:"currency" binding:"omitempty,oneof=INR USD EUR GBP AED"`
	JobName       string          `json:"job_name" binding:"max=200"`
	JobType       string          `json:"job_type" binding:"omitempty,oneof=Offset Flexo Digital Packaging 'Large Format'"`
	Notes         string          `json:"notes" binding:"max=2000"`
}

// InvoiceListQuery holds the filters of GET /invoices
type InvoiceListQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=Paid 'Partially Paid' Pending Overdue Unpaid"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Search     string `form:"search" binding:"max=100"`
}

// Create raises an invoice
// POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateInvoiceRequest
	if !h.bind(c, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		h.BadRequest(c, "Invalid due_date")
		return
	}

	invoice, err := h.service.CreateInvoice(c.Request.Context(), tenantID, receivables.NewInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		CustomerID:    uuid.MustParse(req.CustomerID),
		Date:          date,
		DueDate:       dueDate,
		Amount:        req.Amount,
		Currency:      valueobject.Currency(req.Currency),
		JobName:       req.JobName,
		JobType:       receivables.JobType(req.JobType),
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receivables.ViewOf(*invoice, h.clock.Today()))
}

// Get returns the derived view of one invoice
// GET /invoices/:id?as_of=
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	view, err := h.service.GetInvoice(c.Request.Context(), tenantID, id, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// List returns invoice views, newest first
// GET /invoices?status=&customer_id=&search=&as_of=
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q InvoiceListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	customerID, err := parseOptionalID(q.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer_id")
		return
	}

	views, err := h.service.ListInvoices(c.Request.Context(), tenantID, receivables.InvoiceFilter{
		Status:     q.Status,
		CustomerID: customerID,
		Search:     q.Search,
	}, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Delete soft-deletes an invoice. Invoices with payments need ?confirm=true.
// DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	confirm, _ := strconv.ParseBool(c.Query("confirm"))
	if err := h.service.DeleteInvoice(c.Request.Context(), tenantID, id, confirm); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
