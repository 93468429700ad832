package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	rcvapp "github.com/printpay/receivables/internal/application/receivables"
	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/interfaces/http/dto"
	"github.com/printpay/receivables/internal/interfaces/http/middleware"
)

// CustomerHandler serves the customer book
type CustomerHandler struct {
	BaseHandler
	service *rcvapp.CollectionService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *rcvapp.CollectionService, clock Clock) *CustomerHandler {
	return &CustomerHandler{BaseHandler: BaseHandler{clock: clock}, service: service}
}

// CustomerRequest is the body of create and update calls. Update replaces
// every field.
type CustomerRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	CompanyName string          `json:"company_name" binding:"max=200"`
	Mobile      string          `json:"mobile" binding:"max=20"`
	Email       string          `json:"email" binding:"omitempty,email,max=200"`
	City        string          `json:"city" binding:"max=100"`
	Address     string          `json:"address" binding:"max=500"`
	GSTIN       string          `json:"gstin" binding:"omitempty,len=15"`
	Notes       string          `json:"notes" binding:"max=2000"`
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"money_nonneg"`
	Tags        []string        `json:"tags" binding:"omitempty,dive,oneof=Offset Flexo Digital Packaging 'Large Format'"`
}

func (r CustomerRequest) details() receivables.CustomerDetails {
	return receivables.CustomerDetails{
		Name:        r.Name,
		CompanyName: r.CompanyName,
		Mobile:      r.Mobile,
		Email:       r.Email,
		City:        r.City,
		Address:     r.Address,
		GSTIN:       r.GSTIN,
		Notes:       r.Notes,
		CreditLimit: r.CreditLimit,
		Tags:        toJobTypes(r.Tags),
	}
}

// Create registers a customer
// POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CustomerRequest
	if !h.bind(c, &req) {
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), tenantID, req.details())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Update replaces a customer's details
// PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req CustomerRequest
	if !h.bind(c, &req) {
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), tenantID, id, req.details())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer that has never been invoiced
// DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCustomer(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get returns one customer
// GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.service.GetCustomer(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List returns a page of customers, optionally filtered by search
// GET /customers?search=&page=&page_size=
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	customers, err := h.service.ListCustomers(c.Request.Context(), tenantID, shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// FollowUps returns the follow-up log of one customer, newest first
// GET /customers/:id/follow-ups
func (h *CustomerHandler) FollowUps(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	followUps, err := h.service.ListFollowUps(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, followUps)
}

// Risk scores one customer
// GET /customers/:id/risk?as_of=
func (h *CustomerHandler) Risk(c *gin.Context) {
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
	score, err := h.service.CustomerRisk(c.Request.Context(), tenantID, id, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, score)
}
