package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	rcvapp "github.com/printpay/receivables/internal/application/receivables"
	"github.com/printpay/receivables/internal/domain/receivables"
)

// PaymentHandler serves payments and the cheques attached to them
type PaymentHandler struct {
	BaseHandler
	service *rcvapp.CollectionService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *rcvapp.CollectionService, clock Clock) *PaymentHandler {
	return &PaymentHandler{BaseHandler: BaseHandler{clock: clock}, service: service}
}

// ChequeRequest describes the cheque behind a Cheque-mode payment
type ChequeRequest struct {
	ChequeNumber string `json:"cheque_number" binding:"required,max=20"`
	BankName     string `json:"bank_name" binding:"required,max=100"`
	DepositDate  string `json:"deposit_date" binding:"required,datetime=2006-01-02"`
}

// RecordPaymentRequest is the body of POST /payments. customer_id may be
// omitted to take the invoice's customer.
type RecordPaymentRequest struct {
	InvoiceID  string          `json:"invoice_id" binding:"required,uuid"`
	CustomerID string          `json:"customer_id" binding:"omitempty,uuid"`
	Date       string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount     decimal.Decimal `json:"amount" binding:"required,money"`
	Mode       string          `json:"mode" binding:"required,oneof=Cash NEFT UPI Cheque"`
	Reference  string          `json:"reference" binding:"max=100"`
	Notes      string          `json:"notes" binding:"max=2000"`
	Cheque     *ChequeRequest  `json:"cheque"`
}

// Record applies a payment to an invoice
// POST /payments
func (h *PaymentHandler) Record(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !h.bind(c, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date")
		return
	}

	appReq := rcvapp.RecordPaymentRequest{
		InvoiceID: uuid.MustParse(req.InvoiceID),
		Date:      date,
		Amount:    req.Amount,
		Mode:      receivables.PaymentMode(req.Mode),
		Reference: req.Reference,
		Notes:     req.Notes,
	}
	if req.CustomerID != "" {
		appReq.CustomerID = uuid.MustParse(req.CustomerID)
	}
	if req.Cheque != nil {
		deposit, err := parseDate(req.Cheque.DepositDate)
		if err != nil {
			h.BadRequest(c, "Invalid cheque deposit_date")
			return
		}
		appReq.Cheque = &receivables.ChequeDetails{
			ChequeNumber: req.Cheque.ChequeNumber,
			BankName:     req.Cheque.BankName,
			DepositDate:  deposit,
		}
	}

	result, err := h.service.RecordPayment(c.Request.Context(), tenantID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ClearCheque marks a pending cheque cleared
// POST /payments/:id/clear
func (h *PaymentHandler) ClearCheque(c *gin.Context) {
	h.transition(c, h.service.ClearCheque)
}

// BounceCheque marks a pending cheque bounced, reopening the invoice balance
// POST /payments/:id/bounce
func (h *PaymentHandler) BounceCheque(c *gin.Context) {
	h.transition(c, h.service.BounceCheque)
}

func (h *PaymentHandler) transition(c *gin.Context, fn func(ctx context.Context, tenantID, paymentID uuid.UUID) (*rcvapp.PaymentResult, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DuePDCs lists pending cheques whose deposit date has arrived
// GET /cheques/due?as_of=
func (h *PaymentHandler) DuePDCs(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	payments, err := h.service.DuePDCs(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}
