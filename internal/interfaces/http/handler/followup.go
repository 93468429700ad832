package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rcvapp "github.com/printpay/receivables/internal/application/receivables"
	"github.com/printpay/receivables/internal/domain/receivables"
)

// FollowUpHandler serves the collection follow-up log and reminder settings
type FollowUpHandler struct {
	BaseHandler
	service *rcvapp.CollectionService
}

// NewFollowUpHandler creates a new FollowUpHandler
func NewFollowUpHandler(service *rcvapp.CollectionService, clock Clock) *FollowUpHandler {
	return &FollowUpHandler{BaseHandler: BaseHandler{clock: clock}, service: service}
}

// FollowUpRequest is the body of POST /follow-ups
type FollowUpRequest struct {
	CustomerID       string `json:"customer_id" binding:"required,uuid"`
	InvoiceID        string `json:"invoice_id" binding:"omitempty,uuid"`
	Date             string `json:"date" binding:"required,datetime=2006-01-02"`
	Mode             string `json:"mode" binding:"required,oneof=Call WhatsApp Email SMS Visit"`
	Status           string `json:"status" binding:"required,oneof=Promised 'Will Pay' 'No Answer' Dispute Paid 'Not Reachable' Sent Read"`
	NextFollowUpDate string `json:"next_follow_up_date" binding:"omitempty,datetime=2006-01-02"`
	Notes            string `json:"notes" binding:"max=2000"`
	ContactPerson    string `json:"contact_person" binding:"max=100"`
	Location         string `json:"location" binding:"max=200"`
}

// Create appends a follow-up to the log
// POST /follow-ups
func (h *FollowUpHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req FollowUpRequest
	if !h.bind(c, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date")
		return
	}
	next, err := parseOptionalDate(req.NextFollowUpDate)
	if err != nil {
		h.BadRequest(c, "Invalid next_follow_up_date")
		return
	}
	invoiceID, err := parseOptionalID(req.InvoiceID)
	if err != nil {
		h.BadRequest(c, "Invalid invoice_id")
		return
	}

	followUp, err := h.service.AddFollowUp(c.Request.Context(), tenantID, receivables.NewFollowUpInput{
		CustomerID:       uuid.MustParse(req.CustomerID),
		InvoiceID:        invoiceID,
		Date:             date,
		Mode:             receivables.FollowUpMode(req.Mode),
		Status:           receivables.FollowUpStatus(req.Status),
		NextFollowUpDate: next,
		Notes:            req.Notes,
		ContactPerson:    req.ContactPerson,
		Location:         req.Location,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, followUp)
}

// Due lists follow-ups scheduled for the day
// GET /follow-ups/due?as_of=
func (h *FollowUpHandler) Due(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	followUps, err := h.service.FollowUpsDue(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, followUps)
}

// GetSettings returns the tenant's reminder settings
// GET /settings/reminders
func (h *FollowUpHandler) GetSettings(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	settings, err := h.service.GetReminderSettings(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSettings replaces the tenant's reminder settings. Out-of-range
// values are rejected by the service with a configuration error.
// PUT /settings/reminders
func (h *FollowUpHandler) UpdateSettings(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req receivables.ReminderSettings
	if !h.bind(c, &req) {
		return
	}
	settings, err := h.service.UpdateReminderSettings(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// RemindersDue previews the reminders due for the day without sending them
// GET /reminders/due?as_of=
func (h *FollowUpHandler) RemindersDue(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	reminders, err := h.service.RemindersDue(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminders)
}

// DispatchReminders publishes the reminders due for the day. Each one is
// logged as a Sent follow-up; reminders already logged are skipped.
// POST /reminders/dispatch?as_of=
func (h *FollowUpHandler) DispatchReminders(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	reminders, err := h.service.DispatchReminders(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminders)
}
