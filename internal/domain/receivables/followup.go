package receivables

import (
	"time"

	"github.com/google/uuid"

	"github.com/printpay/receivables/internal/domain/shared"
)

// FollowUpMode is the channel a follow-up happened over
type FollowUpMode string

const (
	FollowUpModeCall     FollowUpMode = "Call"
	FollowUpModeWhatsApp FollowUpMode = "WhatsApp"
	FollowUpModeEmail    FollowUpMode = "Email"
	FollowUpModeSMS      FollowUpMode = "SMS"
	FollowUpModeVisit    FollowUpMode = "Visit"
)

// IsValid checks if the mode is valid
func (m FollowUpMode) IsValid() bool {
	switch m {
	case FollowUpModeCall, FollowUpModeWhatsApp, FollowUpModeEmail, FollowUpModeSMS, FollowUpModeVisit:
		return true
	}
	return false
}

// FollowUpStatus is the outcome recorded for a follow-up
type FollowUpStatus string

const (
	FollowUpPromised     FollowUpStatus = "Promised"
	FollowUpWillPay      FollowUpStatus = "Will Pay"
	FollowUpNoAnswer     FollowUpStatus = "No Answer"
	FollowUpDispute      FollowUpStatus = "Dispute"
	FollowUpPaid         FollowUpStatus = "Paid"
	FollowUpNotReachable FollowUpStatus = "Not Reachable"
	FollowUpSent         FollowUpStatus = "Sent"
	FollowUpRead         FollowUpStatus = "Read"
)

// IsValid checks if the status is valid
func (s FollowUpStatus) IsValid() bool {
	switch s {
	case FollowUpPromised, FollowUpWillPay, FollowUpNoAnswer, FollowUpDispute,
		FollowUpPaid, FollowUpNotReachable, FollowUpSent, FollowUpRead:
		return true
	}
	return false
}

// IsPromise reports whether the customer committed to pay
func (s FollowUpStatus) IsPromise() bool {
	return s == FollowUpPromised || s == FollowUpWillPay
}

// FollowUp is an entry in the append-only collections log
type FollowUp struct {
	shared.TenantEntity
	CustomerID       uuid.UUID      `json:"customer_id"`
	InvoiceID        *uuid.UUID     `json:"invoice_id,omitempty"`
	Date             time.Time      `json:"date"`
	Mode             FollowUpMode   `json:"mode"`
	Status           FollowUpStatus `json:"status"`
	NextFollowUpDate *time.Time     `json:"next_follow_up_date,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	ContactPerson    string         `json:"contact_person,omitempty"`
	Location         string         `json:"location,omitempty"`
}

// NewFollowUpInput carries the fields of a new follow-up entry
type NewFollowUpInput struct {
	CustomerID       uuid.UUID
	InvoiceID        *uuid.UUID
	Date             time.Time
	Mode             FollowUpMode
	Status           FollowUpStatus
	NextFollowUpDate *time.Time
	Notes            string
	ContactPerson    string
	Location         string
}

// NewFollowUp creates a follow-up log entry
func NewFollowUp(tenantID uuid.UUID, in NewFollowUpInput, at time.Time) (FollowUp, error) {
	if in.CustomerID == uuid.Nil {
		return FollowUp{}, shared.NewValidationError("INVALID_INPUT", "Customer is required")
	}
	if !in.Mode.IsValid() {
		return FollowUp{}, shared.NewValidationError("INVALID_INPUT", "Invalid follow-up mode: "+string(in.Mode))
	}
	if !in.Status.IsValid() {
		return FollowUp{}, shared.NewValidationError("INVALID_INPUT", "Invalid follow-up status: "+string(in.Status))
	}
	if in.Date.IsZero() {
		return FollowUp{}, shared.NewValidationError("INVALID_INPUT", "Follow-up date is required")
	}

	f := FollowUp{
		TenantEntity:  shared.NewTenantEntity(tenantID, at),
		CustomerID:    in.CustomerID,
		Date:          DateOnly(in.Date),
		Mode:          in.Mode,
		Status:        in.Status,
		Notes:         in.Notes,
		ContactPerson: in.ContactPerson,
		Location:      in.Location,
	}
	if in.InvoiceID != nil {
		id := *in.InvoiceID
		f.InvoiceID = &id
	}
	if in.NextFollowUpDate != nil {
		next := DateOnly(*in.NextFollowUpDate)
		if next.Before(f.Date) {
			return FollowUp{}, shared.NewValidationError("INVALID_INPUT", "Next follow-up date cannot be before the follow-up date")
		}
		f.NextFollowUpDate = &next
	}
	return f, nil
}
