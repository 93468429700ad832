package receivables

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/domain/shared/valueobject"
)

// InvoiceStatus is the derived state of an invoice. It is never stored;
// see DeriveStatus.
type InvoiceStatus string

const (
	InvoiceStatusPaid          InvoiceStatus = "Paid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "Partially Paid"
	InvoiceStatusPending       InvoiceStatus = "Pending"
	InvoiceStatusOverdue       InvoiceStatus = "Overdue"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusPartiallyPaid, InvoiceStatusPending, InvoiceStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice is a bill raised against a customer, with the payments applied to
// it in the order they were recorded.
//
// PaidAmount and AdvanceCredit are derived from Payments by the Ledger and
// always satisfy 0 <= PaidAmount <= Amount.
type Invoice struct {
	shared.TenantEntity
	InvoiceNumber string               `json:"invoice_number"`
	CustomerID    uuid.UUID            `json:"customer_id"`
	Date          time.Time            `json:"date"`
	DueDate       time.Time            `json:"due_date"`
	Amount        decimal.Decimal      `json:"amount"`
	PaidAmount    decimal.Decimal      `json:"paid_amount"`
	AdvanceCredit decimal.Decimal      `json:"advance_credit"`
	Currency      valueobject.Currency `json:"currency"`
	JobName       string               `json:"job_name,omitempty"`
	JobType       JobType              `json:"job_type,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Payments      []Payment            `json:"payments"`
	DeletedAt     *time.Time           `json:"deleted_at,omitempty"`
}

// NewInvoiceInput carries the fields needed to raise an invoice
type NewInvoiceInput struct {
	InvoiceNumber string
	CustomerID    uuid.UUID
	Date          time.Time
	DueDate       time.Time
	Amount        decimal.Decimal
	Currency      valueobject.Currency
	JobName       string
	JobType       JobType
	Notes         string
}

// NewInvoice creates a Pending invoice with nothing paid
func NewInvoice(tenantID uuid.UUID, in NewInvoiceInput, at time.Time) (Invoice, error) {
	number := strings.TrimSpace(in.InvoiceNumber)
	if number == "" {
		return Invoice{}, shared.NewValidationError("INVALID_INPUT", "Invoice number is required")
	}
	if in.CustomerID == uuid.Nil {
		return Invoice{}, shared.NewValidationError("INVALID_INPUT", "Customer is required")
	}
	if !in.Amount.IsPositive() {
		return Invoice{}, shared.NewValidationError("INVALID_AMOUNT", "Invoice amount must be positive")
	}
	if in.Date.IsZero() || in.DueDate.IsZero() {
		return Invoice{}, shared.NewValidationError("INVALID_INPUT", "Invoice date and due date are required")
	}
	if DateOnly(in.DueDate).Before(DateOnly(in.Date)) {
		return Invoice{}, shared.NewValidationError("INVALID_INPUT", "Due date cannot be before invoice date")
	}
	if in.JobType != "" && !in.JobType.IsValid() {
		return Invoice{}, shared.NewValidationError("INVALID_INPUT", "Unknown job type: "+string(in.JobType))
	}
	currency := in.Currency
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return Invoice{}, shared.NewValidationError("INVALID_INPUT", "Unsupported currency: "+string(currency))
	}

	return Invoice{
		TenantEntity:  shared.NewTenantEntity(tenantID, at),
		InvoiceNumber: number,
		CustomerID:    in.CustomerID,
		Date:          DateOnly(in.Date),
		DueDate:       DateOnly(in.DueDate),
		Amount:        in.Amount,
		PaidAmount:    decimal.Zero,
		AdvanceCredit: decimal.Zero,
		Currency:      currency,
		JobName:       in.JobName,
		JobType:       in.JobType,
		Notes:         in.Notes,
		Payments:      []Payment{},
	}, nil
}

// Balance returns amount minus the effective paid amount, never below zero
func (inv Invoice) Balance() decimal.Decimal {
	return balanceOf(inv)
}

// Status derives the invoice status as of the given day
func (inv Invoice) Status(asOf time.Time) InvoiceStatus {
	return DeriveStatus(inv, asOf)
}

// DaysOverdue returns whole days past the due date, or 0 if not yet overdue
func (inv Invoice) DaysOverdue(asOf time.Time) int {
	return max(0, DaysBetween(inv.DueDate, asOf))
}

// IsDeleted reports whether the invoice was deleted
func (inv Invoice) IsDeleted() bool {
	return inv.DeletedAt != nil
}

// HasPayments reports whether any payment was ever recorded on the invoice
func (inv Invoice) HasPayments() bool {
	return len(inv.Payments) > 0
}

// FindPayment returns the payment with the given ID
func (inv Invoice) FindPayment(id uuid.UUID) (Payment, bool) {
	for _, p := range inv.Payments {
		if p.ID == id {
			return p.clone(), true
		}
	}
	return Payment{}, false
}

// MarkDeleted returns a deleted copy of the invoice
func (inv Invoice) MarkDeleted(at time.Time) Invoice {
	out := inv.clone()
	out.DeletedAt = &at
	out.TenantEntity = out.TenantEntity.Touch(at)
	return out
}

// SettledOn returns the date of the payment that brought the balance to
// zero, or false if the invoice is not settled.
func (inv Invoice) SettledOn() (time.Time, bool) {
	running := decimal.Zero
	for _, p := range inv.Payments {
		if !p.Counts() {
			continue
		}
		running = running.Add(p.Amount)
		if running.GreaterThanOrEqual(inv.Amount) {
			return p.Date, true
		}
	}
	return time.Time{}, false
}

// clone returns a deep copy of the invoice including its payments
func (inv Invoice) clone() Invoice {
	payments := make([]Payment, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = p.clone()
	}
	inv.Payments = payments
	if inv.DeletedAt != nil {
		d := *inv.DeletedAt
		inv.DeletedAt = &d
	}
	return inv
}

// liveInvoices drops deleted invoices
func liveInvoices(invoices []Invoice) []Invoice {
	out := make([]Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if !inv.IsDeleted() {
			out = append(out, inv)
		}
	}
	return out
}

// PaymentsOf flattens the payments of the given invoices
func PaymentsOf(invoices []Invoice) []Payment {
	var out []Payment
	for _, inv := range invoices {
		for _, p := range inv.Payments {
			out = append(out, p.clone())
		}
	}
	return out
}
