package receivables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/domain/shared/valueobject"
)

// Event type names
const (
	EventTypePaymentApplied = "PaymentApplied"
	EventTypeChequeCleared  = "ChequeCleared"
	EventTypeChequeBounced  = "ChequeBounced"
	EventTypeReminderDue    = "ReminderDue"

	AggregateTypeInvoice = "Invoice"
)

// PaymentAppliedEvent is raised when a payment is applied to an invoice
type PaymentAppliedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          PaymentMode     `json:"mode"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Balance       decimal.Decimal `json:"balance"`
	AdvanceCredit decimal.Decimal `json:"advance_credit"`
}

// NewPaymentAppliedEvent creates a PaymentAppliedEvent from the updated invoice
func NewPaymentAppliedEvent(inv Invoice, p Payment, at time.Time) *PaymentAppliedEvent {
	return &PaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentApplied, AggregateTypeInvoice, inv.ID, inv.TenantID, at),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		Mode:            p.Mode,
		PaidAmount:      inv.PaidAmount,
		Balance:         inv.Balance(),
		AdvanceCredit:   inv.AdvanceCredit,
	}
}

// ChequeStatusChangedEvent is raised when a cheque clears or bounces
type ChequeStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	ChequeNumber  string          `json:"cheque_number"`
	Amount        decimal.Decimal `json:"amount"`
	Status        ChequeStatus    `json:"status"`
	Balance       decimal.Decimal `json:"balance"`
}

// NewChequeStatusChangedEvent creates a ChequeCleared or ChequeBounced event
// depending on the payment's cheque status.
func NewChequeStatusChangedEvent(inv Invoice, p Payment, at time.Time) *ChequeStatusChangedEvent {
	eventType := EventTypeChequeCleared
	if p.IsBounced() {
		eventType = EventTypeChequeBounced
	}
	e := &ChequeStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeInvoice, inv.ID, inv.TenantID, at),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		Status:          p.ChequeStatus(),
		Balance:         inv.Balance(),
	}
	if p.Cheque != nil {
		e.ChequeNumber = p.Cheque.ChequeNumber
	}
	return e
}

// ReminderDueEvent carries a reminder that fell due. Handlers simulate
// delivery; nothing is sent.
type ReminderDueEvent struct {
	shared.BaseDomainEvent
	CustomerID    uuid.UUID            `json:"customer_id"`
	InvoiceID     uuid.UUID            `json:"invoice_id"`
	InvoiceNumber string               `json:"invoice_number"`
	Channel       Channel              `json:"channel"`
	Recipient     string               `json:"recipient"`
	Kind          ReminderKind         `json:"kind"`
	Balance       decimal.Decimal      `json:"balance"`
	Currency      valueobject.Currency `json:"currency"`
	Message       string               `json:"message"`
	AsOf          time.Time            `json:"as_of"`
}

// NewReminderDueEvent creates a ReminderDueEvent
func NewReminderDueEvent(tenantID uuid.UUID, r Reminder, asOf, at time.Time) *ReminderDueEvent {
	return &ReminderDueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReminderDue, AggregateTypeInvoice, r.InvoiceID, tenantID, at),
		CustomerID:      r.CustomerID,
		InvoiceID:       r.InvoiceID,
		InvoiceNumber:   r.InvoiceNumber,
		Channel:         r.Channel,
		Recipient:       r.Recipient,
		Kind:            r.Kind,
		Balance:         r.Balance,
		Currency:        r.Currency,
		Message:         r.Message,
		AsOf:            DateOnly(asOf),
	}
}
