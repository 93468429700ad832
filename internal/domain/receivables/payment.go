package receivables

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printpay/receivables/internal/domain/shared"
)

// PaymentMode represents how a payment was made
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "Cash"
	PaymentModeNEFT   PaymentMode = "NEFT"
	PaymentModeUPI    PaymentMode = "UPI"
	PaymentModeCheque PaymentMode = "Cheque"
)

// IsValid checks if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeNEFT, PaymentModeUPI, PaymentModeCheque:
		return true
	}
	return false
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// ChequeStatus is the clearing state of a cheque
type ChequeStatus string

const (
	ChequeStatusPending ChequeStatus = "Pending"
	ChequeStatusCleared ChequeStatus = "Cleared"
	ChequeStatusBounced ChequeStatus = "Bounced"
)

// IsValid checks if the cheque status is valid
func (s ChequeStatus) IsValid() bool {
	switch s {
	case ChequeStatusPending, ChequeStatusCleared, ChequeStatusBounced:
		return true
	}
	return false
}

// IsTerminal returns true if no further transition is allowed
func (s ChequeStatus) IsTerminal() bool {
	return s == ChequeStatusCleared || s == ChequeStatusBounced
}

// String returns the string representation of ChequeStatus
func (s ChequeStatus) String() string {
	return string(s)
}

// ChequeDetails describes a (possibly post-dated) cheque
type ChequeDetails struct {
	ChequeNumber string       `json:"cheque_number"`
	BankName     string       `json:"bank_name"`
	DepositDate  time.Time    `json:"deposit_date"`
	Status       ChequeStatus `json:"status"`
}

// Payment is money received against an invoice. Once recorded only the
// embedded cheque status may change.
type Payment struct {
	shared.TenantEntity
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Date       time.Time       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Mode       PaymentMode     `json:"mode"`
	Reference  string          `json:"reference,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Cheque     *ChequeDetails  `json:"cheque,omitempty"`
}

// NewPaymentInput carries the fields needed to record a payment
type NewPaymentInput struct {
	InvoiceID  uuid.UUID
	CustomerID uuid.UUID
	Date       time.Time
	Amount     decimal.Decimal
	Mode       PaymentMode
	Reference  string
	Notes      string
	Cheque     *ChequeDetails
}

// NewPayment creates a payment. Cheques always start Pending.
func NewPayment(tenantID uuid.UUID, in NewPaymentInput, at time.Time) (Payment, error) {
	if !in.Amount.IsPositive() {
		return Payment{}, shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !in.Mode.IsValid() {
		return Payment{}, shared.NewValidationError("INVALID_INPUT", "Invalid payment mode: "+string(in.Mode))
	}
	if in.Date.IsZero() {
		return Payment{}, shared.NewValidationError("INVALID_INPUT", "Payment date is required")
	}

	var cheque *ChequeDetails
	switch {
	case in.Mode == PaymentModeCheque:
		if in.Cheque == nil || strings.TrimSpace(in.Cheque.ChequeNumber) == "" {
			return Payment{}, shared.NewValidationError("INVALID_INPUT", "Cheque payments require a cheque number")
		}
		cheque = &ChequeDetails{
			ChequeNumber: strings.TrimSpace(in.Cheque.ChequeNumber),
			BankName:     strings.TrimSpace(in.Cheque.BankName),
			DepositDate:  DateOnly(in.Cheque.DepositDate),
			Status:       ChequeStatusPending,
		}
		if in.Cheque.DepositDate.IsZero() {
			cheque.DepositDate = DateOnly(in.Date)
		}
	case in.Cheque != nil:
		return Payment{}, shared.NewValidationError("INVALID_INPUT", "Cheque details are only allowed for cheque payments")
	}

	return Payment{
		TenantEntity: shared.NewTenantEntity(tenantID, at),
		InvoiceID:    in.InvoiceID,
		CustomerID:   in.CustomerID,
		Date:         DateOnly(in.Date),
		Amount:       in.Amount,
		Mode:         in.Mode,
		Reference:    in.Reference,
		Notes:        in.Notes,
		Cheque:       cheque,
	}, nil
}

// IsCheque reports whether the payment was made by cheque
func (p Payment) IsCheque() bool {
	return p.Mode == PaymentModeCheque && p.Cheque != nil
}

// ChequeStatus returns the cheque status, or "" for non-cheque payments
func (p Payment) ChequeStatus() ChequeStatus {
	if !p.IsCheque() {
		return ""
	}
	return p.Cheque.Status
}

// IsBounced reports whether the payment is a bounced cheque
func (p Payment) IsBounced() bool {
	return p.ChequeStatus() == ChequeStatusBounced
}

// Counts reports whether the payment counts toward the invoice's paid amount.
// Pending cheques count provisionally; bounced cheques never do.
func (p Payment) Counts() bool {
	return !p.IsBounced()
}

// clone returns a deep copy so cheque status changes never leak into
// another snapshot.
func (p Payment) clone() Payment {
	if p.Cheque != nil {
		c := *p.Cheque
		p.Cheque = &c
	}
	return p
}
