package receivables

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/printpay/receivables/internal/domain/shared"
)

// LedgerPolicy configures how the Ledger treats overpayments
type LedgerPolicy struct {
	// AllowOverpayment accepts payments beyond the invoice amount and reports
	// the excess as AdvanceCredit. When false, such payments are rejected.
	AllowOverpayment bool
}

// Ledger applies payments to invoices and derives their balance and status.
// It holds no state besides its policy; every call returns new values.
type Ledger struct {
	policy LedgerPolicy
}

// NewLedger creates a ledger with the given policy
func NewLedger(policy LedgerPolicy) Ledger {
	return Ledger{policy: policy}
}

// Policy returns the ledger's overpayment policy
func (l Ledger) Policy() LedgerPolicy {
	return l.policy
}

// EffectivePaidAmount sums the payments on the invoice that count toward it.
// Pending cheques are included; bounced cheques are not.
func EffectivePaidAmount(inv Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv.Payments {
		if p.Counts() {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func balanceOf(inv Invoice) decimal.Decimal {
	balance := inv.Amount.Sub(EffectivePaidAmount(inv))
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// DeriveStatus computes the status of an invoice on the given day.
// The result depends only on amount, payments, due date and today.
func DeriveStatus(inv Invoice, today time.Time) InvoiceStatus {
	if balanceOf(inv).IsZero() {
		return InvoiceStatusPaid
	}
	if DateOnly(today).After(DateOnly(inv.DueDate)) {
		return InvoiceStatusOverdue
	}
	if EffectivePaidAmount(inv).IsPositive() {
		return InvoiceStatusPartiallyPaid
	}
	return InvoiceStatusPending
}

// ApplyPayment appends a payment to a copy of the invoice and recomputes its
// paid amount. On error the returned invoice is the zero value and the input
// is untouched.
func (l Ledger) ApplyPayment(inv Invoice, p Payment) (Invoice, error) {
	if inv.IsDeleted() {
		return Invoice{}, shared.NewInvalidTransitionError("INVALID_STATE_TRANSITION", "Cannot apply a payment to a deleted invoice")
	}
	if !p.Amount.IsPositive() {
		return Invoice{}, shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if p.CustomerID != inv.CustomerID {
		return Invoice{}, shared.NewValidationError("CUSTOMER_MISMATCH", "Payment customer does not match invoice customer")
	}
	if p.InvoiceID != inv.ID {
		return Invoice{}, shared.NewValidationError("INVOICE_MISMATCH", "Payment belongs to a different invoice")
	}
	if _, exists := inv.FindPayment(p.ID); exists {
		return Invoice{}, shared.NewValidationError("DUPLICATE_PAYMENT", "Payment is already applied to this invoice")
	}
	if !l.policy.AllowOverpayment {
		after := EffectivePaidAmount(inv).Add(p.Amount)
		if after.GreaterThan(inv.Amount) {
			return Invoice{}, shared.NewValidationError("OVERPAYMENT",
				"Payment of "+p.Amount.StringFixed(2)+" exceeds outstanding balance of "+balanceOf(inv).StringFixed(2))
		}
	}

	out := inv.clone()
	out.Payments = append(out.Payments, p.clone())
	if !p.CreatedAt.IsZero() {
		out.TenantEntity = out.TenantEntity.Touch(p.CreatedAt)
	}
	return Settle(out), nil
}

// Settle returns a copy of the invoice with PaidAmount and AdvanceCredit
// recomputed from its payments. PaidAmount is capped at Amount; any excess
// becomes AdvanceCredit.
func Settle(inv Invoice) Invoice {
	out := inv.clone()
	effective := EffectivePaidAmount(out)
	if effective.GreaterThan(out.Amount) {
		out.PaidAmount = out.Amount
		out.AdvanceCredit = effective.Sub(out.Amount)
	} else {
		out.PaidAmount = effective
		out.AdvanceCredit = decimal.Zero
	}
	return out
}
