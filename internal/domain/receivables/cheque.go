package receivables

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/printpay/receivables/internal/domain/shared"
)

// MarkCleared moves a pending cheque to Cleared. The paid amount does not
// change because pending cheques already count.
func MarkCleared(p Payment) (Payment, error) {
	return transitionCheque(p, ChequeStatusCleared)
}

// MarkBounced moves a pending cheque to Bounced. The owning invoice must be
// re-settled for the reversal to take effect; see BounceCheque.
func MarkBounced(p Payment) (Payment, error) {
	return transitionCheque(p, ChequeStatusBounced)
}

func transitionCheque(p Payment, to ChequeStatus) (Payment, error) {
	if !p.IsCheque() {
		return Payment{}, shared.NewValidationError("NOT_A_CHEQUE", "Payment is not a cheque payment")
	}
	if p.Cheque.Status != ChequeStatusPending {
		return Payment{}, shared.NewInvalidTransitionError("INVALID_STATE_TRANSITION",
			"Cheque "+p.Cheque.ChequeNumber+" is already "+string(p.Cheque.Status))
	}
	out := p.clone()
	out.Cheque.Status = to
	return out, nil
}

// ClearCheque clears a cheque on the invoice and returns the updated invoice
// and payment.
func ClearCheque(inv Invoice, paymentID uuid.UUID, at time.Time) (Invoice, Payment, error) {
	return applyChequeTransition(inv, paymentID, at, MarkCleared)
}

// BounceCheque bounces a cheque on the invoice, reversing its amount out of
// the paid amount.
func BounceCheque(inv Invoice, paymentID uuid.UUID, at time.Time) (Invoice, Payment, error) {
	return applyChequeTransition(inv, paymentID, at, MarkBounced)
}

func applyChequeTransition(inv Invoice, paymentID uuid.UUID, at time.Time, transition func(Payment) (Payment, error)) (Invoice, Payment, error) {
	if inv.IsDeleted() {
		return Invoice{}, Payment{}, shared.NewInvalidTransitionError("INVALID_STATE_TRANSITION", "Invoice has been deleted")
	}
	out := inv.clone()
	for i, p := range out.Payments {
		if p.ID != paymentID {
			continue
		}
		updated, err := transition(p)
		if err != nil {
			return Invoice{}, Payment{}, err
		}
		updated.TenantEntity = updated.TenantEntity.Touch(at)
		out.Payments[i] = updated
		out.TenantEntity = out.TenantEntity.Touch(at)
		return Settle(out), updated.clone(), nil
	}
	return Invoice{}, Payment{}, shared.NewValidationError("NOT_FOUND", "Payment not found on invoice")
}

// DuePDCs returns pending cheques whose deposit date is on or before asOf,
// earliest deposit first and, within a day, largest amount first.
func DuePDCs(payments []Payment, asOf time.Time) []Payment {
	day := DateOnly(asOf)
	var due []Payment
	for _, p := range payments {
		if p.ChequeStatus() != ChequeStatusPending {
			continue
		}
		if DateOnly(p.Cheque.DepositDate).After(day) {
			continue
		}
		due = append(due, p.clone())
	}
	sort.SliceStable(due, func(i, j int) bool {
		di, dj := DateOnly(due[i].Cheque.DepositDate), DateOnly(due[j].Cheque.DepositDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return due[i].Amount.GreaterThan(due[j].Amount)
	})
	return due
}
