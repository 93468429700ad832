package receivables

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/infrastructure/telemetry"
)

// RecordPaymentRequest describes a payment received against an invoice.
// CustomerID may be left empty to take the invoice's customer.
type RecordPaymentRequest struct {
	InvoiceID  uuid.UUID
	CustomerID uuid.UUID
	Date       time.Time
	Amount     decimal.Decimal
	Mode       receivables.PaymentMode
	Reference  string
	Notes      string
	Cheque     *receivables.ChequeDetails
}

// PaymentResult is the updated invoice and the payment that changed it
type PaymentResult struct {
	Invoice receivables.InvoiceView `json:"invoice"`
	Payment receivables.Payment     `json:"payment"`
}

// RecordPayment applies a payment to an invoice. The invoice is locked,
// loaded, updated by the ledger and saved as one unit; nothing is stored
// when the ledger rejects the payment.
func (s *CollectionService) RecordPayment(ctx context.Context, tenantID uuid.UUID, req RecordPaymentRequest) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "record_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, req.InvoiceID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrPaymentMode, string(req.Mode),
	)

	var result *PaymentResult
	err := s.withInvoiceLock(ctx, tenantID, req.InvoiceID, func() error {
		invoice, err := s.invoices.FindByIDForTenant(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return err
		}

		customerID := req.CustomerID
		if customerID == uuid.Nil {
			customerID = invoice.CustomerID
		}
		now := s.now()
		payment, err := receivables.NewPayment(tenantID, receivables.NewPaymentInput{
			InvoiceID:  invoice.ID,
			CustomerID: customerID,
			Date:       req.Date,
			Amount:     req.Amount,
			Mode:       req.Mode,
			Reference:  req.Reference,
			Notes:      req.Notes,
			Cheque:     req.Cheque,
		}, now)
		if err != nil {
			return err
		}

		updated, err := s.ledger.ApplyPayment(*invoice, payment)
		if err != nil {
			return err
		}
		if err := s.invoices.Save(ctx, &updated); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		s.metrics.RecordPayment(ctx, tenantID.String(), string(payment.Mode), payment.Amount)
		s.publish(ctx, receivables.NewPaymentAppliedEvent(updated, payment, now))
		s.log(ctx).Info("payment applied",
			zap.String("invoice_id", updated.ID.String()),
			zap.String("payment_id", payment.ID.String()),
			zap.String("amount", payment.Amount.String()),
			zap.String("mode", string(payment.Mode)),
			zap.String("paid_amount", updated.PaidAmount.String()),
			zap.String("advance_credit", updated.AdvanceCredit.String()),
		)

		result = &PaymentResult{
			Invoice: receivables.ViewOf(updated, now),
			Payment: payment,
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, result.Payment.ID.String())
	return result, nil
}

// ClearCheque marks a pending cheque as cleared
func (s *CollectionService) ClearCheque(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResult, error) {
	return s.transitionCheque(ctx, tenantID, paymentID, "clear_cheque", receivables.ClearCheque)
}

// BounceCheque marks a pending cheque as bounced, which reopens its invoice
func (s *CollectionService) BounceCheque(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResult, error) {
	return s.transitionCheque(ctx, tenantID, paymentID, "bounce_cheque", receivables.BounceCheque)
}

type chequeTransition func(inv receivables.Invoice, paymentID uuid.UUID, at time.Time) (receivables.Invoice, receivables.Payment, error)

func (s *CollectionService) transitionCheque(ctx context.Context, tenantID, paymentID uuid.UUID, method string, transition chequeTransition) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", method)
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, paymentID.String())

	owner, err := s.invoices.FindByPaymentID(ctx, tenantID, paymentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var result *PaymentResult
	err = s.withInvoiceLock(ctx, tenantID, owner.ID, func() error {
		// reload under the lock
		invoice, err := s.invoices.FindByIDForTenant(ctx, tenantID, owner.ID)
		if err != nil {
			return err
		}
		now := s.now()
		updated, payment, err := transition(*invoice, paymentID, now)
		if err != nil {
			return err
		}
		if err := s.invoices.Save(ctx, &updated); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		status := payment.ChequeStatus()
		s.metrics.RecordCheque(ctx, tenantID.String(), string(status))
		s.publish(ctx, receivables.NewChequeStatusChangedEvent(updated, payment, now))

		log := s.log(ctx).With(
			zap.String("invoice_id", updated.ID.String()),
			zap.String("payment_id", payment.ID.String()),
			zap.String("cheque_status", string(status)),
			zap.String("amount", payment.Amount.String()),
		)
		if payment.IsBounced() {
			log.Warn("cheque bounced", zap.String("balance", updated.Balance().String()))
		} else {
			log.Info("cheque cleared")
		}

		result = &PaymentResult{
			Invoice: receivables.ViewOf(updated, now),
			Payment: payment,
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrChequeStatus, string(result.Payment.ChequeStatus()))
	return result, nil
}

// DuePDCs lists pending cheques whose deposit date has arrived
func (s *CollectionService) DuePDCs(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]receivables.Payment, error) {
	invoices, err := s.invoices.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return receivables.DuePDCs(receivables.PaymentsOf(invoices), asOf), nil
}
