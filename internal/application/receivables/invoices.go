package receivables

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/infrastructure/telemetry"
)

// CreateInvoice raises an invoice for an existing customer. Invoice numbers
// are unique per tenant.
func (s *CollectionService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, in receivables.NewInvoiceInput) (*receivables.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "create_invoice")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCustomerID, in.CustomerID.String(),
		telemetry.SpanAttrInvoiceNumber, in.InvoiceNumber,
		telemetry.SpanAttrAmount, in.Amount.String(),
	)

	invoice, err := receivables.NewInvoice(tenantID, in, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if _, err := s.requireCustomer(ctx, tenantID, invoice.CustomerID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	exists, err := s.invoices.ExistsByNumber(ctx, tenantID, invoice.InvoiceNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check invoice number: %w", err)
	}
	if exists {
		err := shared.NewConflictError("DUPLICATE_INVOICE_NUMBER",
			fmt.Sprintf("Invoice number %s already exists", invoice.InvoiceNumber))
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoices.Save(ctx, &invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.log(ctx).Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("customer_id", invoice.CustomerID.String()),
		zap.String("amount", invoice.Amount.String()),
	)
	return &invoice, nil
}

// GetInvoice returns the derived view of a live invoice as of the given day
func (s *CollectionService) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, asOf time.Time) (*receivables.InvoiceView, error) {
	invoice, err := s.invoices.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.IsDeleted() {
		return nil, shared.ErrNotFound
	}
	view := receivables.ViewOf(*invoice, asOf)
	return &view, nil
}

// ListInvoices lists live invoices matching filter, newest first
func (s *CollectionService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter receivables.InvoiceFilter, asOf time.Time) ([]receivables.InvoiceView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "list_invoices")
	defer span.End()

	var (
		invoices []receivables.Invoice
		err      error
	)
	if filter.CustomerID != nil {
		invoices, err = s.invoices.FindByCustomer(ctx, tenantID, *filter.CustomerID)
	} else {
		invoices, err = s.invoices.FindAllForTenant(ctx, tenantID)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	views := receivables.FilterInvoices(invoices, asOf, filter)
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(views))
	return views, nil
}

// DeleteInvoice soft-deletes an invoice. An invoice with payments is only
// deleted when confirm is set.
func (s *CollectionService) DeleteInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, confirm bool) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "delete_invoice")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceID, invoiceID.String())

	err := s.withInvoiceLock(ctx, tenantID, invoiceID, func() error {
		invoice, err := s.invoices.FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if invoice.IsDeleted() {
			return shared.ErrNotFound
		}
		if invoice.HasPayments() && !confirm {
			return shared.NewDomainError("HAS_PAYMENTS",
				fmt.Sprintf("Invoice %s has %d payment(s); confirm to delete", invoice.InvoiceNumber, len(invoice.Payments)))
		}
		deleted := invoice.MarkDeleted(s.now())
		if err := s.invoices.Save(ctx, &deleted); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		s.log(ctx).Info("invoice deleted",
			zap.String("invoice_id", invoiceID.String()),
			zap.Int("payments", len(invoice.Payments)),
		)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
	}
	return err
}
