package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ErrMeterNil is returned when a nil meter is passed to a metrics constructor
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Metric attribute keys
var (
	AttrTenantID     = attribute.Key("tenant_id")
	AttrPaymentMode  = attribute.Key("payment_mode")
	AttrChequeStatus = attribute.Key("cheque_status")
	AttrChannel      = attribute.Key("channel")
)

// CollectionMetrics counts collection activity: payments applied, cheque
// outcomes and reminders dispatched.
type CollectionMetrics struct {
	paymentsTotal      metric.Int64Counter
	paymentAmountTotal metric.Float64Counter
	chequesTotal       metric.Int64Counter
	remindersTotal     metric.Int64Counter
}

// NewCollectionMetrics registers the collection instruments on meter
func NewCollectionMetrics(meter metric.Meter) (*CollectionMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		m   CollectionMetrics
		err error
	)
	if m.paymentsTotal, err = meter.Int64Counter("receivables_payments_total",
		metric.WithDescription("Payments applied to invoices")); err != nil {
		return nil, err
	}
	if m.paymentAmountTotal, err = meter.Float64Counter("receivables_payment_amount_total",
		metric.WithDescription("Sum of applied payment amounts")); err != nil {
		return nil, err
	}
	if m.chequesTotal, err = meter.Int64Counter("receivables_cheque_transitions_total",
		metric.WithDescription("Cheques cleared or bounced")); err != nil {
		return nil, err
	}
	if m.remindersTotal, err = meter.Int64Counter("receivables_reminders_dispatched_total",
		metric.WithDescription("Reminders dispatched")); err != nil {
		return nil, err
	}
	return &m, nil
}

// NewNoopCollectionMetrics returns metrics that record nothing
func NewNoopCollectionMetrics() *CollectionMetrics {
	m, _ := NewCollectionMetrics(noop.NewMeterProvider().Meter(TracerName))
	return m
}

// RecordPayment counts an applied payment
func (m *CollectionMetrics) RecordPayment(ctx context.Context, tenantID, mode string, amount decimal.Decimal) {
	attrs := metric.WithAttributes(AttrTenantID.String(tenantID), AttrPaymentMode.String(mode))
	m.paymentsTotal.Add(ctx, 1, attrs)
	m.paymentAmountTotal.Add(ctx, amount.InexactFloat64(), attrs)
}

// RecordCheque counts a cheque transition
func (m *CollectionMetrics) RecordCheque(ctx context.Context, tenantID, status string) {
	m.chequesTotal.Add(ctx, 1, metric.WithAttributes(AttrTenantID.String(tenantID), AttrChequeStatus.String(status)))
}

// RecordReminder counts a dispatched reminder
func (m *CollectionMetrics) RecordReminder(ctx context.Context, tenantID, channel string) {
	m.remindersTotal.Add(ctx, 1, metric.WithAttributes(AttrTenantID.String(tenantID), AttrChannel.String(channel)))
}
