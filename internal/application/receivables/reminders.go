package receivables

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/infrastructure/telemetry"
)

// DispatchReminders computes the reminders due on asOf and publishes one
// ReminderDue event per reminder. Delivery is left to event handlers.
func (s *CollectionService) DispatchReminders(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]receivables.Reminder, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "dispatch_reminders")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrAsOf, receivables.DateOnly(asOf).Format(time.DateOnly),
	)

	reminders, err := s.RemindersDue(ctx, tenantID, asOf)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.now()
	events := make([]shared.DomainEvent, 0, len(reminders))
	for _, r := range reminders {
		events = append(events, receivables.NewReminderDueEvent(tenantID, r, asOf, now))
		s.metrics.RecordReminder(ctx, tenantID.String(), string(r.Channel))
	}
	s.publish(ctx, events...)

	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(reminders))
	s.log(ctx).Info("reminders dispatched",
		zap.String("tenant_id", tenantID.String()),
		zap.String("as_of", receivables.DateOnly(asOf).Format(time.DateOnly)),
		zap.Int("count", len(reminders)),
	)
	return reminders, nil
}

// ReminderLogHandler records each dispatched reminder in the follow-up log
// as a Sent entry on the reminder's channel. Nothing is actually delivered.
type ReminderLogHandler struct {
	followUps receivables.FollowUpRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewReminderLogHandler creates a ReminderLogHandler
func NewReminderLogHandler(followUps receivables.FollowUpRepository, logger *zap.Logger) *ReminderLogHandler {
	return &ReminderLogHandler{
		followUps: followUps,
		logger:    logger,
		now:       time.Now,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ReminderLogHandler) EventTypes() []string {
	return []string{receivables.EventTypeReminderDue}
}

// Handle logs the reminder as a follow-up. A reminder already logged for the
// same invoice, channel and day is skipped so retried dispatches are harmless.
func (h *ReminderLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*receivables.ReminderDueEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", receivables.EventTypeReminderDue),
			zap.String("actual", event.EventType()),
		)
		return shared.NewValidationError("INVALID_INPUT", "unexpected event type: "+event.EventType())
	}

	mode := e.Channel.FollowUpMode()
	existing, err := h.followUps.FindByCustomer(ctx, e.TenantID(), e.CustomerID)
	if err != nil {
		return err
	}
	for _, f := range existing {
		if f.Status == receivables.FollowUpSent && f.Mode == mode &&
			f.InvoiceID != nil && *f.InvoiceID == e.InvoiceID &&
			receivables.SameDay(f.Date, e.AsOf) {
			h.logger.Debug("reminder already logged, skipping",
				zap.String("invoice_id", e.InvoiceID.String()),
				zap.String("channel", string(e.Channel)),
			)
			return nil
		}
	}

	invoiceID := e.InvoiceID
	followUp, err := receivables.NewFollowUp(e.TenantID(), receivables.NewFollowUpInput{
		CustomerID:    e.CustomerID,
		InvoiceID:     &invoiceID,
		Date:          e.AsOf,
		Mode:          mode,
		Status:        receivables.FollowUpSent,
		Notes:         e.Message,
		ContactPerson: e.Recipient,
	}, h.now())
	if err != nil {
		return err
	}
	if err := h.followUps.Append(ctx, &followUp); err != nil {
		h.logger.Error("failed to log reminder",
			zap.String("invoice_id", e.InvoiceID.String()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("reminder logged",
		zap.String("invoice_id", e.InvoiceID.String()),
		zap.String("invoice_number", e.InvoiceNumber),
		zap.String("channel", string(e.Channel)),
		zap.String("recipient", e.Recipient),
		zap.String("kind", string(e.Kind)),
	)
	return nil
}
