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

// AddFollowUp appends an entry to the collections log. A referenced invoice
// must belong to the same customer.
func (s *CollectionService) AddFollowUp(ctx context.Context, tenantID uuid.UUID, in receivables.NewFollowUpInput) (*receivables.FollowUp, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "add_follow_up")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, in.CustomerID.String())

	followUp, err := receivables.NewFollowUp(tenantID, in, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if _, err := s.requireCustomer(ctx, tenantID, followUp.CustomerID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if followUp.InvoiceID != nil {
		invoice, err := s.invoices.FindByIDForTenant(ctx, tenantID, *followUp.InvoiceID)
		switch {
		case shared.IsNotFound(err):
			err = shared.NewValidationError("NOT_FOUND", "Invoice does not exist")
		case err != nil:
			err = fmt.Errorf("failed to get invoice: %w", err)
		case invoice.CustomerID != followUp.CustomerID:
			err = shared.NewValidationError("CUSTOMER_MISMATCH", "Invoice belongs to a different customer")
		}
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.followUps.Append(ctx, &followUp); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save follow-up: %w", err)
	}

	s.log(ctx).Info("follow-up logged",
		zap.String("customer_id", followUp.CustomerID.String()),
		zap.String("mode", string(followUp.Mode)),
		zap.String("status", string(followUp.Status)),
	)
	return &followUp, nil
}

// ListFollowUps lists a customer's follow-ups, newest first
func (s *CollectionService) ListFollowUps(ctx context.Context, tenantID, customerID uuid.UUID) ([]receivables.FollowUp, error) {
	return s.followUps.FindByCustomer(ctx, tenantID, customerID)
}

// FollowUpsDue lists follow-ups scheduled for asOf
func (s *CollectionService) FollowUpsDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]receivables.FollowUp, error) {
	followUps, err := s.followUps.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}
	return receivables.FollowUpsDue(followUps, asOf), nil
}

// GetReminderSettings returns the tenant's reminder settings, falling back
// to the configured defaults when none are stored.
func (s *CollectionService) GetReminderSettings(ctx context.Context, tenantID uuid.UUID) (receivables.ReminderSettings, error) {
	settings, err := s.settings.Get(ctx, tenantID)
	if err != nil {
		if shared.IsNotFound(err) {
			return s.defaultSettings, nil
		}
		return receivables.ReminderSettings{}, fmt.Errorf("failed to get reminder settings: %w", err)
	}
	return *settings, nil
}

// UpdateReminderSettings validates and stores the tenant's reminder settings
func (s *CollectionService) UpdateReminderSettings(ctx context.Context, tenantID uuid.UUID, settings receivables.ReminderSettings) (receivables.ReminderSettings, error) {
	if err := settings.Validate(); err != nil {
		return receivables.ReminderSettings{}, err
	}
	if err := s.settings.Save(ctx, tenantID, settings); err != nil {
		return receivables.ReminderSettings{}, fmt.Errorf("failed to save reminder settings: %w", err)
	}
	s.log(ctx).Info("reminder settings updated",
		zap.Int("days_before_due", settings.DaysBeforeDue),
		zap.Bool("remind_on_due", settings.RemindOnDue),
		zap.Int("days_after_due_repeat", settings.DaysAfterDueRepeat),
	)
	return settings, nil
}
