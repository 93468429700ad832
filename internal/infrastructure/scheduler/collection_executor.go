package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared/valueobject"
)

// CollectionJobs is the part of the collection service the daily jobs use
type CollectionJobs interface {
	DispatchReminders(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]receivables.Reminder, error)
	DuePDCs(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]receivables.Payment, error)
}

// CollectionExecutor runs reminder dispatch and PDC alert jobs
type CollectionExecutor struct {
	service CollectionJobs
	logger  *zap.Logger
}

// NewCollectionExecutor creates an executor backed by service
func NewCollectionExecutor(service CollectionJobs, logger *zap.Logger) *CollectionExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionExecutor{service: service, logger: logger}
}

// Execute dispatches on the job kind
func (e *CollectionExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Kind {
	case JobKindReminderDispatch:
		return e.dispatchReminders(ctx, job)
	case JobKindPDCAlert:
		return e.alertPDCs(ctx, job)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}
}

func (e *CollectionExecutor) dispatchReminders(ctx context.Context, job *Job) error {
	reminders, err := e.service.DispatchReminders(ctx, job.TenantID, job.AsOf)
	if err != nil {
		return fmt.Errorf("dispatch reminders: %w", err)
	}
	e.logger.Info("Reminders dispatched",
		zap.String("tenant_id", job.TenantID.String()),
		zap.Int("count", len(reminders)),
	)
	return nil
}

func (e *CollectionExecutor) alertPDCs(ctx context.Context, job *Job) error {
	cheques, err := e.service.DuePDCs(ctx, job.TenantID, job.AsOf)
	if err != nil {
		return fmt.Errorf("load due cheques: %w", err)
	}
	for _, p := range cheques {
		e.logger.Warn("Post-dated cheque due for deposit",
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("payment_id", p.ID.String()),
			zap.String("invoice_id", p.InvoiceID.String()),
			zap.String("cheque_number", p.Cheque.ChequeNumber),
			zap.String("bank", p.Cheque.BankName),
			zap.String("deposit_date", p.Cheque.DepositDate.Format(time.DateOnly)),
			zap.String("amount", valueobject.FormatAmount(p.Amount)),
		)
	}
	return nil
}
