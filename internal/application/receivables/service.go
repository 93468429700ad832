package receivables

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/infrastructure/logger"
	"github.com/printpay/receivables/internal/infrastructure/telemetry"
)

// InvoiceLocker serializes writes to a single invoice. The returned release
// function must be called exactly once.
type InvoiceLocker interface {
	Lock(ctx context.Context, tenantID, invoiceID uuid.UUID) (release func(), err error)
}

// Dependencies groups the collaborators of CollectionService
type Dependencies struct {
	Customers receivables.CustomerRepository
	Invoices  receivables.InvoiceRepository
	FollowUps receivables.FollowUpRepository
	Settings  receivables.ReminderSettingsRepository
	Locker    InvoiceLocker
	Publisher shared.EventPublisher
	Metrics   *telemetry.CollectionMetrics
	Logger    *zap.Logger
}

// Options tunes CollectionService behavior
type Options struct {
	Ledger          receivables.LedgerPolicy
	DefaultSettings receivables.ReminderSettings
	MessageTemplate string
	RiskWorkers     int
	Now             func() time.Time
}

// CollectionService loads receivables snapshots, runs them through the
// engine and persists the results.
type CollectionService struct {
	customers receivables.CustomerRepository
	invoices  receivables.InvoiceRepository
	followUps receivables.FollowUpRepository
	settings  receivables.ReminderSettingsRepository
	locker    InvoiceLocker
	publisher shared.EventPublisher
	metrics   *telemetry.CollectionMetrics
	logger    *zap.Logger

	ledger          receivables.Ledger
	reminders       *receivables.ReminderScheduler
	defaultSettings receivables.ReminderSettings
	riskWorkers     int
	now             func() time.Time
}

// NewCollectionService creates a CollectionService. It fails if the reminder
// template or default settings are malformed.
func NewCollectionService(deps Dependencies, opts Options) (*CollectionService, error) {
	scheduler, err := receivables.NewReminderScheduler(opts.MessageTemplate)
	if err != nil {
		return nil, err
	}
	if err := opts.DefaultSettings.Validate(); err != nil {
		return nil, err
	}

	s := &CollectionService{
		customers:       deps.Customers,
		invoices:        deps.Invoices,
		followUps:       deps.FollowUps,
		settings:        deps.Settings,
		locker:          deps.Locker,
		publisher:       deps.Publisher,
		metrics:         deps.Metrics,
		logger:          deps.Logger,
		ledger:          receivables.NewLedger(opts.Ledger),
		reminders:       scheduler,
		defaultSettings: opts.DefaultSettings,
		riskWorkers:     opts.RiskWorkers,
		now:             opts.Now,
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewNoopCollectionMetrics()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.riskWorkers <= 0 {
		s.riskWorkers = 4
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

func (s *CollectionService) log(ctx context.Context) *zap.Logger {
	return logger.LOr(ctx, s.logger)
}

// withInvoiceLock runs fn while holding the invoice lock
func (s *CollectionService) withInvoiceLock(ctx context.Context, tenantID, invoiceID uuid.UUID, fn func() error) error {
	if s.locker == nil {
		return fn()
	}
	release, err := s.locker.Lock(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// publish hands events to the bus. The write has already been persisted, so
// a publish failure is logged and not returned.
func (s *CollectionService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.log(ctx).Warn("failed to publish domain events",
			zap.String("event_type", events[0].EventType()),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

// loadBook loads every live invoice and customer of a tenant
func (s *CollectionService) loadBook(ctx context.Context, tenantID uuid.UUID) ([]receivables.Customer, []receivables.Invoice, error) {
	customers, err := s.customers.FindAllForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, nil, err
	}
	invoices, err := s.invoices.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	return customers, invoices, nil
}
