package receivables

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receivables.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivables.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receivables.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]receivables.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *receivables.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receivables.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivables.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByPaymentID(ctx context.Context, tenantID, paymentID uuid.UUID) (*receivables.Invoice, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivables.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]receivables.Invoice, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]receivables.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]receivables.Invoice, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).([]receivables.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *receivables.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

type MockFollowUpRepository struct {
	mock.Mock
}

func (m *MockFollowUpRepository) Append(ctx context.Context, followUp *receivables.FollowUp) error {
	return m.Called(ctx, followUp).Error(0)
}

func (m *MockFollowUpRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]receivables.FollowUp, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]receivables.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]receivables.FollowUp, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).([]receivables.FollowUp), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, tenantID uuid.UUID) (*receivables.ReminderSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receivables.ReminderSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, tenantID uuid.UUID, settings receivables.ReminderSettings) error {
	return m.Called(ctx, tenantID, settings).Error(0)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// countingLocker counts lock and release calls
type countingLocker struct {
	mu       sync.Mutex
	locked   int
	released int
	err      error
}

func (l *countingLocker) Lock(_ context.Context, _, _ uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.locked++
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}
