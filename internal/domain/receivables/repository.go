package receivables

import (
	"context"

	"github.com/google/uuid"

	"github.com/printpay/receivables/internal/domain/shared"
)

var (
	_ shared.Entity = (*Customer)(nil)
	_ shared.Entity = (*Invoice)(nil)
	_ shared.Entity = (*Payment)(nil)
	_ shared.Entity = (*FollowUp)(nil)
)

// CustomerRepository defines persistence for customers
type CustomerRepository interface {
	// FindByIDForTenant finds a customer by ID for a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindAllForTenant lists customers for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// DeleteForTenant deletes a customer
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// InvoiceRepository defines persistence for invoices and their embedded payments
type InvoiceRepository interface {
	// FindByIDForTenant finds an invoice by ID, including deleted invoices
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByPaymentID finds the invoice owning a payment
	FindByPaymentID(ctx context.Context, tenantID, paymentID uuid.UUID) (*Invoice, error)

	// ExistsByNumber checks whether an invoice number is taken for the tenant
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (bool, error)

	// FindAllForTenant lists live invoices for a tenant with their payments
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Invoice, error)

	// FindByCustomer lists live invoices for one customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]Invoice, error)

	// CountByCustomer counts invoices for one customer, deleted ones included
	CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)

	// Save creates or updates an invoice and its payments atomically
	Save(ctx context.Context, invoice *Invoice) error
}

// FollowUpRepository defines persistence for the append-only follow-up log
type FollowUpRepository interface {
	// Append adds a follow-up entry
	Append(ctx context.Context, followUp *FollowUp) error

	// FindAllForTenant lists all follow-ups for a tenant, newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]FollowUp, error)

	// FindByCustomer lists follow-ups for a customer, newest first
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]FollowUp, error)
}

// ReminderSettingsRepository stores per-tenant reminder settings
type ReminderSettingsRepository interface {
	// Get returns the tenant's settings, or shared.ErrNotFound if none are stored
	Get(ctx context.Context, tenantID uuid.UUID) (*ReminderSettings, error)

	// Save stores the tenant's settings
	Save(ctx context.Context, tenantID uuid.UUID, settings ReminderSettings) error
}
