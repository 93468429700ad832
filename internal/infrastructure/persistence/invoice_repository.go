package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceRepository using GORM. Payments
// are stored in their own table and always loaded with the invoice.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func preloadPayments(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC, created_at ASC")
}

// FindByIDForTenant finds an invoice by ID, deleted or not
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receivables.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Payments", preloadPayments).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	invoice := model.ToDomain()
	return &invoice, nil
}

// FindByPaymentID finds the invoice owning a payment
func (r *GormInvoiceRepository) FindByPaymentID(ctx context.Context, tenantID, paymentID uuid.UUID) (*receivables.Invoice, error) {
	var payment models.PaymentModel
	if err := r.db.WithContext(ctx).
		Select("invoice_id").
		Where("tenant_id = ? AND id = ?", tenantID, paymentID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByIDForTenant(ctx, tenantID, payment.InvoiceID)
}

// ExistsByNumber checks whether an invoice number is taken, counting deleted
// invoices too since the number stays reserved.
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant lists live invoices, newest first
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]receivables.Invoice, error) {
	return r.findLive(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	})
}

// FindByCustomer lists live invoices of one customer, newest first
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]receivables.Invoice, error) {
	return r.findLive(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	})
}

func (r *GormInvoiceRepository) findLive(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]receivables.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Payments", preloadPayments).
		Scopes(scope).
		Where("deleted_at IS NULL").
		Order("date DESC, invoice_number DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]receivables.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// CountByCustomer counts invoices of one customer, deleted ones included
func (r *GormInvoiceRepository) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Count(&count).Error
	return count, err
}

// TenantIDs lists tenants that have at least one live invoice
func (r *GormInvoiceRepository) TenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("deleted_at IS NULL").
		Distinct().
		Pluck("tenant_id", &ids).Error
	return ids, err
}

// Save writes the invoice row and upserts its payments in one transaction
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *receivables.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	payments := model.Payments
	model.Payments = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if len(payments) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&payments).Error
	})
}
