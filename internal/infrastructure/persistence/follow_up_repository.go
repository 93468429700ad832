package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/infrastructure/persistence/models"
)

// GormFollowUpRepository implements FollowUpRepository using GORM.
// The log is append-only.
type GormFollowUpRepository struct {
	db *gorm.DB
}

// NewGormFollowUpRepository creates a new GormFollowUpRepository
func NewGormFollowUpRepository(db *gorm.DB) *GormFollowUpRepository {
	return &GormFollowUpRepository{db: db}
}

// Append inserts a follow-up entry
func (r *GormFollowUpRepository) Append(ctx context.Context, followUp *receivables.FollowUp) error {
	return r.db.WithContext(ctx).Create(models.FollowUpModelFromDomain(followUp)).Error
}

// FindAllForTenant lists all follow-ups of a tenant, newest first
func (r *GormFollowUpRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]receivables.FollowUp, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("tenant_id = ?", tenantID))
}

// FindByCustomer lists a customer's follow-ups, newest first
func (r *GormFollowUpRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]receivables.FollowUp, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("tenant_id = ? AND customer_id = ?", tenantID, customerID))
}

func (r *GormFollowUpRepository) find(_ context.Context, query *gorm.DB) ([]receivables.FollowUp, error) {
	var followUpModels []models.FollowUpModel
	if err := query.Order("date DESC, created_at DESC").Find(&followUpModels).Error; err != nil {
		return nil, err
	}
	followUps := make([]receivables.FollowUp, len(followUpModels))
	for i := range followUpModels {
		followUps[i] = followUpModels[i].ToDomain()
	}
	return followUps, nil
}
