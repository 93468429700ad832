package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/infrastructure/persistence/models"
)

// GormReminderSettingsRepository stores one settings row per tenant
type GormReminderSettingsRepository struct {
	db *gorm.DB
}

// NewGormReminderSettingsRepository creates a new GormReminderSettingsRepository
func NewGormReminderSettingsRepository(db *gorm.DB) *GormReminderSettingsRepository {
	return &GormReminderSettingsRepository{db: db}
}

// Get returns the tenant's settings or shared.ErrNotFound
func (r *GormReminderSettingsRepository) Get(ctx context.Context, tenantID uuid.UUID) (*receivables.ReminderSettings, error) {
	var model models.ReminderSettingsModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	settings := model.ToDomain()
	return &settings, nil
}

// Save inserts or replaces the tenant's settings
func (r *GormReminderSettingsRepository) Save(ctx context.Context, tenantID uuid.UUID, settings receivables.ReminderSettings) error {
	model := models.ReminderSettingsModelFromDomain(tenantID, settings, time.Now())
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		UpdateAll: true,
	}).Create(model).Error
}
