package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetTenantID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// TenantEntity provides common fields for tenant-scoped entities.
// Timestamps are supplied by the caller; the domain never reads the clock.
type TenantEntity struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the entity ID
func (e *TenantEntity) GetID() uuid.UUID {
	return e.ID
}

// GetTenantID returns the owning tenant
func (e *TenantEntity) GetTenantID() uuid.UUID {
	return e.TenantID
}

// GetCreatedAt returns the creation timestamp
func (e *TenantEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *TenantEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch returns a copy with UpdatedAt set to at
func (e TenantEntity) Touch(at time.Time) TenantEntity {
	e.UpdatedAt = at
	return e
}

// NewTenantEntity creates a new tenant entity with a generated ID
func NewTenantEntity(tenantID uuid.UUID, at time.Time) TenantEntity {
	return TenantEntity{
		ID:        uuid.New(),
		TenantID:  tenantID,
		CreatedAt: at,
		UpdatedAt: at,
	}
}
