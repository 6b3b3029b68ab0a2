package scheduler

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tms/backend/internal/domain/identity"
)

// GormTenantProvider implements TenantProvider by querying the tenants table
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetAllActiveTenantIDs returns the IDs of all active tenants
func (p *GormTenantProvider) GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tenants").
		Select("id").
		Where("status = ?", identity.TenantStatusActive).
		Find(&ids).Error

	return ids, err
}

// Ensure GormTenantProvider implements TenantProvider
var _ TenantProvider = (*GormTenantProvider)(nil)
