// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFleetMetricsProvider implements FleetMetricsProvider using GORM.
// It queries the shipments, tours, and invoices tables directly for
// aggregated metrics.
type GormFleetMetricsProvider struct {
	db *gorm.DB
}

// NewGormFleetMetricsProvider creates a new GormFleetMetricsProvider.
func NewGormFleetMetricsProvider(db *gorm.DB) *GormFleetMetricsProvider {
	return &GormFleetMetricsProvider{db: db}
}

// GetShipmentCountByStatus returns shipment counts keyed by status for a tenant.
func (p *GormFleetMetricsProvider) GetShipmentCountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("shipments").
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}

	return m, nil
}

// GetToursInProgressCount returns the number of tours currently underway for a tenant.
func (p *GormFleetMetricsProvider) GetToursInProgressCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("tours").
		Where("tenant_id = ? AND status = ?", tenantID, "in_progress").
		Count(&count).Error

	return count, err
}

// GetOverdueInvoiceCount returns the number of unpaid invoices past their due date for a tenant.
func (p *GormFleetMetricsProvider) GetOverdueInvoiceCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("invoices").
		Where("tenant_id = ? AND due_date < NOW() AND status IN ('sent', 'partially_paid')", tenantID).
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all active tenant IDs.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tenants").
		Select("id").
		Where("status = ?", "active").
		Find(&ids).Error

	return ids, err
}
