package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tms/backend/internal/domain/audit"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

// GormAuditLogRepository implements audit.LogRepository using GORM.
// The log is append-only: entries are never updated or deleted.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append writes a new audit log entry
func (r *GormAuditLogRepository) Append(ctx context.Context, entry *audit.LogEntry) error {
	model := models.AuditLogModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByEntity lists the audit trail of one entity, newest first
func (r *GormAuditLogRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID, filter shared.Filter) ([]audit.LogEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{}).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		Order("occurred_at DESC")
	return r.find(applyPagination(query, filter))
}

// FindByTenant lists a tenant's audit trail, newest first
func (r *GormAuditLogRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]audit.LogEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{}).
		Where("tenant_id = ?", tenantID)
	for key, value := range filter.Filters {
		switch key {
		case "action":
			query = query.Where("action = ?", value)
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		case "entity_type":
			query = query.Where("entity_type = ?", value)
		case "occurred_after":
			query = query.Where("occurred_at >= ?", value)
		case "occurred_before":
			query = query.Where("occurred_at <= ?", value)
		}
	}
	query = query.Order("occurred_at DESC")
	return r.find(applyPagination(query, filter))
}

func (r *GormAuditLogRepository) find(query *gorm.DB) ([]audit.LogEntry, error) {
	var rows []models.AuditLogModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]audit.LogEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// Ensure GormAuditLogRepository implements LogRepository
var _ audit.LogRepository = (*GormAuditLogRepository)(nil)
