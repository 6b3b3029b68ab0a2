package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shipment"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

var shipmentSortFields = map[string]bool{
	"shipment_number":     true,
	"status":              true,
	"planned_pickup_at":   true,
	"planned_delivery_at": true,
	"created_at":          true,
	"updated_at":          true,
}

// GormShipmentRepository implements shipment.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID finds a shipment by its ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	var model models.ShipmentModel
	if err := r.preloaded(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a shipment by ID within a tenant
func (r *GormShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*shipment.Shipment, error) {
	var model models.ShipmentModel
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a shipment by its number within a tenant
func (r *GormShipmentRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, shipmentNumber string) (*shipment.Shipment, error) {
	var model models.ShipmentModel
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND shipment_number = ?", tenantID, shipmentNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrder finds the shipment created from an order, if any
func (r *GormShipmentRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*shipment.Shipment, error) {
	var model models.ShipmentModel
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all shipments matching the filter
func (r *GormShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipment.Shipment, error) {
	query := r.applyFilter(r.preloaded(ctx).Model(&models.ShipmentModel{}), filter)
	return r.find(query)
}

// FindAllForTenant finds all shipments for a tenant
func (r *GormShipmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]shipment.Shipment, error) {
	query := r.applyFilter(
		r.preloaded(ctx).Model(&models.ShipmentModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.find(query)
}

// Save creates or updates a shipment with all its sub-entities
func (r *GormShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	model := models.ShipmentModelFromDomain(s)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return r.replaceChildren(tx, model)
	})
}

// SaveWithLock persists the shipment with an optimistic concurrency check
func (r *GormShipmentRepository) SaveWithLock(ctx context.Context, s *shipment.Shipment, expectedVersion int) error {
	model := models.ShipmentModelFromDomain(s)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ShipmentModel{}).
			Where("id = ? AND version = ?", model.ID, expectedVersion).
			Select("*").Omit("id", "created_at").Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.replaceChildren(tx, model)
	})
}

// Delete deletes a shipment; owned rows cascade at the database level
func (r *GormShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ShipmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts shipments matching the filter
func (r *GormShipmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.ShipmentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts shipments for a tenant
func (r *GormShipmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&models.ShipmentModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormShipmentRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_number ASC")
		}).
		Preload("Units").
		Preload("TrackingEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC")
		}).
		Preload("Documents")
}

func (r *GormShipmentRepository) find(query *gorm.DB) ([]shipment.Shipment, error) {
	var rows []models.ShipmentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	shipments := make([]shipment.Shipment, len(rows))
	for i := range rows {
		shipments[i] = *rows[i].ToDomain()
	}
	return shipments, nil
}

func (r *GormShipmentRepository) replaceChildren(tx *gorm.DB, model *models.ShipmentModel) error {
	deletions := []interface{}{
		&models.SegmentModel{},
		&models.TransportUnitModel{},
		&models.TrackingEventModel{},
		&models.ShipmentDocumentModel{},
	}
	for _, child := range deletions {
		if err := tx.Where("shipment_id = ?", model.ID).Delete(child).Error; err != nil {
			return err
		}
	}
	if len(model.Segments) > 0 {
		if err := tx.Create(&model.Segments).Error; err != nil {
			return err
		}
	}
	if len(model.Units) > 0 {
		if err := tx.Create(&model.Units).Error; err != nil {
			return err
		}
	}
	if len(model.TrackingEvents) > 0 {
		if err := tx.Create(&model.TrackingEvents).Error; err != nil {
			return err
		}
	}
	if len(model.Documents) > 0 {
		if err := tx.Create(&model.Documents).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilter applies search, additional filters, ordering, and pagination
func (r *GormShipmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyOrdering(query, filter, shipmentSortFields, "created_at")
	return applyPagination(query, filter)
}

// applySearch applies search and additional filters without pagination
func (r *GormShipmentRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("shipment_number ILIKE ? OR origin_address ILIKE ? OR destination_address ILIKE ?",
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "origin_country":
			query = query.Where("origin_country = ?", value)
		case "destination_country":
			query = query.Where("destination_country = ?", value)
		case "carrier_id":
			query = query.Where("id IN (SELECT shipment_id FROM shipment_segments WHERE carrier_id = ?)", value)
		}
	}
	return query
}

// Ensure GormShipmentRepository implements ShipmentRepository
var _ shipment.ShipmentRepository = (*GormShipmentRepository)(nil)
