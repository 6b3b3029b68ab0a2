package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tms/backend/internal/domain/billing"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

var carrierInvoiceSortFields = map[string]bool{
	"invoice_number": true,
	"status":         true,
	"invoice_date":   true,
	"received_at":    true,
	"created_at":     true,
	"updated_at":     true,
}

// GormCarrierInvoiceRepository implements billing.CarrierInvoiceRepository using GORM
type GormCarrierInvoiceRepository struct {
	db *gorm.DB
}

// NewGormCarrierInvoiceRepository creates a new GormCarrierInvoiceRepository
func NewGormCarrierInvoiceRepository(db *gorm.DB) *GormCarrierInvoiceRepository {
	return &GormCarrierInvoiceRepository{db: db}
}

// FindByID finds a carrier invoice by its ID
func (r *GormCarrierInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CarrierInvoice, error) {
	var model models.CarrierInvoiceModel
	if err := r.preloaded(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a carrier invoice by ID within a tenant
func (r *GormCarrierInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.CarrierInvoice, error) {
	var model models.CarrierInvoiceModel
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

// FindByCarrierAndNumber finds a carrier invoice by the carrier's own invoice number
func (r *GormCarrierInvoiceRepository) FindByCarrierAndNumber(ctx context.Context, tenantID, carrierID uuid.UUID, invoiceNumber string) (*billing.CarrierInvoice, error) {
	var model models.CarrierInvoiceModel
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND carrier_id = ? AND invoice_number = ?", tenantID, carrierID, invoiceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus finds carrier invoices in a given workflow status
func (r *GormCarrierInvoiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status billing.CarrierInvoiceStatus, filter shared.Filter) ([]billing.CarrierInvoice, error) {
	query := r.applyFilter(
		r.preloaded(ctx).Model(&models.CarrierInvoiceModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	return r.find(query)
}

// FindAll finds all carrier invoices matching the filter
func (r *GormCarrierInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.CarrierInvoice, error) {
	query := r.applyFilter(r.preloaded(ctx).Model(&models.CarrierInvoiceModel{}), filter)
	return r.find(query)
}

// FindAllForTenant finds all carrier invoices for a tenant
func (r *GormCarrierInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.CarrierInvoice, error) {
	query := r.applyFilter(
		r.preloaded(ctx).Model(&models.CarrierInvoiceModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.find(query)
}

// Save creates or updates a carrier invoice with its lines
func (r *GormCarrierInvoiceRepository) Save(ctx context.Context, ci *billing.CarrierInvoice) error {
	model := models.CarrierInvoiceModelFromDomain(ci)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return r.replaceLines(tx, model)
	})
}

// SaveWithLock persists the carrier invoice with an optimistic concurrency check
func (r *GormCarrierInvoiceRepository) SaveWithLock(ctx context.Context, ci *billing.CarrierInvoice, expectedVersion int) error {
	model := models.CarrierInvoiceModelFromDomain(ci)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CarrierInvoiceModel{}).
			Where("id = ? AND version = ?", model.ID, expectedVersion).
			Select("*").Omit("id", "created_at").Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.replaceLines(tx, model)
	})
}

// Delete deletes a carrier invoice; lines cascade at the database level
func (r *GormCarrierInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CarrierInvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts carrier invoices matching the filter
func (r *GormCarrierInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.CarrierInvoiceModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts carrier invoices for a tenant
func (r *GormCarrierInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&models.CarrierInvoiceModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCarrierInvoiceRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_number ASC")
	})
}

func (r *GormCarrierInvoiceRepository) find(query *gorm.DB) ([]billing.CarrierInvoice, error) {
	var rows []models.CarrierInvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]billing.CarrierInvoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

func (r *GormCarrierInvoiceRepository) replaceLines(tx *gorm.DB, model *models.CarrierInvoiceModel) error {
	if err := tx.Where("carrier_invoice_id = ?", model.ID).Delete(&models.CarrierInvoiceLineModel{}).Error; err != nil {
		return err
	}
	if len(model.Lines) == 0 {
		return nil
	}
	return tx.Create(&model.Lines).Error
}

// applyFilter applies search, additional filters, ordering, and pagination
func (r *GormCarrierInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyOrdering(query, filter, carrierInvoiceSortFields, "received_at")
	return applyPagination(query, filter)
}

// applySearch applies search and additional filters without pagination
func (r *GormCarrierInvoiceRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ?", pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "carrier_id":
			query = query.Where("carrier_id = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		case "has_anomalies":
			if value == true {
				query = query.Where("id IN (SELECT carrier_invoice_id FROM carrier_invoice_lines WHERE anomaly_type <> 'none')")
			}
		}
	}
	return query
}

// Ensure GormCarrierInvoiceRepository implements CarrierInvoiceRepository
var _ billing.CarrierInvoiceRepository = (*GormCarrierInvoiceRepository)(nil)
