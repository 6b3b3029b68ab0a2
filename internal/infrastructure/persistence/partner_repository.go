package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tms/backend/internal/domain/partner"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

var partnerSortFields = map[string]bool{
	"code":       true,
	"name":       true,
	"type":       true,
	"status":     true,
	"created_at": true,
	"updated_at": true,
}

// GormPartnerRepository implements partner.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.preloaded(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a partner by ID within a tenant
func (r *GormPartnerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
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

// FindByCode finds a partner by its code within a tenant
func (r *GormPartnerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all partners matching the filter
func (r *GormPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, error) {
	query := r.applyFilter(r.preloaded(ctx).Model(&models.PartnerModel{}), filter)
	return r.find(query)
}

// FindAllForTenant finds all partners for a tenant
func (r *GormPartnerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Partner, error) {
	query := r.applyFilter(
		r.preloaded(ctx).Model(&models.PartnerModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.find(query)
}

// FindByType lists partners of a given type within a tenant
func (r *GormPartnerRepository) FindByType(ctx context.Context, tenantID uuid.UUID, partnerType partner.PartnerType, filter shared.Filter) ([]partner.Partner, error) {
	query := r.applyFilter(
		r.preloaded(ctx).Model(&models.PartnerModel{}).
			Where("tenant_id = ? AND type = ?", tenantID, partnerType),
		filter,
	)
	return r.find(query)
}

// Save creates or updates a partner with all its sub-entities
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	model := models.PartnerModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return r.replaceChildren(tx, model)
	})
}

// SaveWithLock persists the partner with an optimistic concurrency check
func (r *GormPartnerRepository) SaveWithLock(ctx context.Context, p *partner.Partner, expectedVersion int) error {
	model := models.PartnerModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PartnerModel{}).
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

// Delete deletes a partner; owned rows cascade at the database level
func (r *GormPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PartnerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts partners matching the filter
func (r *GormPartnerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.PartnerModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts partners for a tenant
func (r *GormPartnerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&models.PartnerModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPartnerRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Addresses").
		Preload("Contacts").
		Preload("Sites").
		Preload("Vehicles").
		Preload("Drivers").
		Preload("Documents")
}

func (r *GormPartnerRepository) find(query *gorm.DB) ([]partner.Partner, error) {
	var rows []models.PartnerModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	partners := make([]partner.Partner, len(rows))
	for i := range rows {
		partners[i] = *rows[i].ToDomain()
	}
	return partners, nil
}

// replaceChildren replaces all owned sub-entity rows with the aggregate's
// current state. Removed children disappear, new ones are inserted.
func (r *GormPartnerRepository) replaceChildren(tx *gorm.DB, model *models.PartnerModel) error {
	deletions := []interface{}{
		&models.AddressModel{},
		&models.ContactModel{},
		&models.SiteModel{},
		&models.VehicleModel{},
		&models.DriverModel{},
		&models.PartnerDocumentModel{},
	}
	for _, child := range deletions {
		if err := tx.Where("partner_id = ?", model.ID).Delete(child).Error; err != nil {
			return err
		}
	}
	if len(model.Addresses) > 0 {
		if err := tx.Create(&model.Addresses).Error; err != nil {
			return err
		}
	}
	if len(model.Contacts) > 0 {
		if err := tx.Create(&model.Contacts).Error; err != nil {
			return err
		}
	}
	if len(model.Sites) > 0 {
		if err := tx.Create(&model.Sites).Error; err != nil {
			return err
		}
	}
	if len(model.Vehicles) > 0 {
		if err := tx.Create(&model.Vehicles).Error; err != nil {
			return err
		}
	}
	if len(model.Drivers) > 0 {
		if err := tx.Create(&model.Drivers).Error; err != nil {
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
func (r *GormPartnerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyOrdering(query, filter, partnerSortFields, "created_at")
	return applyPagination(query, filter)
}

// applySearch applies search and additional filters without pagination
func (r *GormPartnerRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR vat_number ILIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		case "country":
			query = query.Where("id IN (SELECT partner_id FROM partner_addresses WHERE country = ?)", value)
		}
	}
	return query
}

// Ensure GormPartnerRepository implements PartnerRepository
var _ partner.PartnerRepository = (*GormPartnerRepository)(nil)
