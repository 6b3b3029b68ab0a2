package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tms/backend/internal/domain/refdata"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

var refdataSortFields = map[string]bool{
	"category":   true,
	"code":       true,
	"label":      true,
	"sort_order": true,
	"created_at": true,
	"updated_at": true,
}

// GormEntryRepository implements refdata.EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// FindByID finds a reference data entry by its ID
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*refdata.Entry, error) {
	var model models.ReferenceDataModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a reference data entry by ID within a tenant
func (r *GormEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*refdata.Entry, error) {
	var model models.ReferenceDataModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCategoryAndCode resolves one entry by its natural key
func (r *GormEntryRepository) FindByCategoryAndCode(ctx context.Context, tenantID uuid.UUID, category refdata.Category, code string) (*refdata.Entry, error) {
	var model models.ReferenceDataModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND category = ? AND code = ?", tenantID, category, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCategory lists a category's entries ordered by sort order then code
func (r *GormEntryRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category refdata.Category, includeInactive bool) ([]refdata.Entry, error) {
	query := r.db.WithContext(ctx).Model(&models.ReferenceDataModel{}).
		Where("tenant_id = ? AND category = ?", tenantID, category)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	return r.find(query.Order("sort_order ASC, code ASC"))
}

// FindChildren lists the direct children of an entry
func (r *GormEntryRepository) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]refdata.Entry, error) {
	query := r.db.WithContext(ctx).Model(&models.ReferenceDataModel{}).
		Where("tenant_id = ? AND parent_id = ?", tenantID, parentID).
		Order("sort_order ASC, code ASC")
	return r.find(query)
}

// ExistsByCategoryAndCode checks the natural key for uniqueness
func (r *GormEntryRepository) ExistsByCategoryAndCode(ctx context.Context, tenantID uuid.UUID, category refdata.Category, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReferenceDataModel{}).
		Where("tenant_id = ? AND category = ? AND code = ?", tenantID, category, code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all reference data entries matching the filter
func (r *GormEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]refdata.Entry, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReferenceDataModel{}), filter)
	return r.find(query)
}

// FindAllForTenant finds all reference data entries for a tenant
func (r *GormEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]refdata.Entry, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ReferenceDataModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.find(query)
}

// Save creates or updates a reference data entry
func (r *GormEntryRepository) Save(ctx context.Context, e *refdata.Entry) error {
	model := models.ReferenceDataModelFromDomain(e)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a reference data entry
func (r *GormEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReferenceDataModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts reference data entries matching the filter
func (r *GormEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.ReferenceDataModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts reference data entries for a tenant
func (r *GormEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&models.ReferenceDataModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormEntryRepository) find(query *gorm.DB) ([]refdata.Entry, error) {
	var rows []models.ReferenceDataModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]refdata.Entry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// applyFilter applies search, additional filters, ordering, and pagination
func (r *GormEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyOrdering(query, filter, refdataSortFields, "sort_order")
	return applyPagination(query, filter)
}

// applySearch applies search and additional filters without pagination
func (r *GormEntryRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR label ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "is_system":
			query = query.Where("is_system = ?", value)
		case "parent_id":
			query = query.Where("parent_id = ?", value)
		}
	}
	return query
}

// Ensure GormEntryRepository implements EntryRepository
var _ refdata.EntryRepository = (*GormEntryRepository)(nil)
