package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tms/backend/internal/domain/pricing"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

var pricingRuleSortFields = map[string]bool{
	"name":       true,
	"priority":   true,
	"created_at": true,
	"updated_at": true,
}

// GormPricingRuleRepository implements pricing.PricingRuleRepository using GORM
type GormPricingRuleRepository struct {
	db *gorm.DB
}

// NewGormPricingRuleRepository creates a new GormPricingRuleRepository
func NewGormPricingRuleRepository(db *gorm.DB) *GormPricingRuleRepository {
	return &GormPricingRuleRepository{db: db}
}

// FindByID finds a pricing rule by its ID
func (r *GormPricingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	var model models.PricingRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a pricing rule by ID within a tenant
func (r *GormPricingRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.PricingRule, error) {
	var model models.PricingRuleModel
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

// FindEnabled returns the tenant's enabled rules ordered by priority
func (r *GormPricingRuleRepository) FindEnabled(ctx context.Context, tenantID uuid.UUID) ([]pricing.PricingRule, error) {
	query := r.db.WithContext(ctx).Model(&models.PricingRuleModel{}).
		Where("tenant_id = ? AND is_enabled = ?", tenantID, true).
		Order("priority ASC, created_at ASC")
	return r.find(query)
}

// FindAll finds all pricing rules matching the filter
func (r *GormPricingRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.PricingRule, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PricingRuleModel{}), filter)
	return r.find(query)
}

// FindAllForTenant finds all pricing rules for a tenant
func (r *GormPricingRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pricing.PricingRule, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PricingRuleModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.find(query)
}

// Save creates or updates a pricing rule
func (r *GormPricingRuleRepository) Save(ctx context.Context, rule *pricing.PricingRule) error {
	model := models.PricingRuleModelFromDomain(rule)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a pricing rule
func (r *GormPricingRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PricingRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts pricing rules matching the filter
func (r *GormPricingRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.PricingRuleModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts pricing rules for a tenant
func (r *GormPricingRuleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&models.PricingRuleModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPricingRuleRepository) find(query *gorm.DB) ([]pricing.PricingRule, error) {
	var rows []models.PricingRuleModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	rules := make([]pricing.PricingRule, len(rows))
	for i := range rows {
		rules[i] = *rows[i].ToDomain()
	}
	return rules, nil
}

// applyFilter applies search, additional filters, ordering, and pagination
func (r *GormPricingRuleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyOrdering(query, filter, pricingRuleSortFields, "priority")
	return applyPagination(query, filter)
}

// applySearch applies search and additional filters without pagination
func (r *GormPricingRuleRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ?", pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "is_enabled":
			query = query.Where("is_enabled = ?", value)
		case "action":
			query = query.Where("action = ?", value)
		}
	}
	return query
}

// Ensure GormPricingRuleRepository implements PricingRuleRepository
var _ pricing.PricingRuleRepository = (*GormPricingRuleRepository)(nil)
