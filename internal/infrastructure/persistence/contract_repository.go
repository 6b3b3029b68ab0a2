package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tms/backend/internal/domain/pricing"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

var contractSortFields = map[string]bool{
	"contract_number": true,
	"status":          true,
	"valid_from":      true,
	"valid_until":     true,
	"created_at":      true,
	"updated_at":      true,
}

// GormContractRepository implements pricing.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Contract, error) {
	var model models.ContractModel
	if err := r.preloaded(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a contract by ID within a tenant
func (r *GormContractRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.Contract, error) {
	var model models.ContractModel
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

// FindByNumber finds a contract by its number within a tenant
func (r *GormContractRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, contractNumber string) (*pricing.Contract, error) {
	var model models.ContractModel
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND contract_number = ?", tenantID, contractNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByPartner finds the partner's contracts valid at the given time
func (r *GormContractRepository) FindActiveByPartner(ctx context.Context, tenantID, partnerID uuid.UUID, at time.Time) ([]pricing.Contract, error) {
	query := r.preloaded(ctx).Model(&models.ContractModel{}).
		Where("tenant_id = ? AND partner_id = ? AND status = ? AND valid_from <= ? AND valid_until >= ?",
			tenantID, partnerID, pricing.ContractStatusActive, at, at).
		Order("valid_from ASC")
	return r.find(query)
}

// FindActiveExpiredBefore finds contracts still marked active whose validity
// window ended before the given time
func (r *GormContractRepository) FindActiveExpiredBefore(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]pricing.Contract, error) {
	query := r.preloaded(ctx).Model(&models.ContractModel{}).
		Where("tenant_id = ? AND status = ? AND valid_until < ?",
			tenantID, pricing.ContractStatusActive, asOf).
		Order("valid_until ASC")
	return r.find(query)
}

// FindAll finds all contracts matching the filter
func (r *GormContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.Contract, error) {
	query := r.applyFilter(r.preloaded(ctx).Model(&models.ContractModel{}), filter)
	return r.find(query)
}

// FindAllForTenant finds all contracts for a tenant
func (r *GormContractRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pricing.Contract, error) {
	query := r.applyFilter(
		r.preloaded(ctx).Model(&models.ContractModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.find(query)
}

// Save creates or updates a contract with its rates and surcharges
func (r *GormContractRepository) Save(ctx context.Context, c *pricing.Contract) error {
	model := models.ContractModelFromDomain(c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return r.replaceChildren(tx, model)
	})
}

// SaveWithLock persists the contract with an optimistic concurrency check
func (r *GormContractRepository) SaveWithLock(ctx context.Context, c *pricing.Contract, expectedVersion int) error {
	model := models.ContractModelFromDomain(c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ContractModel{}).
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

// Delete deletes a contract; rates and surcharges cascade at the database level
func (r *GormContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContractModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts contracts matching the filter
func (r *GormContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts contracts for a tenant
func (r *GormContractRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&models.ContractModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormContractRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Rates").
		Preload("Surcharges")
}

func (r *GormContractRepository) find(query *gorm.DB) ([]pricing.Contract, error) {
	var rows []models.ContractModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	contracts := make([]pricing.Contract, len(rows))
	for i := range rows {
		contracts[i] = *rows[i].ToDomain()
	}
	return contracts, nil
}

func (r *GormContractRepository) replaceChildren(tx *gorm.DB, model *models.ContractModel) error {
	if err := tx.Where("contract_id = ?", model.ID).Delete(&models.RateModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("contract_id = ?", model.ID).Delete(&models.SurchargeModel{}).Error; err != nil {
		return err
	}
	if len(model.Rates) > 0 {
		if err := tx.Create(&model.Rates).Error; err != nil {
			return err
		}
	}
	if len(model.Surcharges) > 0 {
		if err := tx.Create(&model.Surcharges).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilter applies search, additional filters, ordering, and pagination
func (r *GormContractRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyOrdering(query, filter, contractSortFields, "created_at")
	return applyPagination(query, filter)
}

// applySearch applies search and additional filters without pagination
func (r *GormContractRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("contract_number ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "partner_id":
			query = query.Where("partner_id = ?", value)
		case "valid_at":
			query = query.Where("valid_from <= ? AND valid_until >= ?", value, value)
		}
	}
	return query
}

// Ensure GormContractRepository implements ContractRepository
var _ pricing.ContractRepository = (*GormContractRepository)(nil)
