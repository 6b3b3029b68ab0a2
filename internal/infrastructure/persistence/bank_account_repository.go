package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tms/backend/internal/domain/billing"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

var bankAccountSortFields = map[string]bool{
	"holder_name": true,
	"bank_name":   true,
	"created_at":  true,
	"updated_at":  true,
}

// GormBankAccountRepository implements billing.BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// FindByID finds a bank account by its ID
func (r *GormBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BankAccount, error) {
	var model models.BankAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a bank account by ID within a tenant
func (r *GormBankAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.BankAccount, error) {
	var model models.BankAccountModel
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

// FindByPartner finds all bank accounts of a partner
func (r *GormBankAccountRepository) FindByPartner(ctx context.Context, tenantID, partnerID uuid.UUID) ([]billing.BankAccount, error) {
	query := r.db.WithContext(ctx).Model(&models.BankAccountModel{}).
		Where("tenant_id = ? AND partner_id = ?", tenantID, partnerID).
		Order("is_default DESC, created_at ASC")
	return r.find(query)
}

// FindAll finds all bank accounts matching the filter
func (r *GormBankAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.BankAccount, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BankAccountModel{}), filter)
	return r.find(query)
}

// FindAllForTenant finds all bank accounts for a tenant
func (r *GormBankAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.BankAccount, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.BankAccountModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.find(query)
}

// Save creates or updates a bank account
func (r *GormBankAccountRepository) Save(ctx context.Context, a *billing.BankAccount) error {
	model := models.BankAccountModelFromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a bank account
func (r *GormBankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BankAccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts bank accounts matching the filter
func (r *GormBankAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.BankAccountModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts bank accounts for a tenant
func (r *GormBankAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&models.BankAccountModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBankAccountRepository) find(query *gorm.DB) ([]billing.BankAccount, error) {
	var rows []models.BankAccountModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]billing.BankAccount, len(rows))
	for i := range rows {
		accounts[i] = *rows[i].ToDomain()
	}
	return accounts, nil
}

// applyFilter applies search, additional filters, ordering, and pagination
func (r *GormBankAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyOrdering(query, filter, bankAccountSortFields, "created_at")
	return applyPagination(query, filter)
}

// applySearch applies search and additional filters without pagination
func (r *GormBankAccountRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("holder_name ILIKE ? OR bank_name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "partner_id":
			query = query.Where("partner_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

// Ensure GormBankAccountRepository implements BankAccountRepository
var _ billing.BankAccountRepository = (*GormBankAccountRepository)(nil)
