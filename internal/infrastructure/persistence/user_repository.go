package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

var userSortFields = map[string]bool{
	"username":   true,
	"email":      true,
	"status":     true,
	"last_name":  true,
	"created_at": true,
	"updated_at": true,
}

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &model)
}

// FindByIDForTenant finds a user by ID within a tenant
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &model)
}

// FindByUsername finds a user by username within a tenant
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND username = ?", tenantID, username).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &model)
}

// FindByEmail finds a user by email within a tenant
func (r *GormUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &model)
}

// ExistsByUsername checks if a username is taken within a tenant
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("tenant_id = ? AND username = ?", tenantID, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)
	return r.find(ctx, query)
}

// FindAllForTenant finds all users for a tenant
func (r *GormUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.UserModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.find(ctx, query)
}

// Save creates or updates a user with its role assignments and preferences
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	model := models.UserModelFromDomain(u)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return r.syncAssociations(tx, u)
	})
}

// SaveWithLock persists the user with an optimistic concurrency check
func (r *GormUserRepository) SaveWithLock(ctx context.Context, u *identity.User, expectedVersion int) error {
	model := models.UserModelFromDomain(u)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.UserModel{}).
			Where("id = ? AND version = ?", model.ID, expectedVersion).
			Select("*").Omit("id", "created_at").Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.syncAssociations(tx, u)
	})
}

// Delete deletes a user; role assignments and preferences cascade at the database level
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts users for a tenant
func (r *GormUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&models.UserModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// hydrate attaches role assignments and preferences to the mapped user
func (r *GormUserRepository) hydrate(ctx context.Context, model *models.UserModel) (*identity.User, error) {
	user := model.ToDomain()

	var roleRows []models.UserRoleModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", model.ID).
		Order("created_at ASC").
		Find(&roleRows).Error; err != nil {
		return nil, err
	}
	roleIDs := make([]uuid.UUID, len(roleRows))
	for i := range roleRows {
		roleIDs[i] = roleRows[i].RoleID
	}
	user.RoleIDs = roleIDs

	var prefs models.UserPreferencesModel
	err := r.db.WithContext(ctx).First(&prefs, "user_id = ?", model.ID).Error
	switch {
	case err == nil:
		user.Preferences = prefs.ToDomain()
	case errors.Is(err, gorm.ErrRecordNotFound):
		user.Preferences = identity.DefaultPreferences(user.GetID())
	default:
		return nil, err
	}
	return user, nil
}

func (r *GormUserRepository) find(ctx context.Context, query *gorm.DB) ([]identity.User, error) {
	var rows []models.UserModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		u, err := r.hydrate(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		users[i] = *u
	}
	return users, nil
}

// syncAssociations replaces the user's role assignments and upserts preferences
func (r *GormUserRepository) syncAssociations(tx *gorm.DB, u *identity.User) error {
	if err := tx.Where("user_id = ?", u.GetID()).Delete(&models.UserRoleModel{}).Error; err != nil {
		return err
	}
	if len(u.RoleIDs) > 0 {
		assignments := make([]models.UserRoleModel, len(u.RoleIDs))
		now := time.Now()
		for i, roleID := range u.RoleIDs {
			assignments[i] = models.UserRoleModel{
				UserID:    u.GetID(),
				RoleID:    roleID,
				TenantID:  u.TenantID,
				CreatedAt: now,
			}
		}
		if err := tx.Create(&assignments).Error; err != nil {
			return err
		}
	}
	if u.Preferences != nil {
		prefs := &models.UserPreferencesModel{}
		prefs.FromDomain(u.Preferences)
		if err := tx.Save(prefs).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilter applies search, additional filters, ordering, and pagination
func (r *GormUserRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyOrdering(query, filter, userSortFields, "created_at")
	return applyPagination(query, filter)
}

// applySearch applies search and additional filters without pagination
func (r *GormUserRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "role_id":
			query = query.Where("id IN (SELECT user_id FROM user_roles WHERE role_id = ?)", value)
		}
	}
	return query
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
