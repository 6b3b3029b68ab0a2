package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/tour"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
)

var tourSortFields = map[string]bool{
	"tour_number": true,
	"status":      true,
	"tour_date":   true,
	"created_at":  true,
	"updated_at":  true,
}

// GormTourRepository implements tour.TourRepository using GORM
type GormTourRepository struct {
	db *gorm.DB
}

// NewGormTourRepository creates a new GormTourRepository
func NewGormTourRepository(db *gorm.DB) *GormTourRepository {
	return &GormTourRepository{db: db}
}

// FindByID finds a tour by its ID
func (r *GormTourRepository) FindByID(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	var model models.TourModel
	if err := r.preloaded(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a tour by ID within a tenant
func (r *GormTourRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tour.Tour, error) {
	var model models.TourModel
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

// FindByNumber finds a tour by its number within a tenant
func (r *GormTourRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, tourNumber string) (*tour.Tour, error) {
	var model models.TourModel
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND tour_number = ?", tenantID, tourNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDate finds all tours scheduled for a day
func (r *GormTourRepository) FindByDate(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]tour.Tour, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	query := r.preloaded(ctx).Model(&models.TourModel{}).
		Where("tenant_id = ? AND tour_date >= ? AND tour_date < ?", tenantID, dayStart, dayEnd).
		Order("tour_number ASC")
	return r.find(query)
}

// FindAll finds all tours matching the filter
func (r *GormTourRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tour.Tour, error) {
	query := r.applyFilter(r.preloaded(ctx).Model(&models.TourModel{}), filter)
	return r.find(query)
}

// FindAllForTenant finds all tours for a tenant
func (r *GormTourRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]tour.Tour, error) {
	query := r.applyFilter(
		r.preloaded(ctx).Model(&models.TourModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	return r.find(query)
}

// Save creates or updates a tour with its stops
func (r *GormTourRepository) Save(ctx context.Context, t *tour.Tour) error {
	model := models.TourModelFromDomain(t)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return r.replaceStops(tx, model)
	})
}

// SaveWithLock persists the tour with an optimistic concurrency check
func (r *GormTourRepository) SaveWithLock(ctx context.Context, t *tour.Tour, expectedVersion int) error {
	model := models.TourModelFromDomain(t)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.TourModel{}).
			Where("id = ? AND version = ?", model.ID, expectedVersion).
			Select("*").Omit("id", "created_at").Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.replaceStops(tx, model)
	})
}

// Delete deletes a tour; stops cascade at the database level
func (r *GormTourRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TourModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts tours matching the filter
func (r *GormTourRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.TourModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts tours for a tenant
func (r *GormTourRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&models.TourModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTourRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Stops", func(db *gorm.DB) *gorm.DB {
		return db.Order("stop_order ASC")
	})
}

func (r *GormTourRepository) find(query *gorm.DB) ([]tour.Tour, error) {
	var rows []models.TourModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	tours := make([]tour.Tour, len(rows))
	for i := range rows {
		tours[i] = *rows[i].ToDomain()
	}
	return tours, nil
}

func (r *GormTourRepository) replaceStops(tx *gorm.DB, model *models.TourModel) error {
	if err := tx.Where("tour_id = ?", model.ID).Delete(&models.StopModel{}).Error; err != nil {
		return err
	}
	if len(model.Stops) == 0 {
		return nil
	}
	return tx.Create(&model.Stops).Error
}

// applyFilter applies search, additional filters, ordering, and pagination
func (r *GormTourRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyOrdering(query, filter, tourSortFields, "tour_date")
	return applyPagination(query, filter)
}

// applySearch applies search and additional filters without pagination
func (r *GormTourRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("tour_number ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "vehicle_id":
			query = query.Where("vehicle_id = ?", value)
		case "driver_id":
			query = query.Where("driver_id = ?", value)
		case "date_from":
			query = query.Where("tour_date >= ?", value)
		case "date_to":
			query = query.Where("tour_date <= ?", value)
		}
	}
	return query
}

// Ensure GormTourRepository implements TourRepository
var _ tour.TourRepository = (*GormTourRepository)(nil)
