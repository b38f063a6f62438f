package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizfin/backend/internal/domain/business"
	"github.com/bizfin/backend/internal/domain/shared"
)

// GormBusinessRepository implements business.BusinessRepository using GORM
type GormBusinessRepository struct {
	db *gorm.DB
}

// NewGormBusinessRepository creates a new business repository
func NewGormBusinessRepository(db *gorm.DB) *GormBusinessRepository {
	return &GormBusinessRepository{db: db}
}

// FindByID finds a business by its ID
func (r *GormBusinessRepository) FindByID(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	var b business.Business
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByOwner finds all businesses owned by a profile
func (r *GormBusinessRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]business.Business, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	query, err := applyFilter(query, filter, BusinessSortFields, "name ASC", "name")
	if err != nil {
		return nil, err
	}

	var businesses []business.Business
	if err := query.Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

// Save creates or updates a business
func (r *GormBusinessRepository) Save(ctx context.Context, b *business.Business) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// Delete deletes a business
func (r *GormBusinessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&business.Business{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormScheduleRepository implements business.ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new schedule repository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByBusiness returns all schedule rows for a business ordered by weekday
func (r *GormScheduleRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID) (business.WeekSchedule, error) {
	var days []business.ScheduleDay
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("weekday ASC").
		Find(&days).Error
	if err != nil {
		return nil, err
	}
	return business.WeekSchedule(days), nil
}

// FindByWeekday returns the schedule row for one weekday, if set
func (r *GormScheduleRepository) FindByWeekday(ctx context.Context, businessID uuid.UUID, weekday int) (*business.ScheduleDay, error) {
	var day business.ScheduleDay
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND weekday = ?", businessID, weekday).
		First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// Save creates or updates a schedule row
func (r *GormScheduleRepository) Save(ctx context.Context, day *business.ScheduleDay) error {
	return r.db.WithContext(ctx).Save(day).Error
}

// Delete deletes a schedule row
func (r *GormScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&business.ScheduleDay{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
