package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizfin/backend/internal/domain/goals"
	"github.com/bizfin/backend/internal/domain/shared"
)

// GormGoalRepository implements goals.GoalRepository using GORM
type GormGoalRepository struct {
	db *gorm.DB
}

// NewGormGoalRepository creates a new goal repository
func NewGormGoalRepository(db *gorm.DB) *GormGoalRepository {
	return &GormGoalRepository{db: db}
}

// FindByID finds a goal by its ID
func (r *GormGoalRepository) FindByID(ctx context.Context, id uuid.UUID) (*goals.Goal, error) {
	var goal goals.Goal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// FindByIDForBusiness finds a goal by ID within a business
func (r *GormGoalRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*goals.Goal, error) {
	var goal goals.Goal
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// FindByMonth finds the goal for a (business, month)
func (r *GormGoalRepository) FindByMonth(ctx context.Context, businessID uuid.UUID, month time.Time) (*goals.Goal, error) {
	var goal goals.Goal
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND month = ?", businessID, goals.MonthOf(month)).
		First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// FindAllForBusiness finds all goals for a business
func (r *GormGoalRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]goals.Goal, error) {
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	query, err := applyFilter(query, filter, GoalSortFields, "month DESC")
	if err != nil {
		return nil, err
	}

	var result []goals.Goal
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// ExistsByMonth checks whether a goal exists for a (business, month)
func (r *GormGoalRepository) ExistsByMonth(ctx context.Context, businessID uuid.UUID, month time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&goals.Goal{}).
		Where("business_id = ? AND month = ?", businessID, goals.MonthOf(month)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a goal
func (r *GormGoalRepository) Save(ctx context.Context, goal *goals.Goal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

// DeleteForBusiness deletes a goal within a business
func (r *GormGoalRepository) DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&goals.Goal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
