package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizfin/backend/internal/domain/daily"
	"github.com/bizfin/backend/internal/domain/shared"
)

// GormIncomeSourceRepository implements daily.IncomeSourceRepository using GORM
type GormIncomeSourceRepository struct {
	db *gorm.DB
}

// NewGormIncomeSourceRepository creates a new income source repository
func NewGormIncomeSourceRepository(db *gorm.DB) *GormIncomeSourceRepository {
	return &GormIncomeSourceRepository{db: db}
}

// FindByID finds an income source by ID within a business
func (r *GormIncomeSourceRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*daily.IncomeSource, error) {
	var source daily.IncomeSource
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &source, nil
}

// FindByBusiness returns income sources ordered for display
func (r *GormIncomeSourceRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID, activeOnly bool) ([]*daily.IncomeSource, error) {
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var sources []*daily.IncomeSource
	if err := query.Order("sort_order ASC, name ASC").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

// Save creates or updates an income source
func (r *GormIncomeSourceRepository) Save(ctx context.Context, source *daily.IncomeSource) error {
	return r.db.WithContext(ctx).Save(source).Error
}

// Delete deletes an income source within a business
func (r *GormIncomeSourceRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&daily.IncomeSource{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormManagedProductRepository implements daily.ManagedProductRepository using GORM
type GormManagedProductRepository struct {
	db *gorm.DB
}

// NewGormManagedProductRepository creates a new managed product repository
func NewGormManagedProductRepository(db *gorm.DB) *GormManagedProductRepository {
	return &GormManagedProductRepository{db: db}
}

// FindByID finds a managed product by ID within a business
func (r *GormManagedProductRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*daily.ManagedProduct, error) {
	var product daily.ManagedProduct
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByBusiness returns managed products ordered for display
func (r *GormManagedProductRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID, activeOnly bool) ([]*daily.ManagedProduct, error) {
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var products []*daily.ManagedProduct
	if err := query.Order("sort_order ASC, name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a managed product
func (r *GormManagedProductRepository) Save(ctx context.Context, product *daily.ManagedProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete deletes a managed product within a business
func (r *GormManagedProductRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&daily.ManagedProduct{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
