package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizfin/backend/internal/domain/ledger"
	"github.com/bizfin/backend/internal/domain/shared"
)

// GormSupplierRepository implements ledger.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new supplier repository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByIDForBusiness finds a supplier by ID within a business
func (r *GormSupplierRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*ledger.Supplier, error) {
	var supplier ledger.Supplier
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAllForBusiness finds all suppliers for a business
func (r *GormSupplierRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]ledger.Supplier, error) {
	return r.findSuppliers(ctx, filter, "business_id = ?", businessID)
}

// FindActive finds active suppliers for a business
func (r *GormSupplierRepository) FindActive(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]ledger.Supplier, error) {
	return r.findSuppliers(ctx, filter, "business_id = ? AND active = ?", businessID, true)
}

func (r *GormSupplierRepository) findSuppliers(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) ([]ledger.Supplier, error) {
	query := r.db.WithContext(ctx).Where(cond, args...)
	query = applySupplierFilters(query, filter)
	query, err := applyFilter(query, filter, SupplierSortFields, "name ASC", "name", "contact_name")
	if err != nil {
		return nil, err
	}

	var suppliers []ledger.Supplier
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// CountForBusiness counts suppliers for a business
func (r *GormSupplierRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&ledger.Supplier{}).Where("business_id = ?", businessID)
	query = applySupplierFilters(query, filter)
	query, err := applyFilterWithoutPagination(query, filter, SupplierSortFields, "", "name", "contact_name")
	if err != nil {
		return 0, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *ledger.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// DeleteForBusiness deletes a supplier within a business
func (r *GormSupplierRepository) DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&ledger.Supplier{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func applySupplierFilters(db *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "category":
			db = db.Where("category = ?", value)
		case "active":
			db = db.Where("active = ?", value)
		}
	}
	return db
}
