package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizfin/backend/internal/domain/ledger"
	"github.com/bizfin/backend/internal/domain/shared"
)

// GormInvoiceRepository implements ledger.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForBusiness finds an invoice by ID within a business
func (r *GormInvoiceRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*ledger.Invoice, error) {
	var invoice ledger.Invoice
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its number within a business
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, businessID uuid.UUID, number string) (*ledger.Invoice, error) {
	var invoice ledger.Invoice
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND number = ?", businessID, number).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// ExistsByNumber checks whether an invoice number exists in the business
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, businessID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ledger.Invoice{}).
		Where("business_id = ? AND number = ?", businessID, number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForBusiness finds all invoices for a business
func (r *GormInvoiceRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]ledger.Invoice, error) {
	return r.findInvoices(ctx, filter, "business_id = ?", businessID)
}

// FindBySupplier finds invoices for a supplier
func (r *GormInvoiceRepository) FindBySupplier(ctx context.Context, businessID, supplierID uuid.UUID, filter shared.Filter) ([]ledger.Invoice, error) {
	return r.findInvoices(ctx, filter, "business_id = ? AND supplier_id = ?", businessID, supplierID)
}

func (r *GormInvoiceRepository) findInvoices(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) ([]ledger.Invoice, error) {
	query := r.db.WithContext(ctx).Where(cond, args...)
	query = applyInvoiceFilters(query, filter)
	query, err := applyFilter(query, filter, InvoiceSortFields, "date DESC, number DESC", "number")
	if err != nil {
		return nil, err
	}

	var invoices []ledger.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountForBusiness counts invoices for a business
func (r *GormInvoiceRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&ledger.Invoice{}).Where("business_id = ?", businessID)
	query = applyInvoiceFilters(query, filter)
	query, err := applyFilterWithoutPagination(query, filter, InvoiceSortFields, "", "number")
	if err != nil {
		return 0, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// DeleteForBusiness deletes an invoice within a business
func (r *GormInvoiceRepository) DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&ledger.Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func applyInvoiceFilters(db *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			db = db.Where("status = ?", value)
		case "supplier_id":
			db = db.Where("supplier_id = ?", value)
		case "date_from":
			db = db.Where("date >= ?", value)
		case "date_to":
			db = db.Where("date < ?", value)
		}
	}
	return db
}
